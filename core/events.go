package core

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/warrenshiv/SuiFund/verify"
)

type EventKind uint8

const (
	// EventCreate registers a new proposal from Spec.
	EventCreate EventKind = iota

	// EventOpenFunding moves a draft proposal into funding.
	EventOpenFunding

	// EventUpdate replaces a proposal description.
	EventUpdate

	// EventFund contributes Amount to a proposal.
	EventFund

	// EventReview submits a review with Amount staked.
	EventReview

	// EventVerify submits a reproducibility proof for a milestone.
	EventVerify
)

// PlatformEvent is the log payload emitted by the funding contract. The
// block number of the carrying log serves as the logical clock for the
// operation it describes.
type PlatformEvent struct {
	Kind        EventKind      `json:"kind"`
	Caller      common.Address `json:"caller"`
	Proposal    uint64         `json:"proposal"`
	Milestone   uint64         `json:"milestone"`
	Amount      uint64         `json:"amount"`
	Description string         `json:"description,omitempty"`
	Spec        *ProposalSpec  `json:"spec,omitempty"`
	Review      *ReviewSpec    `json:"review,omitempty"`
	Proof       *verify.Proof  `json:"proof,omitempty"`
}
