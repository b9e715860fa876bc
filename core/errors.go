package core

import (
	"github.com/pkg/errors"
)

// Caller-facing failure kinds. Every check runs before any mutation, so a
// returned error always means the platform state is unchanged. Match with
// errors.Is.
var (
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidProposal   = errors.New("invalid proposal")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidMilestone  = errors.New("invalid milestone")
	ErrInvalidReview     = errors.New("invalid review")
	ErrInsufficientStake = errors.New("insufficient stake")
	ErrInvalidProof      = errors.New("invalid proof")
	ErrNotFound          = errors.New("not found")
	ErrReviewerConflict  = errors.New("reviewer conflict")
)
