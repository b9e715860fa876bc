package core

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/warrenshiv/SuiFund/ledger"
	"github.com/warrenshiv/SuiFund/verify"
)

type Stage uint8

const (
	// StageDraft is where every proposal starts.
	StageDraft Stage = iota

	// StageFunding accepts contributions.
	StageFunding

	// StageActive means the funding target was reached.
	StageActive

	// StageCompleted is terminal: every milestone verified.
	StageCompleted
)

func (s Stage) String() string {
	switch s {
	case StageDraft:
		return "draft"
	case StageFunding:
		return "funding"
	case StageActive:
		return "active"
	case StageCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

type MilestoneStatus uint8

const (
	MilestonePending MilestoneStatus = iota
	MilestoneInProgress
	MilestoneCompleted
)

func (s MilestoneStatus) String() string {
	switch s {
	case MilestonePending:
		return "pending"
	case MilestoneInProgress:
		return "in_progress"
	case MilestoneCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Milestone is owned exclusively by its proposal and addressed by the
// stable ID assigned at creation, never by list position.
type Milestone struct {
	ID                 uint64
	Description        string
	RequiredFunding    uint64
	Deadline           uint64
	VerificationMethod string
	Status             MilestoneStatus
	Validators         []common.Address
	Proofs             []*verify.Proof

	// PaidOut records whether the release happened when the milestone
	// completed. Completion with insufficient escrow leaves it false and
	// the engine never retries.
	PaidOut bool
}

func (m *Milestone) authorizes(caller common.Address) bool {
	for _, v := range m.Validators {
		if v == caller {
			return true
		}
	}
	return false
}

// MilestoneSpec is the creation-time description of a milestone.
type MilestoneSpec struct {
	Description        string           `json:"description"`
	RequiredFunding    uint64           `json:"required_funding"`
	Deadline           uint64           `json:"deadline"`
	VerificationMethod string           `json:"verification_method"`
	Validators         []common.Address `json:"validators"`
}

// Timeline deadlines are descriptive data; no operation enforces them
// against the logical clock.
type Timeline struct {
	CreatedAt           uint64
	ReviewDeadline      uint64
	FundingDeadline     uint64
	EstimatedCompletion uint64
	ActualCompletion    uint64
}

type Impact struct {
	Reviews        uint64
	ScoreTotal     uint64
	AcceptedProofs uint64
}

// Review is immutable once inserted; uniqueness per reviewer is enforced
// by the proposal's review map key.
type Review struct {
	Reviewer    common.Address
	Methodology uint8
	Feasibility uint8
	Impact      uint8
	Comment     string
	SubmittedAt uint64
}

type ReviewSpec struct {
	Methodology uint8  `json:"methodology"`
	Feasibility uint8  `json:"feasibility"`
	Impact      uint8  `json:"impact"`
	Comment     string `json:"comment"`
}

const maxReviewScore = 10

func (r *ReviewSpec) validate() error {
	if r.Methodology > maxReviewScore || r.Feasibility > maxReviewScore || r.Impact > maxReviewScore {
		return errors.Wrapf(ErrInvalidReview, "scores must be in [0,%d]", maxReviewScore)
	}
	return nil
}

type ProposalSpec struct {
	Title               string            `json:"title"`
	Description         string            `json:"description"`
	FundingTarget       uint64            `json:"funding_target"`
	ReviewDeadline      uint64            `json:"review_deadline"`
	FundingDeadline     uint64            `json:"funding_deadline"`
	EstimatedCompletion uint64            `json:"estimated_completion"`
	Milestones          []MilestoneSpec   `json:"milestones"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

type ResearchProposal struct {
	ID            uint64
	Researcher    common.Address
	Title         string
	Description   string
	Milestones    []*Milestone
	FundingTarget uint64

	// Raised is the cumulative gross contribution total, fee included.
	// Nothing caps it at FundingTarget: the payment that crosses the
	// target is accepted in full.
	Raised uint64

	Escrow         *ledger.Balance
	Stage          Stage
	Reviews        map[common.Address]*Review
	Timeline       Timeline
	Impact         Impact
	AcceptedProofs []*verify.Proof
	Metadata       map[string]string

	milestoneSeq uint64
}

func (p *ResearchProposal) milestone(id uint64) *Milestone {
	for _, m := range p.Milestones {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (p *ResearchProposal) allMilestonesCompleted() bool {
	for _, m := range p.Milestones {
		if m.Status != MilestoneCompleted {
			return false
		}
	}
	return true
}

// promoteNextMilestone moves the first pending milestone to in-progress.
func (p *ResearchProposal) promoteNextMilestone() {
	for _, m := range p.Milestones {
		if m.Status == MilestonePending {
			m.Status = MilestoneInProgress
			return
		}
	}
}

type ResearcherProfile struct {
	Identity             common.Address
	Reputation           uint64
	Stake                *ledger.Balance
	TotalFundingReceived uint64
	ActiveProjects       []uint64
	CompletedProjects    []uint64
}

func (r *ResearcherProfile) completeProject(id uint64) {
	for i, active := range r.ActiveProjects {
		if active == id {
			r.ActiveProjects = append(r.ActiveProjects[:i], r.ActiveProjects[i+1:]...)
			break
		}
	}
	r.CompletedProjects = append(r.CompletedProjects, id)
}

type ReviewerProfile struct {
	Identity         common.Address
	Reputation       uint64
	Stake            *ledger.Balance
	ReviewsCompleted uint64
}

// Metrics track gross inflow: TotalFunding includes platform fees.
type Metrics struct {
	TotalProposals     uint64
	TotalFunding       uint64
	TotalReviews       uint64
	SuccessfulProjects uint64
}
