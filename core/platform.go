package core

import (
	"github.com/axiomesh/axiom-kit/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/warrenshiv/SuiFund/ledger"
	"github.com/warrenshiv/SuiFund/registry"
	"github.com/warrenshiv/SuiFund/repo"
	"github.com/warrenshiv/SuiFund/verify"
)

// Platform is the single shared ledger aggregate. It owns the treasury,
// every proposal and profile, and all the rules that move value between
// them. Mutations must be serialized by the caller: one operation at a
// time per instance, every operation either fully applies or leaves the
// state untouched.
type Platform struct {
	Logger *logrus.Logger
	Config *repo.Config

	treasury    *ledger.Balance
	proposals   *registry.Store[uint64, *ResearchProposal]
	researchers map[common.Address]*ResearcherProfile
	reviewers   map[common.Address]*ReviewerProfile
	metrics     Metrics
	custody     Custody
	admin       common.Address
	proposalSeq uint64
}

func NewPlatform(config *repo.Config, custody Custody) *Platform {
	logger := log.New()
	logger.SetLevel(log.ParseLevel(config.Log.Level))

	var admin common.Address
	if config.Governance.Admin != "" {
		admin = common.HexToAddress(config.Governance.Admin)
	}

	return &Platform{
		Logger:      logger,
		Config:      config,
		treasury:    ledger.Zero(),
		proposals:   registry.NewStore[uint64, *ResearchProposal](),
		researchers: make(map[common.Address]*ResearcherProfile),
		reviewers:   make(map[common.Address]*ReviewerProfile),
		custody:     custody,
		admin:       admin,
	}
}

func (p *Platform) Custody() Custody {
	return p.custody
}

func (p *Platform) TreasuryValue() uint64 {
	return p.treasury.Value()
}

func (p *Platform) Metrics() Metrics {
	return p.metrics
}

func (p *Platform) Researcher(identity common.Address) (*ResearcherProfile, error) {
	profile, ok := p.researchers[identity]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "researcher %s", identity)
	}
	return profile, nil
}

func (p *Platform) Reviewer(identity common.Address) (*ReviewerProfile, error) {
	profile, ok := p.reviewers[identity]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "reviewer %s", identity)
	}
	return profile, nil
}

// ProposalIDs returns ids in creation order.
func (p *Platform) ProposalIDs() []uint64 {
	return p.proposals.Keys()
}

func (p *Platform) proposal(id uint64) (*ResearchProposal, error) {
	prop, err := p.proposals.Get(id)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "proposal %d", id)
	}
	return prop, nil
}

func (p *Platform) isAdmin(caller common.Address) bool {
	return p.admin != (common.Address{}) && caller == p.admin
}

// CreateProposal registers a new proposal in Draft stage and returns its
// id. The researcher profile is created lazily on first proposal.
func (p *Platform) CreateProposal(caller common.Address, now uint64, spec ProposalSpec) (uint64, error) {
	if caller == (common.Address{}) {
		return 0, errors.Wrap(ErrNotAuthorized, "null caller identity")
	}
	if spec.Title == "" {
		return 0, errors.Wrap(ErrInvalidProposal, "empty title")
	}
	if spec.FundingTarget == 0 {
		return 0, errors.Wrap(ErrInvalidAmount, "zero funding target")
	}
	if len(spec.Milestones) == 0 {
		return 0, errors.Wrap(ErrInvalidMilestone, "proposal needs at least one milestone")
	}
	for i, ms := range spec.Milestones {
		if ms.Description == "" {
			return 0, errors.Wrapf(ErrInvalidMilestone, "milestone %d has no description", i)
		}
		if ms.RequiredFunding == 0 {
			return 0, errors.Wrapf(ErrInvalidMilestone, "milestone %d requires no funding", i)
		}
		if len(ms.Validators) == 0 {
			return 0, errors.Wrapf(ErrInvalidMilestone, "milestone %d has no validators", i)
		}
	}

	p.proposalSeq++
	id := p.proposalSeq

	prop := &ResearchProposal{
		ID:            id,
		Researcher:    caller,
		Title:         spec.Title,
		Description:   spec.Description,
		FundingTarget: spec.FundingTarget,
		Escrow:        ledger.Zero(),
		Stage:         StageDraft,
		Reviews:       make(map[common.Address]*Review),
		Timeline: Timeline{
			CreatedAt:           now,
			ReviewDeadline:      spec.ReviewDeadline,
			FundingDeadline:     spec.FundingDeadline,
			EstimatedCompletion: spec.EstimatedCompletion,
		},
		Metadata: make(map[string]string),
	}
	for k, v := range spec.Metadata {
		prop.Metadata[k] = v
	}
	for _, ms := range spec.Milestones {
		prop.milestoneSeq++
		prop.Milestones = append(prop.Milestones, &Milestone{
			ID:                 prop.milestoneSeq,
			Description:        ms.Description,
			RequiredFunding:    ms.RequiredFunding,
			Deadline:           ms.Deadline,
			VerificationMethod: ms.VerificationMethod,
			Status:             MilestonePending,
			Validators:         append([]common.Address(nil), ms.Validators...),
		})
	}

	if err := p.proposals.Insert(id, prop); err != nil {
		return 0, err
	}

	researcher := p.ensureResearcher(caller)
	researcher.ActiveProjects = append(researcher.ActiveProjects, id)
	p.metrics.TotalProposals++

	p.Logger.WithFields(logrus.Fields{
		"proposal":   id,
		"researcher": caller.Hex(),
		"target":     spec.FundingTarget,
	}).Info("proposal created")

	return id, nil
}

// OpenFunding transitions a draft proposal into the funding stage and
// starts its first milestone. Only the researcher or the admin may open
// funding.
func (p *Platform) OpenFunding(caller common.Address, now uint64, id uint64) error {
	prop, err := p.proposal(id)
	if err != nil {
		return err
	}
	if caller != prop.Researcher && !p.isAdmin(caller) {
		return errors.Wrapf(ErrNotAuthorized, "caller %s cannot open funding for proposal %d", caller, id)
	}
	if prop.Stage != StageDraft {
		return errors.Wrapf(ErrInvalidState, "proposal %d is %s, want draft", id, prop.Stage)
	}

	prop.Stage = StageFunding
	prop.promoteNextMilestone()

	p.Logger.WithField("proposal", id).Info("funding opened")
	return nil
}

// UpdateProposal replaces the proposal description. Only the researcher
// or the admin may update.
func (p *Platform) UpdateProposal(caller common.Address, id uint64, description string) error {
	prop, err := p.proposal(id)
	if err != nil {
		return err
	}
	if caller != prop.Researcher && !p.isAdmin(caller) {
		return errors.Wrapf(ErrNotAuthorized, "caller %s cannot update proposal %d", caller, id)
	}

	prop.Description = description
	return nil
}

// GetProposalDetails is read-only and never mutates state.
func (p *Platform) GetProposalDetails(id uint64) (*ResearchProposal, error) {
	return p.proposal(id)
}

// SubmitReview records a review and locks the accompanying stake in the
// reviewer's profile. One review per reviewer per proposal; the
// researcher cannot review their own work.
func (p *Platform) SubmitReview(caller common.Address, now uint64, id uint64, spec ReviewSpec, stake *ledger.Balance) error {
	prop, err := p.proposal(id)
	if err != nil {
		return err
	}
	if caller == (common.Address{}) {
		return errors.Wrap(ErrNotAuthorized, "null caller identity")
	}
	if caller == prop.Researcher {
		return errors.Wrapf(ErrNotAuthorized, "researcher %s cannot review own proposal", caller)
	}
	if _, ok := prop.Reviews[caller]; ok {
		return errors.Wrapf(ErrReviewerConflict, "reviewer %s already reviewed proposal %d", caller, id)
	}
	if err := spec.validate(); err != nil {
		return err
	}

	staked := uint64(0)
	if stake != nil {
		staked = stake.Value()
	}
	if existing, ok := p.reviewers[caller]; ok {
		staked += existing.Stake.Value()
	}
	if staked < p.Config.Governance.MinStakeAmount {
		return errors.Wrapf(ErrInsufficientStake, "stake %d below minimum %d", staked, p.Config.Governance.MinStakeAmount)
	}

	reviewer := p.ensureReviewer(caller)
	reviewer.Stake.Deposit(stake)
	reviewer.ReviewsCompleted++
	reviewer.Reputation++

	prop.Reviews[caller] = &Review{
		Reviewer:    caller,
		Methodology: spec.Methodology,
		Feasibility: spec.Feasibility,
		Impact:      spec.Impact,
		Comment:     spec.Comment,
		SubmittedAt: now,
	}
	prop.Impact.Reviews++
	prop.Impact.ScoreTotal += uint64(spec.Methodology) + uint64(spec.Feasibility) + uint64(spec.Impact)
	p.metrics.TotalReviews++

	p.Logger.WithFields(logrus.Fields{
		"proposal": id,
		"reviewer": caller.Hex(),
	}).Info("review submitted")

	return nil
}

func (p *Platform) ensureResearcher(identity common.Address) *ResearcherProfile {
	if profile, ok := p.researchers[identity]; ok {
		return profile
	}
	profile := &ResearcherProfile{
		Identity: identity,
		Stake:    ledger.Zero(),
	}
	p.researchers[identity] = profile
	return profile
}

func (p *Platform) ensureReviewer(identity common.Address) *ReviewerProfile {
	if profile, ok := p.reviewers[identity]; ok {
		return profile
	}
	profile := &ReviewerProfile{
		Identity: identity,
		Stake:    ledger.Zero(),
	}
	p.reviewers[identity] = profile
	return profile
}

// VerifyMilestone accepts a reproducibility proof from an authorized
// validator. On success the milestone completes, the release is paid out
// escrow-permitting, the next milestone starts, and a fully verified
// proposal becomes completed.
func (p *Platform) VerifyMilestone(caller common.Address, now uint64, proposalID, milestoneID uint64, proof *verify.Proof) error {
	prop, err := p.proposal(proposalID)
	if err != nil {
		return err
	}
	m := prop.milestone(milestoneID)
	if m == nil {
		return errors.Wrapf(ErrInvalidMilestone, "proposal %d has no milestone %d", proposalID, milestoneID)
	}
	if !m.authorizes(caller) {
		return errors.Wrapf(ErrNotAuthorized, "caller %s is not a validator of milestone %d", caller, milestoneID)
	}
	if m.Status != MilestoneInProgress {
		return errors.Wrapf(ErrInvalidState, "milestone %d is %s, want in_progress", milestoneID, m.Status)
	}
	if proof == nil {
		return errors.Wrap(ErrInvalidProof, "missing proof")
	}
	if proof.Validator != caller {
		return errors.Wrapf(ErrInvalidProof, "proof validator %s does not match caller", proof.Validator)
	}
	if err := proof.ValidateFormat(); err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}
	verifier, err := verify.ForMethod(m.VerificationMethod)
	if err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}
	if err := verifier.Verify(proof); err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}

	proof.Status = verify.StatusAccepted
	m.Status = MilestoneCompleted
	m.Proofs = append(m.Proofs, proof)
	prop.AcceptedProofs = append(prop.AcceptedProofs, proof)
	prop.Impact.AcceptedProofs++

	p.releaseMilestone(prop, m)
	prop.promoteNextMilestone()

	if prop.allMilestonesCompleted() {
		prop.Stage = StageCompleted
		prop.Timeline.ActualCompletion = now
		researcher := p.ensureResearcher(prop.Researcher)
		researcher.completeProject(prop.ID)
		researcher.Reputation++
		p.Logger.WithField("proposal", prop.ID).Info("proposal completed")
	}

	return nil
}
