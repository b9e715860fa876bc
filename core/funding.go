package core

import (
	"math/bits"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/warrenshiv/SuiFund/ledger"
)

const feeDenominator = 10000

// FundProposal accepts a contribution, splits the platform fee into the
// treasury and escrows the remainder. The gross amount counts toward the
// funding target and the global funding metric. Reaching the target
// moves the proposal from funding to active.
func (p *Platform) FundProposal(caller common.Address, now uint64, id uint64, payment *ledger.Balance) error {
	prop, err := p.proposal(id)
	if err != nil {
		return err
	}
	if caller == (common.Address{}) {
		return errors.Wrap(ErrNotAuthorized, "null caller identity")
	}
	amount := uint64(0)
	if payment != nil {
		amount = payment.Value()
	}
	if amount < p.Config.Governance.MinFundingAmount {
		return errors.Wrapf(ErrInvalidAmount, "payment %d below minimum %d", amount, p.Config.Governance.MinFundingAmount)
	}
	if prop.Stage != StageFunding {
		return errors.Wrapf(ErrInvalidState, "proposal %d is %s, want funding", id, prop.Stage)
	}

	fee := p.computeFee(amount)
	feePart, err := payment.Split(fee)
	if err != nil {
		// fee is always strictly below amount
		return err
	}
	p.treasury.Deposit(feePart)
	prop.Escrow.Deposit(payment)

	prop.Raised += amount
	p.metrics.TotalFunding += amount

	if prop.Raised >= prop.FundingTarget {
		prop.Stage = StageActive
		p.Logger.WithFields(logrus.Fields{
			"proposal": id,
			"raised":   prop.Raised,
		}).Info("funding target reached")
	}

	p.Logger.WithFields(logrus.Fields{
		"proposal": id,
		"funder":   caller.Hex(),
		"amount":   amount,
		"fee":      fee,
	}).Debug("proposal funded")

	return nil
}

// computeFee applies the governance fee in basis points, rounded down.
// The rate is capped at 100% and the product is widened to 128 bits, so
// the fee never exceeds the payment and never overflows.
func (p *Platform) computeFee(amount uint64) uint64 {
	bps := p.Config.Governance.FeePercentage
	if bps > feeDenominator {
		bps = feeDenominator
	}
	hi, lo := bits.Mul64(amount, bps)
	if hi == 0 {
		return lo / feeDenominator
	}
	fee, _ := bits.Div64(hi, lo, feeDenominator)
	return fee
}

// releaseMilestone pays the milestone's required funding from escrow to
// the researcher. Insufficient escrow skips the payout without failing
// the completion; later escrow growth does not trigger a retry.
func (p *Platform) releaseMilestone(prop *ResearchProposal, m *Milestone) {
	if prop.Escrow.Value() < m.RequiredFunding {
		p.Logger.WithFields(logrus.Fields{
			"proposal":  prop.ID,
			"milestone": m.ID,
			"escrow":    prop.Escrow.Value(),
			"required":  m.RequiredFunding,
		}).Warn("milestone completed without payout, escrow insufficient")
		return
	}

	release, err := prop.Escrow.Split(m.RequiredFunding)
	if err != nil {
		return
	}
	if err := p.custody.Pay(prop.Researcher, release); err != nil {
		// leave the funds in escrow rather than lose them
		prop.Escrow.Deposit(release)
		p.Logger.WithFields(logrus.Fields{
			"proposal":  prop.ID,
			"milestone": m.ID,
		}).Errorf("payout failed: %s", err)
		return
	}

	m.PaidOut = true
	researcher := p.ensureResearcher(prop.Researcher)
	researcher.TotalFundingReceived += m.RequiredFunding
	p.metrics.SuccessfulProjects++

	p.Logger.WithFields(logrus.Fields{
		"proposal":  prop.ID,
		"milestone": m.ID,
		"amount":    m.RequiredFunding,
	}).Info("milestone payout released")
}
