package core

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/warrenshiv/SuiFund/ledger"
)

// Custody is the value-transfer boundary. The external custody system
// materializes deposits as balances and fulfills payments; the engine
// only moves the abstract value it is handed.
type Custody interface {
	// Deposit accepts external funds of the given quantity.
	Deposit(amount uint64) (*ledger.Balance, error)

	// Pay emits funds to the given identity, consuming the balance.
	Pay(to common.Address, funds *ledger.Balance) error
}

var _ Custody = (*MintCustody)(nil)

// MintCustody mints deposits and absorbs payments while tracking totals.
// It backs tests and the standalone daemon; production deployments plug
// in a real custody system.
type MintCustody struct {
	Deposited uint64
	Payments  map[common.Address]uint64
}

func NewMintCustody() *MintCustody {
	return &MintCustody{
		Payments: make(map[common.Address]uint64),
	}
}

func (c *MintCustody) Deposit(amount uint64) (*ledger.Balance, error) {
	c.Deposited += amount
	return ledger.Mint(amount), nil
}

func (c *MintCustody) Pay(to common.Address, funds *ledger.Balance) error {
	sink := ledger.Zero()
	c.Payments[to] += funds.Value()
	sink.Deposit(funds)
	return nil
}

// Paid reports the total emitted to an identity.
func (c *MintCustody) Paid(to common.Address) uint64 {
	return c.Payments[to]
}
