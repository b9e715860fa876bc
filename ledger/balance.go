package ledger

import (
	"math"

	"github.com/pkg/errors"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// Balance holds a quantity of fungible value. Value only moves between
// balances through Deposit and Split, so the total across all balances is
// conserved except at the custody boundary (Mint).
type Balance struct {
	value uint64
}

func Zero() *Balance {
	return &Balance{}
}

// Mint creates a balance out of external funds. Only custody
// implementations and tests should call it; engine code moves value
// between existing balances instead.
func Mint(amount uint64) *Balance {
	return &Balance{value: amount}
}

func (b *Balance) Value() uint64 {
	return b.value
}

func (b *Balance) IsZero() bool {
	return b.value == 0
}

// Deposit moves the value of src into b. If the sum would overflow
// uint64, only what fits is moved and the remainder stays in src, so no
// value is ever created or destroyed.
func (b *Balance) Deposit(src *Balance) {
	if src == nil {
		return
	}
	if src.value > math.MaxUint64-b.value {
		moved := math.MaxUint64 - b.value
		b.value = math.MaxUint64
		src.value -= moved
		return
	}
	b.value += src.value
	src.value = 0
}

// Split removes amount from b and returns a new balance holding exactly
// that amount. b is unchanged on failure.
func (b *Balance) Split(amount uint64) (*Balance, error) {
	if amount > b.value {
		return nil, errors.Wrapf(ErrInsufficientFunds, "split %d from balance of %d", amount, b.value)
	}
	b.value -= amount
	return &Balance{value: amount}, nil
}
