package ledger

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSplitAndDeposit(t *testing.T) {
	b := Zero()
	b.Deposit(Mint(1000))
	assert.Equal(t, uint64(1000), b.Value())

	part, err := b.Split(400)
	assert.Nil(t, err)
	assert.Equal(t, uint64(400), part.Value())
	assert.Equal(t, uint64(600), b.Value())

	b.Deposit(part)
	assert.Equal(t, uint64(1000), b.Value())
	assert.True(t, part.IsZero())
}

func TestSplitInsufficient(t *testing.T) {
	b := Mint(100)

	part, err := b.Split(101)
	assert.Nil(t, part)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	// failed split leaves the balance unchanged
	assert.Equal(t, uint64(100), b.Value())
}

func TestSplitAll(t *testing.T) {
	b := Mint(250)

	part, err := b.Split(250)
	assert.Nil(t, err)
	assert.Equal(t, uint64(250), part.Value())
	assert.True(t, b.IsZero())
}

func TestDepositOverflowConserved(t *testing.T) {
	b := Mint(math.MaxUint64 - 10)
	src := Mint(25)

	b.Deposit(src)

	// the sum saturates and the excess stays in the source
	assert.Equal(t, uint64(math.MaxUint64), b.Value())
	assert.Equal(t, uint64(15), src.Value())
}

func TestDepositNil(t *testing.T) {
	b := Mint(10)
	b.Deposit(nil)
	assert.Equal(t, uint64(10), b.Value())
}
