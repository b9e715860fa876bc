package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	root := t.TempDir()

	r, err := Load(root)
	assert.Nil(t, err)

	assert.Equal(t, uint64(250), r.Config.Governance.FeePercentage)
	assert.Equal(t, uint64(100), r.Config.Governance.MinFundingAmount)
	assert.Equal(t, uint64(1000), r.Config.Governance.MinStakeAmount)
	assert.Equal(t, "info", r.Config.Log.Level)
	assert.Equal(t, []string{FundingContractAddr}, r.Config.Subscribe.Addresses)
}

func TestFlushAndReload(t *testing.T) {
	root := t.TempDir()

	r, err := Load(root)
	assert.Nil(t, err)

	r.Config.Governance.FeePercentage = 500
	r.Config.Governance.Admin = "0x990000000000000000000000000000000000ffff"
	assert.Nil(t, r.Flush())

	reloaded, err := Load(root)
	assert.Nil(t, err)
	assert.Equal(t, uint64(500), reloaded.Config.Governance.FeePercentage)
	assert.Equal(t, "0x990000000000000000000000000000000000ffff", reloaded.Config.Governance.Admin)
}

func TestMarshalConfig(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())

	str, err := MarshalConfig(cfg)
	assert.Nil(t, err)
	assert.Contains(t, str, "fee_percentage")
	assert.Contains(t, str, "min_stake_amount")
}
