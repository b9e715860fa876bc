package core

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"

	"github.com/warrenshiv/SuiFund/repo"
)

func TestCustodianReplay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := repo.DefaultConfig(t.TempDir())
	custody := NewMintCustody()
	platform := NewPlatform(cfg, custody)

	custodian, err := NewCustodian(ctx, cfg, &MockClient{}, platform)
	assert.Nil(t, err)

	assert.Nil(t, custodian.Start())
	defer custodian.Stop()

	// the mock client replays create, open funding and a 6000 contribution
	prop, err := platform.GetProposalDetails(1)
	assert.Nil(t, err)
	assert.Equal(t, researcher, prop.Researcher)
	assert.Equal(t, StageFunding, prop.Stage)
	assert.Equal(t, uint64(6000), prop.Raised)
	assert.Equal(t, uint64(5850), prop.Escrow.Value())
	assert.Equal(t, uint64(150), platform.TreasuryValue())
	assert.Equal(t, uint64(6000), custody.Deposited)

	// cursor advanced past the last replayed block
	data := custodian.DB.Get([]byte(nextFromBlockKey))
	assert.NotNil(t, data)
	assert.Equal(t, uint64(4), binary.BigEndian.Uint64(data))
}

// cannedClient serves a fixed log set, honoring the filter's FromBlock
// the way a real node does.
type cannedClient struct {
	logs []types.Log
}

func (c *cannedClient) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	var out []types.Log
	for _, l := range c.logs {
		if q.FromBlock != nil && l.BlockNumber < q.FromBlock.Uint64() {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (c *cannedClient) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return &MockSubscription{}, nil
}

func eventLog(t *testing.T, block uint64, event *PlatformEvent) types.Log {
	data, err := json.Marshal(event)
	assert.Nil(t, err)
	return types.Log{
		Address:     common.HexToAddress(repo.FundingContractAddr),
		Data:        data,
		BlockNumber: block,
	}
}

func TestCustodianRestartRebuildsLedger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := repo.DefaultConfig(t.TempDir())

	spec := testSpec(5000)
	client := &cannedClient{logs: []types.Log{
		eventLog(t, 1, &PlatformEvent{Kind: EventCreate, Caller: researcher, Spec: &spec}),
		eventLog(t, 2, &PlatformEvent{Kind: EventOpenFunding, Caller: researcher, Proposal: 1}),
		eventLog(t, 3, &PlatformEvent{Kind: EventFund, Caller: funder, Proposal: 1, Amount: 6000}),
	}}

	first := NewPlatform(cfg, NewMintCustody())
	custodian, err := NewCustodian(ctx, cfg, client, first)
	assert.Nil(t, err)
	assert.Nil(t, custodian.Start())

	prop, err := first.GetProposalDetails(1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(6000), prop.Raised)

	assert.Nil(t, custodian.Stop())

	// a contribution lands while the daemon is down
	client.logs = append(client.logs, eventLog(t, 4, &PlatformEvent{Kind: EventFund, Caller: funder, Proposal: 1, Amount: 3000}))

	// a restarted custodian holds an empty in-memory ledger, so replay
	// must start over from the configured block, not the cursor
	second := NewPlatform(cfg, NewMintCustody())
	restarted, err := NewCustodian(ctx, cfg, client, second)
	assert.Nil(t, err)
	assert.Nil(t, restarted.Start())
	defer restarted.Stop()

	prop, err = second.GetProposalDetails(1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(9000), prop.Raised)
	assert.Equal(t, []uint64{1}, second.ProposalIDs())
	assert.Equal(t, StageFunding, prop.Stage)
}

func TestCustodianSkipsRejectedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := repo.DefaultConfig(t.TempDir())
	platform := NewPlatform(cfg, NewMintCustody())

	custodian, err := NewCustodian(ctx, cfg, &MockClient{}, platform)
	assert.Nil(t, err)
	assert.Nil(t, custodian.Start())
	defer custodian.Stop()

	// opening funding twice is rejected and must not corrupt state
	err = custodian.apply(&PlatformEvent{
		Kind:     EventOpenFunding,
		Caller:   researcher,
		Proposal: 1,
	}, 10)
	assert.NotNil(t, err)

	prop, err := platform.GetProposalDetails(1)
	assert.Nil(t, err)
	assert.Equal(t, StageFunding, prop.Stage)
}
