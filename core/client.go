package core

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/warrenshiv/SuiFund/repo"
)

type Client interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)

	SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error)
}

var _ Client = (*MockClient)(nil)

// MockClient replays a canned funding flow: create, open funding, fund.
type MockClient struct {
}

func (mc *MockClient) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return generateLogs()
}

func (mc *MockClient) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return &MockSubscription{}, nil
}

func generateLogs() ([]types.Log, error) {
	researcher := common.HexToAddress("0x110000000000000000000000000000000000ffff")
	funder := common.HexToAddress("0x220000000000000000000000000000000000ffff")
	validator := common.HexToAddress("0x330000000000000000000000000000000000ffff")

	events := []*PlatformEvent{
		{
			Kind:   EventCreate,
			Caller: researcher,
			Spec: &ProposalSpec{
				Title:         "mock study",
				Description:   "mock description",
				FundingTarget: 10000,
				Milestones: []MilestoneSpec{
					{
						Description:        "reproduce headline result",
						RequiredFunding:    5000,
						VerificationMethod: "hash-chain",
						Validators:         []common.Address{validator},
					},
				},
			},
		},
		{
			Kind:     EventOpenFunding,
			Caller:   researcher,
			Proposal: 1,
		},
		{
			Kind:     EventFund,
			Caller:   funder,
			Proposal: 1,
			Amount:   6000,
		},
	}

	logs := make([]types.Log, 0, len(events))
	for i, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		logs = append(logs, types.Log{
			Address:     common.HexToAddress(repo.FundingContractAddr),
			Data:        data,
			BlockNumber: uint64(i + 1),
		})
	}

	return logs, nil
}

type MockSubscription struct {
}

func (ms *MockSubscription) Unsubscribe() {
}

func (ms *MockSubscription) Err() <-chan error {
	errChan := make(<-chan error)
	return errChan
}
