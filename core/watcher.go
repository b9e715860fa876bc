package core

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"math/big"
	"path/filepath"
	"sync"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	"github.com/axiomesh/axiom-kit/log"
	"github.com/axiomesh/axiom-kit/storage"
	"github.com/axiomesh/axiom-kit/storage/leveldb"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/warrenshiv/SuiFund/repo"
)

const (
	LogChanMaxSize = 1000

	nextFromBlockKey = "nextFromBlock"
)

// Custodian is the hosting environment around the Platform: it follows
// the funding contract's event log on chain and applies each event to
// the shared ledger under a single mutex, giving operations the strict
// total order the engine requires.
type Custodian struct {
	Ctx      context.Context
	Client   Client
	Logger   *logrus.Logger
	DB       storage.Storage
	Config   *repo.Config
	Platform *Platform

	mu sync.Mutex

	// Subscribe log
	FromBlock *big.Int
	ToBlock   *big.Int
	Addresses []common.Address
	Topics    [][]common.Hash

	LogChan chan types.Log
	LogSub  ethereum.Subscription
}

func NewCustodian(ctx context.Context, config *repo.Config, client Client, platform *Platform) (*Custodian, error) {
	logger := log.New()
	logger.SetLevel(log.ParseLevel(config.Log.Level))

	var fromBlock, toBlock *big.Int
	if config.Subscribe.FromBlock != 0 {
		fromBlock = big.NewInt(int64(config.Subscribe.FromBlock))
	}
	if config.Subscribe.ToBlock != 0 {
		toBlock = big.NewInt(int64(config.Subscribe.ToBlock))
	}

	var addresses []common.Address
	for _, addr := range config.Subscribe.Addresses {
		addresses = append(addresses, common.HexToAddress(addr))
	}
	var topics [][]common.Hash
	for _, topic := range config.Subscribe.Topics {
		var dstTopic []common.Hash
		for _, s := range topic {
			dstTopic = append(dstTopic, common.HexToHash(s))
		}
		topics = append(topics, dstTopic)
	}

	db, err := leveldb.New(filepath.Join(config.RepoRoot, "leveldb"))
	if err != nil {
		return nil, err
	}

	return &Custodian{
		Ctx:       ctx,
		Client:    client,
		Logger:    logger,
		DB:        db,
		Config:    config,
		Platform:  platform,
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Addresses: addresses,
		Topics:    topics,
		LogChan:   make(chan types.Log, LogChanMaxSize),
	}, nil
}

func (c *Custodian) Start() error {
	if err := c.replayHistoryEvents(); err != nil {
		return err
	}

	if err := c.subscribeEvents(); err != nil {
		return err
	}

	go c.listenEvents()

	return nil
}

func (c *Custodian) Stop() error {
	if c.LogSub != nil {
		c.LogSub.Unsubscribe()
	}

	return c.DB.Close()
}

// replayHistoryEvents rebuilds the ledger from the configured starting
// block. Platform state lives in memory only, so every start replays the
// whole event history; the persisted cursor never shortens the replay,
// it only tells the live subscription where replay stopped.
func (c *Custodian) replayHistoryEvents() error {
	logs, err := c.Client.FilterLogs(c.Ctx, ethereum.FilterQuery{
		FromBlock: c.FromBlock,
		ToBlock:   c.ToBlock,
		Addresses: c.Addresses,
		Topics:    c.Topics,
	})
	if err != nil {
		return err
	}

	for _, l := range logs {
		c.applyEventLog(&l)
	}

	return nil
}

func (c *Custodian) subscribeEvents() error {
	var err error
	c.LogSub, err = c.Client.SubscribeFilterLogs(c.Ctx, ethereum.FilterQuery{
		FromBlock: c.subscribeFrom(),
		ToBlock:   c.ToBlock,
		Addresses: c.Addresses,
		Topics:    c.Topics,
	}, c.LogChan)

	return err
}

func (c *Custodian) listenEvents() {
	c.Logger.Info("listen platform events")

	for {
		select {
		case <-c.Ctx.Done():
			c.Logger.Info("context done")
			return
		case l := <-c.LogChan:
			c.applyEventLog(&l)
		case err := <-c.LogSub.Err():
			if err == nil {
				continue
			}
			c.Logger.Errorf("subscription error: %s", err)
			if err := c.reconnect(); err != nil {
				c.Logger.Errorf("reconnect error: %s", err)
				return
			}
		}
	}
}

// applyEventLog decodes one contract log and applies it to the platform.
// A malformed or rejected event is logged and skipped; it never leaves a
// partial mutation behind.
func (c *Custodian) applyEventLog(l *types.Log) {
	event := &PlatformEvent{}
	if err := json.Unmarshal(l.Data, event); err != nil {
		c.Logger.Errorf("unmarshal event: %s", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.apply(event, l.BlockNumber); err != nil {
		c.Logger.WithFields(logrus.Fields{
			"kind":  event.Kind,
			"block": l.BlockNumber,
		}).Errorf("apply event: %s", err)
	}

	c.recordCursor(l.BlockNumber + 1)
}

func (c *Custodian) apply(event *PlatformEvent, now uint64) error {
	switch event.Kind {
	case EventCreate:
		if event.Spec == nil {
			return errors.New("create event missing spec")
		}
		_, err := c.Platform.CreateProposal(event.Caller, now, *event.Spec)
		return err
	case EventOpenFunding:
		return c.Platform.OpenFunding(event.Caller, now, event.Proposal)
	case EventUpdate:
		return c.Platform.UpdateProposal(event.Caller, event.Proposal, event.Description)
	case EventFund:
		payment, err := c.Platform.Custody().Deposit(event.Amount)
		if err != nil {
			return errors.Wrap(err, "custody deposit")
		}
		return c.Platform.FundProposal(event.Caller, now, event.Proposal, payment)
	case EventReview:
		if event.Review == nil {
			return errors.New("review event missing review")
		}
		stake, err := c.Platform.Custody().Deposit(event.Amount)
		if err != nil {
			return errors.Wrap(err, "custody deposit")
		}
		return c.Platform.SubmitReview(event.Caller, now, event.Proposal, *event.Review, stake)
	case EventVerify:
		return c.Platform.VerifyMilestone(event.Caller, now, event.Proposal, event.Milestone, event.Proof)
	default:
		return errors.Errorf("unknown event kind %d", event.Kind)
	}
}

// subscribeFrom returns the first block replay has not applied yet,
// falling back to the configured start.
func (c *Custodian) subscribeFrom() *big.Int {
	data := c.DB.Get([]byte(nextFromBlockKey))

	if data != nil {
		nextFromBlock := binary.BigEndian.Uint64(data)

		if c.FromBlock == nil || nextFromBlock > c.FromBlock.Uint64() {
			return big.NewInt(int64(nextFromBlock))
		}
	}

	return c.FromBlock
}

func (c *Custodian) recordCursor(nextBlock uint64) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, nextBlock)
	c.DB.Put([]byte(nextFromBlockKey), data)
}

func (c *Custodian) reconnect() error {
	var client Client
	var err error

	action := func(attempt uint) error {
		client, err = ethclient.DialContext(c.Ctx, c.Config.DialUrl)
		if err != nil {
			return err
		}

		return nil
	}

	if err = retry.Retry(action, strategy.Limit(5), strategy.Backoff(backoff.Fibonacci(5*time.Second))); err != nil {
		return err
	}

	c.Client = client

	return c.subscribeEvents()
}
