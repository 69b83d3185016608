package vrf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/raffle-lab/backend/pkg/crypto"
	"github.com/raffle-lab/backend/pkg/xcontext"
)

// LocalCoordinator is an in-process randomness coordinator for dev and
// single-node deployments. It mimics the confirmation delay of an
// on-chain oracle by holding each request for RequestConfirmations
// block times before delivering crypto/rand words to the consumer.
type LocalCoordinator struct {
	mutex    sync.Mutex
	node     *snowflake.Node
	consumer Fulfiller

	// base is the long-lived context words are delivered on. The
	// request context may carry a database transaction which is gone
	// by delivery time.
	base context.Context

	// blockTime scales the artificial confirmation delay.
	blockTime time.Duration

	pending map[uint64]Request
}

func NewLocalCoordinator(ctx context.Context, blockTime time.Duration) (*LocalCoordinator, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}

	return &LocalCoordinator{
		node:      node,
		base:      ctx,
		blockTime: blockTime,
		pending:   map[uint64]Request{},
	}, nil
}

// Register attaches the consumer which receives random words. It must
// be called before the first request.
func (c *LocalCoordinator) Register(consumer Fulfiller) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.consumer = consumer
}

func (c *LocalCoordinator) RequestRandomWords(ctx context.Context, req Request) (uint64, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.consumer == nil {
		return 0, fmt.Errorf("no registered consumer")
	}

	if req.NumWords == 0 {
		return 0, fmt.Errorf("request needs at least one word")
	}

	requestID := uint64(c.node.Generate().Int64())
	c.pending[requestID] = req

	delay := c.blockTime * time.Duration(req.RequestConfirmations)
	time.AfterFunc(delay, func() { c.deliver(requestID) })

	return requestID, nil
}

func (c *LocalCoordinator) deliver(requestID uint64) {
	ctx := c.base
	c.mutex.Lock()
	req, ok := c.pending[requestID]
	if !ok {
		c.mutex.Unlock()
		return
	}
	delete(c.pending, requestID)
	consumer := c.consumer
	c.mutex.Unlock()

	words := make([]uint64, req.NumWords)
	for i := range words {
		words[i] = crypto.RandUint64()
	}

	if err := consumer.FulfillRandomWords(ctx, requestID, words); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fulfill request %d: %v", requestID, err)
	}
}
