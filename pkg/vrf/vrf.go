// Package vrf defines the boundary to the randomness coordinator. The
// raffle asks a Requester for random words and receives them later
// through its own Fulfiller entry point, correlated by request id. The
// two sides are separate invocations; nothing blocks in between.
package vrf

import "context"

type Request struct {
	KeyHash              string
	SubscriptionID       uint64
	RequestConfirmations uint16
	CallbackGasLimit     uint32
	NumWords             uint32

	// NativePayment pays the request fee in the native unit instead of
	// an alternate fee token.
	NativePayment bool
}

// Requester issues a randomness request and returns the coordinator's
// request id. The words arrive via the consumer's Fulfiller at an
// arbitrary later time, possibly never.
type Requester interface {
	RequestRandomWords(ctx context.Context, req Request) (uint64, error)
}

// Fulfiller is implemented by the consumer of random words. The
// coordinator only invokes it for requests it actually issued.
type Fulfiller interface {
	FulfillRandomWords(ctx context.Context, requestID uint64, words []uint64) error
}
