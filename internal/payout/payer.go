// Package payout disburses the custodied pool to a winner. The core
// only needs "credit an amount to an address, fail on rejection"; how
// the value actually moves is behind the Payer interface.
package payout

import (
	"context"
	"errors"
)

// ErrRejected reports that the recipient refused the transfer. The
// caller must treat the whole settlement as failed.
var ErrRejected = errors.New("transfer rejected by recipient")

type Payer interface {
	Transfer(ctx context.Context, to string, amount uint64) error
}
