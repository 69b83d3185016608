package entity

import "time"

// LedgerAccount tracks the native-unit balance of an address when the
// service custodies funds itself instead of settling on chain. Frozen
// accounts reject credits, which is how a winner can refuse a payout.
type LedgerAccount struct {
	Address   string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Balance uint64
	Frozen  bool
}
