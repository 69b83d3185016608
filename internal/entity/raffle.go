package entity

import (
	"time"

	"github.com/raffle-lab/backend/pkg/enum"
)

type RaffleRoundStatus string

var (
	RaffleRoundOpen        = enum.New(RaffleRoundStatus("open"))
	RaffleRoundCalculating = enum.New(RaffleRoundStatus("calculating"))
)

// RaffleRoundID is the primary key of the singleton round row.
const RaffleRoundID = "raffle-round"

// RaffleRound is the single mutable record of the raffle. Exactly one
// row exists for the whole lifetime of the service; it cycles between
// open and calculating as rounds settle.
type RaffleRound struct {
	Base

	Status RaffleRoundStatus

	// PoolAmount is the custodied balance of the current round in base
	// units, including any overpayment above the entry fee.
	PoolAmount uint64

	LastSettledAt time.Time

	// RecentWinner is empty until the first round completes.
	RecentWinner string

	// PendingRequestID is zero while the round is open.
	PendingRequestID uint64
}

// RaffleEntry is one accepted payment. The auto-increment primary key
// gives entries a strict admission order; the same address may appear
// multiple times.
type RaffleEntry struct {
	ID        int64 `gorm:"primarykey;autoIncrement"`
	CreatedAt time.Time

	RoundID string
	Round   RaffleRound `gorm:"foreignKey:RoundID"`

	Address    string `gorm:"index"`
	PaidAmount uint64
}
