package repository

import (
	"context"
	"time"

	"github.com/raffle-lab/backend/internal/entity"
	"github.com/raffle-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RaffleRepository interface {
	// Round
	CreateRound(ctx context.Context, round *entity.RaffleRound) error
	GetCurrentRound(ctx context.Context) (*entity.RaffleRound, error)
	LockForCalculating(ctx context.Context, roundID string) error
	SetPendingRequest(ctx context.Context, roundID string, requestID uint64) error
	SettleRound(ctx context.Context, roundID, winner string, settledAt time.Time) error

	// Entry
	CreateEntry(ctx context.Context, entry *entity.RaffleEntry) error
	AddPoolAmount(ctx context.Context, roundID string, amount uint64) error
	CountEntries(ctx context.Context, roundID string) (int64, error)
	GetEntries(ctx context.Context, roundID string) ([]entity.RaffleEntry, error)
	GetEntryAt(ctx context.Context, roundID string, index int64) (*entity.RaffleEntry, error)
	DeleteEntries(ctx context.Context, roundID string) error
}

type raffleRepository struct{}

func NewRaffleRepository() *raffleRepository {
	return &raffleRepository{}
}

// CreateRound inserts the round if its id is not taken yet. Concurrent
// boots race to the same primary key and the losers are no-ops.
func (r *raffleRepository) CreateRound(ctx context.Context, round *entity.RaffleRound) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(round).Error
}

func (r *raffleRepository) GetCurrentRound(ctx context.Context) (*entity.RaffleRound, error) {
	var result entity.RaffleRound
	if err := xcontext.DB(ctx).Order("created_at DESC").Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// LockForCalculating flips the round from open to calculating in one
// conditional update. A round already calculating is not matched, so at
// most one settlement can ever be in flight.
func (r *raffleRepository) LockForCalculating(ctx context.Context, roundID string) error {
	tx := xcontext.DB(ctx).Model(&entity.RaffleRound{}).
		Where("id=? AND status=?", roundID, entity.RaffleRoundOpen).
		Update("status", entity.RaffleRoundCalculating)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *raffleRepository) SetPendingRequest(
	ctx context.Context, roundID string, requestID uint64,
) error {
	tx := xcontext.DB(ctx).Model(&entity.RaffleRound{}).
		Where("id=? AND status=?", roundID, entity.RaffleRoundCalculating).
		Update("pending_request_id", requestID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// SettleRound reopens a calculating round with the winner recorded and
// the pool zeroed. It only matches a round still calculating.
func (r *raffleRepository) SettleRound(
	ctx context.Context, roundID, winner string, settledAt time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.RaffleRound{}).
		Where("id=? AND status=?", roundID, entity.RaffleRoundCalculating).
		Updates(map[string]any{
			"status":             entity.RaffleRoundOpen,
			"recent_winner":      winner,
			"pool_amount":        0,
			"pending_request_id": 0,
			"last_settled_at":    settledAt,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *raffleRepository) CreateEntry(ctx context.Context, entry *entity.RaffleEntry) error {
	return xcontext.DB(ctx).Create(entry).Error
}

// AddPoolAmount credits the round pool. Only an open round is matched,
// so a payment can never land on a round that is already settling.
func (r *raffleRepository) AddPoolAmount(ctx context.Context, roundID string, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.RaffleRound{}).
		Where("id=? AND status=?", roundID, entity.RaffleRoundOpen).
		Update("pool_amount", gorm.Expr("pool_amount+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *raffleRepository) CountEntries(ctx context.Context, roundID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.RaffleEntry{}).
		Where("round_id=?", roundID).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *raffleRepository) GetEntries(ctx context.Context, roundID string) ([]entity.RaffleEntry, error) {
	var result []entity.RaffleEntry
	err := xcontext.DB(ctx).Where("round_id=?", roundID).
		Order("id ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *raffleRepository) GetEntryAt(
	ctx context.Context, roundID string, index int64,
) (*entity.RaffleEntry, error) {
	var result entity.RaffleEntry
	err := xcontext.DB(ctx).Where("round_id=?", roundID).
		Order("id ASC").Offset(int(index)).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *raffleRepository) DeleteEntries(ctx context.Context, roundID string) error {
	return xcontext.DB(ctx).
		Where("round_id=?", roundID).Delete(&entity.RaffleEntry{}).Error
}
