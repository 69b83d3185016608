package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/raffle-lab/backend/internal/entity"
	"github.com/raffle-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_raffleRepository_LockForCalculating(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewRaffleRepository()

	round := &entity.RaffleRound{
		Base:          entity.Base{ID: uuid.NewString()},
		Status:        entity.RaffleRoundOpen,
		LastSettledAt: time.Now(),
	}
	require.NoError(t, repo.CreateRound(ctx, round))

	require.NoError(t, repo.LockForCalculating(ctx, round.ID))

	// A calculating round cannot be locked again.
	err := repo.LockForCalculating(ctx, round.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.SetPendingRequest(ctx, round.ID, 42))

	current, err := repo.GetCurrentRound(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.RaffleRoundCalculating, current.Status)
	require.Equal(t, uint64(42), current.PendingRequestID)
}

func Test_raffleRepository_SettleRound(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewRaffleRepository()

	round := &entity.RaffleRound{
		Base:          entity.Base{ID: uuid.NewString()},
		Status:        entity.RaffleRoundOpen,
		LastSettledAt: time.Now(),
	}
	require.NoError(t, repo.CreateRound(ctx, round))

	// Only a calculating round can settle.
	err := repo.SettleRound(ctx, round.ID, "winner", time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.LockForCalculating(ctx, round.ID))
	require.NoError(t, repo.SettleRound(ctx, round.ID, "winner", time.Now()))

	current, err := repo.GetCurrentRound(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.RaffleRoundOpen, current.Status)
	require.Equal(t, "winner", current.RecentWinner)
	require.Equal(t, uint64(0), current.PoolAmount)
	require.Equal(t, uint64(0), current.PendingRequestID)
}

func Test_raffleRepository_AddPoolAmount_onlyWhenOpen(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewRaffleRepository()

	round := &entity.RaffleRound{
		Base:          entity.Base{ID: uuid.NewString()},
		Status:        entity.RaffleRoundOpen,
		LastSettledAt: time.Now(),
	}
	require.NoError(t, repo.CreateRound(ctx, round))

	require.NoError(t, repo.AddPoolAmount(ctx, round.ID, 100))

	// A payment racing the settlement lock never reaches the pool.
	require.NoError(t, repo.LockForCalculating(ctx, round.ID))
	err := repo.AddPoolAmount(ctx, round.ID, 100)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	current, err := repo.GetCurrentRound(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(100), current.PoolAmount)
}

func Test_raffleRepository_entryOrder(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewRaffleRepository()

	round := &entity.RaffleRound{
		Base:          entity.Base{ID: uuid.NewString()},
		Status:        entity.RaffleRoundOpen,
		LastSettledAt: time.Now(),
	}
	require.NoError(t, repo.CreateRound(ctx, round))

	players := []string{"player1", "player2", "player1", "player3"}
	for _, player := range players {
		err := repo.CreateEntry(ctx, &entity.RaffleEntry{
			RoundID:    round.ID,
			Address:    player,
			PaidAmount: 100,
		})
		require.NoError(t, err)
	}

	count, err := repo.CountEntries(ctx, round.ID)
	require.NoError(t, err)
	require.Equal(t, int64(4), count)

	// Entries keep strict admission order with duplicates.
	for i, player := range players {
		entry, err := repo.GetEntryAt(ctx, round.ID, int64(i))
		require.NoError(t, err)
		require.Equal(t, player, entry.Address)
	}

	_, err = repo.GetEntryAt(ctx, round.ID, 4)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteEntries(ctx, round.ID))

	count, err = repo.CountEntries(ctx, round.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}
