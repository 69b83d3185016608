package domain

import (
	"context"

	"github.com/raffle-lab/backend/internal/entity"
	"github.com/raffle-lab/backend/internal/model"
	"github.com/raffle-lab/backend/pkg/xcontext"
)

func convertRaffleRound(
	ctx context.Context, round *entity.RaffleRound, playerCount int64,
) model.RaffleRound {
	return model.RaffleRound{
		Status:           string(round.Status),
		EntryFee:         xcontext.Configs(ctx).Raffle.EntryFee,
		PoolAmount:       round.PoolAmount,
		PlayerCount:      playerCount,
		LastSettledAt:    round.LastSettledAt,
		RecentWinner:     round.RecentWinner,
		PendingRequestID: round.PendingRequestID,
	}
}
