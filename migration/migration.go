package migration

import (
	"context"

	"github.com/raffle-lab/backend/internal/entity"
	"github.com/raffle-lab/backend/pkg/xcontext"
)

func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.RaffleRound{},
		&entity.RaffleEntry{},
		&entity.LedgerAccount{},
	)
}
