package testutil

import (
	"context"
	"time"

	"github.com/raffle-lab/backend/config"
	"github.com/raffle-lab/backend/migration"
	"github.com/raffle-lab/backend/pkg/logger"
	"github.com/raffle-lab/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Every pooled connection to :memory: opens its own database, so
	// keep tests on a single connection.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Configs{
		Env: "test",
		Raffle: config.RaffleConfigs{
			EntryFee:             100,
			SettleInterval:       config.Duration(time.Minute),
			SubscriptionID:       1,
			KeyHash:              "test-key-hash",
			CallbackGasLimit:     500000,
			RequestConfirmations: 3,
		},
		Kafka: config.KafkaConfigs{Topic: "raffle-events"},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}
