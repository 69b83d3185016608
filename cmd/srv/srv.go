package main

import (
	"context"
	"net/http"
	"time"

	"github.com/raffle-lab/backend/config"
	"github.com/raffle-lab/backend/internal/domain"
	"github.com/raffle-lab/backend/internal/payout"
	"github.com/raffle-lab/backend/internal/repository"
	"github.com/raffle-lab/backend/pkg/blockchain/eth"
	"github.com/raffle-lab/backend/pkg/kafka"
	"github.com/raffle-lab/backend/pkg/logger"
	"github.com/raffle-lab/backend/pkg/pubsub"
	"github.com/raffle-lab/backend/pkg/vrf"
	"github.com/raffle-lab/backend/pkg/xcontext"
	"github.com/raffle-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	raffleRepo repository.RaffleRepository
	ledgerRepo repository.LedgerRepository

	raffleDomain domain.RaffleDomain

	coordinator *vrf.LocalCoordinator
	payer       payout.Payer
	publisher   pubsub.Publisher
	redisClient xredis.Client

	server *http.Server
}

func (s *srv) loadConfig(ct *cli.Context) {
	cfg, err := config.Load(ct.String("config"))
	if err != nil {
		panic(err)
	}

	logLevel := logger.INFO
	if cfg.Env == "local" {
		logLevel = logger.DEBUG
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logLevel))
}

func (s *srv) loadDatabase() {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadRedisClient() {
	if xcontext.Configs(s.ctx).Redis.Addr == "" {
		return
	}

	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if cfg.Addr == "" {
		return
	}

	publisher, err := kafka.NewPublisher("raffle", []string{cfg.Addr})
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadRepos() {
	s.raffleRepo = repository.NewRaffleRepository()
	s.ledgerRepo = repository.NewLedgerRepository()
}

// loadPayer settles payouts on chain when rpc endpoints are configured,
// otherwise on the internal ledger.
func (s *srv) loadPayer() {
	cfg := xcontext.Configs(s.ctx).Eth
	if len(cfg.Rpcs) == 0 {
		s.payer = payout.NewLedgerPayer(s.ledgerRepo)
		return
	}

	client, err := eth.NewEthClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.payer = payout.NewEthPayer(client, eth.NewSigner(client, cfg.PrivKey))
}

func (s *srv) loadDomains() {
	coordinator, err := vrf.NewLocalCoordinator(s.ctx, time.Second)
	if err != nil {
		panic(err)
	}

	s.coordinator = coordinator
	s.raffleDomain = domain.NewRaffleDomain(s.raffleRepo, s.coordinator, s.payer, s.publisher)
	s.coordinator.Register(s.raffleDomain)

	if err := s.raffleDomain.Bootstrap(s.ctx); err != nil {
		panic(err)
	}
}
