package main

import (
	"github.com/raffle-lab/backend/internal/domain/cron"
	"github.com/urfave/cli/v2"
)

func (s *srv) startUpkeep(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadDatabase()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadPayer()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Start(s.ctx, cron.NewUpkeepCronJob(s.raffleDomain, s.redisClient))

	return nil
}
