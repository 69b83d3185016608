package main

import (
	"github.com/raffle-lab/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadDatabase()
	return migration.AutoMigrate(s.ctx)
}
