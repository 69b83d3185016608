package main

import (
	"net/http"

	"github.com/raffle-lab/backend/api"
	"github.com/raffle-lab/backend/internal/model"
	"github.com/raffle-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

type controller interface {
	Register(mux *http.ServeMux)
}

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadDatabase()
	s.loadPublisher()
	s.loadRepos()
	s.loadPayer()
	s.loadDomains()

	mux := http.NewServeMux()
	controllers := []controller{
		&api.Endpoint[model.EnterRaffleRequest, model.EnterRaffleResponse]{
			Method: http.MethodPost, Path: "/enterRaffle",
			Base: s.ctx, Handle: s.raffleDomain.Enter,
		},
		&api.Endpoint[model.GetRaffleRequest, model.GetRaffleResponse]{
			Method: http.MethodGet, Path: "/getRaffle",
			Base: s.ctx, Handle: s.raffleDomain.GetRaffle,
		},
		&api.Endpoint[model.GetPlayersRequest, model.GetPlayersResponse]{
			Method: http.MethodGet, Path: "/getPlayers",
			Base: s.ctx, Handle: s.raffleDomain.GetPlayers,
		},
		&api.Endpoint[model.GetPlayerAtRequest, model.GetPlayerAtResponse]{
			Method: http.MethodGet, Path: "/getPlayerAt",
			Base: s.ctx, Handle: s.raffleDomain.GetPlayerAt,
		},
		&api.Endpoint[model.CheckUpkeepRequest, model.CheckUpkeepResponse]{
			Method: http.MethodGet, Path: "/checkUpkeep",
			Base: s.ctx, Handle: s.raffleDomain.CheckUpkeep,
		},
		&api.Endpoint[model.PerformUpkeepRequest, model.PerformUpkeepResponse]{
			Method: http.MethodPost, Path: "/performUpkeep",
			Base: s.ctx, Handle: s.raffleDomain.PerformUpkeep,
		},
	}

	for _, c := range controllers {
		c.Register(mux)
	}

	apiServerCfg := xcontext.Configs(s.ctx).ApiServer
	addr := apiServerCfg.Address()
	s.server = &http.Server{Addr: addr, Handler: mux}

	xcontext.Logger(s.ctx).Infof("Starting api server on %s", addr)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}
