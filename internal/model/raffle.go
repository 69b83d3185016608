package model

import "time"

type EnterRaffleRequest struct {
	Address    string `json:"address"`
	PaidAmount uint64 `json:"paid_amount"`
}

type EnterRaffleResponse struct {
	PlayerIndex int64 `json:"player_index"`
}

type GetRaffleRequest struct{}

type GetRaffleResponse struct {
	Raffle RaffleRound `json:"raffle"`
}

type RaffleRound struct {
	Status           string    `json:"status"`
	EntryFee         uint64    `json:"entry_fee"`
	PoolAmount       uint64    `json:"pool_amount"`
	PlayerCount      int64     `json:"player_count"`
	LastSettledAt    time.Time `json:"last_settled_at"`
	RecentWinner     string    `json:"recent_winner"`
	PendingRequestID uint64    `json:"pending_request_id"`
}

type GetPlayersRequest struct{}

type GetPlayersResponse struct {
	Players []string `json:"players"`
}

type GetPlayerAtRequest struct {
	Index int64 `json:"index"`
}

type GetPlayerAtResponse struct {
	Address string `json:"address"`
}

type CheckUpkeepRequest struct {
	Data string `json:"data"`
}

type CheckUpkeepResponse struct {
	UpkeepNeeded bool `json:"upkeep_needed"`

	// PerformData is reserved for richer scheduler payloads.
	PerformData string `json:"perform_data"`
}

type PerformUpkeepRequest struct {
	PerformData string `json:"perform_data"`
}

type PerformUpkeepResponse struct {
	RequestID uint64 `json:"request_id"`
}
