package model

// Raffle event names published to the event topic.
const (
	EntryAcceptedEvent       = "entry_accepted"
	SettlementRequestedEvent = "settlement_requested"
	WinnerSelectedEvent      = "winner_selected"
)

type RaffleEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Player    string `json:"player,omitempty"`
	RequestID uint64 `json:"request_id,omitempty"`
	Winner    string `json:"winner,omitempty"`
	Amount    uint64 `json:"amount,omitempty"`
}
