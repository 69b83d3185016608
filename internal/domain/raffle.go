package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/raffle-lab/backend/internal/entity"
	"github.com/raffle-lab/backend/internal/model"
	"github.com/raffle-lab/backend/internal/payout"
	"github.com/raffle-lab/backend/internal/repository"
	"github.com/raffle-lab/backend/pkg/errorx"
	"github.com/raffle-lab/backend/pkg/pubsub"
	"github.com/raffle-lab/backend/pkg/vrf"
	"github.com/raffle-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RaffleDomain interface {
	Bootstrap(ctx context.Context) error
	Enter(context.Context, *model.EnterRaffleRequest) (*model.EnterRaffleResponse, error)
	GetRaffle(context.Context, *model.GetRaffleRequest) (*model.GetRaffleResponse, error)
	GetPlayers(context.Context, *model.GetPlayersRequest) (*model.GetPlayersResponse, error)
	GetPlayerAt(context.Context, *model.GetPlayerAtRequest) (*model.GetPlayerAtResponse, error)
	CheckUpkeep(context.Context, *model.CheckUpkeepRequest) (*model.CheckUpkeepResponse, error)
	PerformUpkeep(context.Context, *model.PerformUpkeepRequest) (*model.PerformUpkeepResponse, error)

	// FulfillRandomWords makes the domain a vrf.Fulfiller; only the
	// randomness coordinator invokes it.
	FulfillRandomWords(ctx context.Context, requestID uint64, words []uint64) error
}

type raffleDomain struct {
	raffleRepo repository.RaffleRepository
	requester  vrf.Requester
	payer      payout.Payer
	publisher  pubsub.Publisher
}

func NewRaffleDomain(
	raffleRepo repository.RaffleRepository,
	requester vrf.Requester,
	payer payout.Payer,
	publisher pubsub.Publisher,
) *raffleDomain {
	return &raffleDomain{
		raffleRepo: raffleRepo,
		requester:  requester,
		payer:      payer,
		publisher:  publisher,
	}
}

// Bootstrap inserts the singleton round if the service starts on an
// empty database. The insert is keyed on the fixed round id, so
// concurrent boots of the api and worker processes cannot create a
// second round.
func (d *raffleDomain) Bootstrap(ctx context.Context) error {
	return d.raffleRepo.CreateRound(ctx, &entity.RaffleRound{
		Base:          entity.Base{ID: entity.RaffleRoundID},
		Status:        entity.RaffleRoundOpen,
		LastSettledAt: time.Now(),
	})
}

func (d *raffleDomain) Enter(
	ctx context.Context, req *model.EnterRaffleRequest,
) (*model.EnterRaffleResponse, error) {
	if req.Address == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a player address")
	}

	entryFee := xcontext.Configs(ctx).Raffle.EntryFee
	if req.PaidAmount < entryFee {
		return nil, errorx.New(errorx.InsufficientEntryFee,
			"Entry needs at least %d, got %d", entryFee, req.PaidAmount)
	}

	round, err := d.raffleRepo.GetCurrentRound(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	if round.Status != entity.RaffleRoundOpen {
		return nil, errorx.New(errorx.RoundNotOpen,
			"The raffle is settling a winner, try again later")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// Any amount above the fee is retained in the pool, not refunded.
	entry := &entity.RaffleEntry{
		RoundID:    round.ID,
		Address:    req.Address,
		PaidAmount: req.PaidAmount,
	}

	if err := d.raffleRepo.CreateEntry(ctx, entry); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create entry: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.raffleRepo.AddPoolAmount(ctx, round.ID, req.PaidAmount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The round flipped to calculating after the status check.
			return nil, errorx.New(errorx.RoundNotOpen,
				"The raffle is settling a winner, try again later")
		}

		xcontext.Logger(ctx).Errorf("Cannot add pool amount: %v", err)
		return nil, errorx.Unknown
	}

	count, err := d.raffleRepo.CountEntries(ctx, round.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count entries: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.publishEvent(ctx, model.RaffleEvent{
		Name:   model.EntryAcceptedEvent,
		Player: req.Address,
		Amount: req.PaidAmount,
	})

	return &model.EnterRaffleResponse{PlayerIndex: count - 1}, nil
}

func (d *raffleDomain) GetRaffle(
	ctx context.Context, req *model.GetRaffleRequest,
) (*model.GetRaffleResponse, error) {
	round, err := d.raffleRepo.GetCurrentRound(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	count, err := d.raffleRepo.CountEntries(ctx, round.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count entries: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRaffleResponse{
		Raffle: convertRaffleRound(ctx, round, count),
	}, nil
}

func (d *raffleDomain) GetPlayers(
	ctx context.Context, req *model.GetPlayersRequest,
) (*model.GetPlayersResponse, error) {
	round, err := d.raffleRepo.GetCurrentRound(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	entries, err := d.raffleRepo.GetEntries(ctx, round.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries: %v", err)
		return nil, errorx.Unknown
	}

	players := []string{}
	for _, entry := range entries {
		players = append(players, entry.Address)
	}

	return &model.GetPlayersResponse{Players: players}, nil
}

func (d *raffleDomain) GetPlayerAt(
	ctx context.Context, req *model.GetPlayerAtRequest,
) (*model.GetPlayerAtResponse, error) {
	if req.Index < 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a non-negative index")
	}

	round, err := d.raffleRepo.GetCurrentRound(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	entry, err := d.raffleRepo.GetEntryAt(ctx, round.ID, req.Index)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found player at index %d", req.Index)
		}

		xcontext.Logger(ctx).Errorf("Cannot get entry: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPlayerAtResponse{Address: entry.Address}, nil
}

func (d *raffleDomain) CheckUpkeep(
	ctx context.Context, req *model.CheckUpkeepRequest,
) (*model.CheckUpkeepResponse, error) {
	eligible, _, err := d.checkUpkeep(ctx)
	if err != nil {
		return nil, err
	}

	return &model.CheckUpkeepResponse{UpkeepNeeded: eligible}, nil
}

func (d *raffleDomain) PerformUpkeep(
	ctx context.Context, req *model.PerformUpkeepRequest,
) (*model.PerformUpkeepResponse, error) {
	eligible, diag, err := d.checkUpkeep(ctx)
	if err != nil {
		return nil, err
	}

	if !eligible {
		return nil, errorx.New(errorx.UpkeepNotNeeded,
			"Upkeep not needed: balance=%d, players=%d, status=%s, time_elapsed=%t",
			diag.round.PoolAmount, diag.playerCount, diag.round.Status, diag.timeElapsed)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.raffleRepo.LockForCalculating(ctx, diag.round.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Another caller won the lock between the check and now.
			return nil, errorx.New(errorx.UpkeepNotNeeded,
				"Upkeep not needed: balance=%d, players=%d, status=%s, time_elapsed=%t",
				diag.round.PoolAmount, diag.playerCount, entity.RaffleRoundCalculating, diag.timeElapsed)
		}

		xcontext.Logger(ctx).Errorf("Cannot lock round: %v", err)
		return nil, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx).Raffle
	requestID, err := d.requester.RequestRandomWords(ctx, vrf.Request{
		KeyHash:              cfg.KeyHash,
		SubscriptionID:       cfg.SubscriptionID,
		RequestConfirmations: cfg.RequestConfirmations,
		CallbackGasLimit:     cfg.CallbackGasLimit,
		NumWords:             1,
		NativePayment:        true,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot request random words: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.raffleRepo.SetPendingRequest(ctx, diag.round.ID, requestID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set pending request: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.publishEvent(ctx, model.RaffleEvent{
		Name:      model.SettlementRequestedEvent,
		RequestID: requestID,
	})

	return &model.PerformUpkeepResponse{RequestID: requestID}, nil
}

func (d *raffleDomain) FulfillRandomWords(
	ctx context.Context, requestID uint64, words []uint64,
) error {
	if len(words) == 0 {
		return errorx.New(errorx.BadRequest, "Require at least one random word")
	}

	round, err := d.raffleRepo.GetCurrentRound(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return errorx.Unknown
	}

	if round.Status != entity.RaffleRoundCalculating || round.PendingRequestID != requestID {
		return errorx.New(errorx.NotFound, "No pending request %d", requestID)
	}

	count, err := d.raffleRepo.CountEntries(ctx, round.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count entries: %v", err)
		return errorx.Unknown
	}

	if count == 0 {
		// Cannot happen: upkeep requires at least one player and no
		// entry is admitted while calculating.
		xcontext.Logger(ctx).Errorf("Round %s is calculating with no entry", round.ID)
		return errorx.Unknown
	}

	winnerIndex := int64(words[0] % uint64(count))
	winnerEntry, err := d.raffleRepo.GetEntryAt(ctx, round.ID, winnerIndex)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winner entry: %v", err)
		return errorx.Unknown
	}

	// Everything below commits together or not at all. If the payout is
	// rejected the round stays calculating with its entries intact.
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.raffleRepo.SettleRound(ctx, round.ID, winnerEntry.Address, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot settle round: %v", err)
		return errorx.Unknown
	}

	if err := d.raffleRepo.DeleteEntries(ctx, round.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete entries: %v", err)
		return errorx.Unknown
	}

	if err := d.payer.Transfer(ctx, winnerEntry.Address, round.PoolAmount); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pay %d to winner %s: %v",
			round.PoolAmount, winnerEntry.Address, err)
		return errorx.New(errorx.PayoutFailed,
			"Cannot transfer the pool to the winner")
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.publishEvent(ctx, model.RaffleEvent{
		Name:   model.WinnerSelectedEvent,
		Winner: winnerEntry.Address,
		Amount: round.PoolAmount,
	})

	return nil
}

type upkeepDiagnostics struct {
	round       *entity.RaffleRound
	playerCount int64
	timeElapsed bool
}

func (d *raffleDomain) checkUpkeep(ctx context.Context) (bool, upkeepDiagnostics, error) {
	round, err := d.raffleRepo.GetCurrentRound(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return false, upkeepDiagnostics{}, errorx.Unknown
	}

	count, err := d.raffleRepo.CountEntries(ctx, round.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count entries: %v", err)
		return false, upkeepDiagnostics{}, errorx.Unknown
	}

	interval := time.Duration(xcontext.Configs(ctx).Raffle.SettleInterval)
	diag := upkeepDiagnostics{
		round:       round,
		playerCount: count,
		timeElapsed: time.Since(round.LastSettledAt) >= interval,
	}

	eligible := diag.timeElapsed &&
		round.PoolAmount > 0 &&
		count > 0 &&
		round.Status == entity.RaffleRoundOpen

	return eligible, diag, nil
}

func (d *raffleDomain) publishEvent(ctx context.Context, event model.RaffleEvent) {
	if d.publisher == nil {
		return
	}

	event.ID = uuid.NewString()
	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal %s event: %v", event.Name, err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.Topic
	err = d.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(event.Name), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish %s event: %v", event.Name, err)
	}
}
