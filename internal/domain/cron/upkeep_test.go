package cron

import (
	"context"
	"testing"
	"time"

	"github.com/raffle-lab/backend/internal/domain"
	"github.com/raffle-lab/backend/internal/entity"
	"github.com/raffle-lab/backend/internal/model"
	"github.com/raffle-lab/backend/internal/payout"
	"github.com/raffle-lab/backend/internal/repository"
	"github.com/raffle-lab/backend/pkg/testutil"
	"github.com/raffle-lab/backend/pkg/vrf"
	"github.com/raffle-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type fixedRequester struct {
	requestID uint64
	calls     int
}

func (r *fixedRequester) RequestRandomWords(ctx context.Context, req vrf.Request) (uint64, error) {
	r.calls++
	return r.requestID, nil
}

func Test_UpkeepCronJob_Do(t *testing.T) {
	ctx := testutil.MockContext()

	raffleRepo := repository.NewRaffleRepository()
	requester := &fixedRequester{requestID: 7}
	raffleDomain := domain.NewRaffleDomain(
		raffleRepo, requester, payout.NewLedgerPayer(repository.NewLedgerRepository()), nil)
	require.NoError(t, raffleDomain.Bootstrap(ctx))

	job := NewUpkeepCronJob(raffleDomain, nil)

	// An ineligible round is left alone.
	job.Do(ctx)
	require.Equal(t, 0, requester.calls)

	_, err := raffleDomain.Enter(ctx, &model.EnterRaffleRequest{Address: "player1", PaidAmount: 100})
	require.NoError(t, err)

	round, err := raffleRepo.GetCurrentRound(ctx)
	require.NoError(t, err)

	interval := time.Duration(xcontext.Configs(ctx).Raffle.SettleInterval)
	err = xcontext.DB(ctx).Model(&entity.RaffleRound{}).
		Where("id=?", round.ID).
		Update("last_settled_at", time.Now().Add(-interval-time.Second)).Error
	require.NoError(t, err)

	job.Do(ctx)
	require.Equal(t, 1, requester.calls)

	round, err = raffleRepo.GetCurrentRound(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.RaffleRoundCalculating, round.Status)
	require.Equal(t, uint64(7), round.PendingRequestID)

	// While the callback is outstanding the job does nothing.
	job.Do(ctx)
	require.Equal(t, 1, requester.calls)
}
