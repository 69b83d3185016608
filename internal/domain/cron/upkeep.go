package cron

import (
	"context"
	"errors"
	"time"

	"github.com/raffle-lab/backend/internal/domain"
	"github.com/raffle-lab/backend/internal/model"
	"github.com/raffle-lab/backend/pkg/errorx"
	"github.com/raffle-lab/backend/pkg/xcontext"
	"github.com/raffle-lab/backend/pkg/xredis"
)

const upkeepLockKey = "raffle:upkeep:lock"

// UpkeepCronJob is the automation agent of the raffle. It polls the
// read-only eligibility check and triggers settlement when the round
// qualifies. A short-lived redis lock keeps worker replicas from
// racing; the round's own state transition is the real guard.
type UpkeepCronJob struct {
	raffleDomain domain.RaffleDomain
	redisClient  xredis.Client
}

func NewUpkeepCronJob(raffleDomain domain.RaffleDomain, redisClient xredis.Client) *UpkeepCronJob {
	return &UpkeepCronJob{raffleDomain: raffleDomain, redisClient: redisClient}
}

func (job *UpkeepCronJob) Do(ctx context.Context) {
	if job.redisClient != nil {
		won, err := job.redisClient.SetNX(ctx, upkeepLockKey, "1", 30*time.Second)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot acquire upkeep lock: %v", err)
			return
		}

		if !won {
			return
		}

		defer func() {
			if err := job.redisClient.Del(ctx, upkeepLockKey); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot release upkeep lock: %v", err)
			}
		}()
	}

	check, err := job.raffleDomain.CheckUpkeep(ctx, &model.CheckUpkeepRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check upkeep: %v", err)
		return
	}

	if !check.UpkeepNeeded {
		return
	}

	resp, err := job.raffleDomain.PerformUpkeep(ctx, &model.PerformUpkeepRequest{
		PerformData: check.PerformData,
	})
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) && errx.Code == errorx.UpkeepNotNeeded {
			// The round became ineligible between check and perform.
			xcontext.Logger(ctx).Debugf("Skip upkeep: %v", err)
			return
		}

		xcontext.Logger(ctx).Errorf("Cannot perform upkeep: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Requested settlement with request %d", resp.RequestID)
}

func (job *UpkeepCronJob) RunNow() bool {
	return true
}

func (job *UpkeepCronJob) Next() time.Time {
	return time.Now().Add(10 * time.Second)
}
