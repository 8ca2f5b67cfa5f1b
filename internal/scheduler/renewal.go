// Package scheduler runs the daily subscription maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	sub "humanizer-service/internal/domain/subscription"
	"humanizer-service/internal/repository/postgres"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RenewalJob expires subscriptions past their end date and rolls the
// account back onto the free tier with a fresh credit cycle.
type RenewalJob struct {
	db      *postgres.DB
	subRepo *postgres.SubscriptionRepository
	catalog *sub.Catalog
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewRenewalJob(
	db *postgres.DB,
	subRepo *postgres.SubscriptionRepository,
	catalog *sub.Catalog,
	logger *zap.Logger,
) *RenewalJob {
	return &RenewalJob{
		db:      db,
		subRepo: subRepo,
		catalog: catalog,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start schedules the daily sweep at 03:00 server time.
func (j *RenewalJob) Start() error {
	_, err := j.cron.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := j.Sweep(ctx, time.Now()); err != nil {
			j.logger.Error("subscription sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule renewal job: %w", err)
	}
	j.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (j *RenewalJob) Stop() {
	<-j.cron.Stop().Done()
}

// Sweep processes every active subscription whose end date has passed.
// Each account is handled in its own transaction so one failure does not
// abort the rest of the batch.
func (j *RenewalJob) Sweep(ctx context.Context, now time.Time) error {
	expired, err := j.subRepo.ListExpiredActive(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list expired subscriptions: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}

	j.logger.Info("expiring subscriptions", zap.Int("count", len(expired)))

	freePlan, ok := j.catalog.Find(sub.DefaultPlanID)
	if !ok {
		return fmt.Errorf("default plan %q missing from catalog", sub.DefaultPlanID)
	}

	var failed int
	for i := range expired {
		if err := j.renew(ctx, &expired[i], freePlan, now); err != nil {
			failed++
			j.logger.Error("failed to renew subscription",
				zap.Int64("subscription_id", expired[i].ID),
				zap.Int64("user_id", expired[i].UserID),
				zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d renewals failed", failed, len(expired))
	}
	return nil
}

func (j *RenewalJob) renew(ctx context.Context, expired *sub.Subscription, freePlan sub.Plan, now time.Time) error {
	tx, err := j.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := j.subRepo.DeactivateActiveWithTx(ctx, tx, expired.UserID); err != nil {
		return err
	}

	next := &sub.Subscription{
		UserID:       expired.UserID,
		PlanType:     freePlan.ID,
		CreditsTotal: freePlan.Credits,
		StartDate:    now,
		EndDate:      now.AddDate(0, 1, 0),
		Active:       true,
	}
	if err := j.subRepo.CreateWithTx(ctx, tx, next); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
