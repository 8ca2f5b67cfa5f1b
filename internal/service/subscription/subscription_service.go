package subscription

import (
	"context"
	"fmt"
	"time"

	sub "humanizer-service/internal/domain/subscription"
	xerrors "humanizer-service/internal/pkg/errors"
	"humanizer-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type SubscriptionService struct {
	db      *postgres.DB
	subRepo *postgres.SubscriptionRepository
	catalog *sub.Catalog
	logger  *zap.Logger
}

func NewSubscriptionService(
	db *postgres.DB,
	subRepo *postgres.SubscriptionRepository,
	catalog *sub.Catalog,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		db:      db,
		subRepo: subRepo,
		catalog: catalog,
		logger:  logger,
	}
}

// ListPlans returns the plan catalog in display order.
func (s *SubscriptionService) ListPlans() []sub.Plan {
	return s.catalog.Plans()
}

// GetActive returns the caller's current subscription.
func (s *SubscriptionService) GetActive(ctx context.Context, userID int64) (*sub.SubscriptionResponse, error) {
	current, err := s.subRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(current), nil
}

// ChangePlan switches the account to another tier. The old subscription is
// deactivated and a fresh row opens a new billing cycle, so any unused
// credits do not carry over.
func (s *SubscriptionService) ChangePlan(ctx context.Context, userID int64, req *sub.ChangePlanRequest) (*sub.SubscriptionResponse, error) {
	plan, ok := s.catalog.Find(req.PlanID)
	if !ok {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("unknown plan %q", req.PlanID))
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.subRepo.DeactivateActiveWithTx(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to deactivate subscription: %w", err)
	}

	now := time.Now()
	next := &sub.Subscription{
		UserID:       userID,
		PlanType:     plan.ID,
		CreditsTotal: plan.Credits,
		StartDate:    now,
		EndDate:      now.AddDate(0, 1, 0),
		Active:       true,
	}
	if err := s.subRepo.CreateWithTx(ctx, tx, next); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit plan change: %w", err)
	}

	s.logger.Info("plan changed",
		zap.Int64("user_id", userID),
		zap.String("plan", plan.ID))

	return toResponse(next), nil
}

// UpdatePlan rewrites an existing subscription row in place, keeping its
// billing window and spent credits. Unlike ChangePlan no new cycle starts.
func (s *SubscriptionService) UpdatePlan(ctx context.Context, userID, subscriptionID int64, req *sub.ChangePlanRequest) (*sub.SubscriptionResponse, error) {
	plan, ok := s.catalog.Find(req.PlanID)
	if !ok {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("unknown plan %q", req.PlanID))
	}

	// ownership check before touching the row
	if _, err := s.subRepo.FindByIDForUser(ctx, subscriptionID, userID); err != nil {
		return nil, err
	}

	updated, err := s.subRepo.UpdatePlan(ctx, subscriptionID, plan.ID, plan.Credits)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	s.logger.Info("subscription updated in place",
		zap.Int64("user_id", userID),
		zap.Int64("subscription_id", subscriptionID),
		zap.String("plan", plan.ID))

	return toResponse(updated), nil
}

// GetCredits reports the balance on the active subscription.
func (s *SubscriptionService) GetCredits(ctx context.Context, userID int64) (*sub.CreditsResponse, error) {
	current, err := s.subRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &sub.CreditsResponse{
		UserID:           current.UserID,
		PlanType:         current.PlanType,
		CreditsTotal:     current.CreditsTotal,
		CreditsUsed:      current.CreditsUsed,
		CreditsRemaining: current.CreditsRemaining(),
		SubscriptionEnds: current.EndDate,
	}, nil
}

func toResponse(s *sub.Subscription) *sub.SubscriptionResponse {
	status := "inactive"
	if s.Active {
		status = "active"
	}
	return &sub.SubscriptionResponse{
		ID:           s.ID,
		PlanID:       s.PlanType,
		UserID:       s.UserID,
		Status:       status,
		CreditsTotal: s.CreditsTotal,
		CreditsUsed:  s.CreditsUsed,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
	}
}
