// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"humanizer-service/internal/domain/subscription"
	xerrors "humanizer-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subscriptionColumns = `
	id, user_id, plan_type, credits_total, credits_used,
	start_date, end_date, active, created_at, updated_at`

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func scanSubscription(row pgx.Row, sub *subscription.Subscription) error {
	return row.Scan(
		&sub.ID, &sub.UserID, &sub.PlanType, &sub.CreditsTotal, &sub.CreditsUsed,
		&sub.StartDate, &sub.EndDate, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt,
	)
}

// CreateWithTx inserts a subscription within a transaction.
func (r *SubscriptionRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, plan_type, credits_total, credits_used, start_date, end_date, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		sub.UserID, sub.PlanType, sub.CreditsTotal, sub.CreditsUsed,
		sub.StartDate, sub.EndDate, sub.Active,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// FindActiveByUser retrieves the single active subscription for an account.
func (r *SubscriptionRepository) FindActiveByUser(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1 AND active = TRUE
		ORDER BY start_date DESC
		LIMIT 1
	`

	var sub subscription.Subscription
	err := scanSubscription(r.db.QueryRow(ctx, query, userID), &sub)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNoActiveSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active subscription: %w", err)
	}

	return &sub, nil
}

// FindByIDForUser retrieves a subscription owned by the given account.
func (r *SubscriptionRepository) FindByIDForUser(ctx context.Context, id, userID int64) (*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE id = $1 AND user_id = $2
	`

	var sub subscription.Subscription
	err := scanSubscription(r.db.QueryRow(ctx, query, id, userID), &sub)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return &sub, nil
}

// DeactivateActiveWithTx retires the current active subscription, if any,
// before a replacement row is inserted.
func (r *SubscriptionRepository) DeactivateActiveWithTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE subscriptions SET active = FALSE, updated_at = $1 WHERE user_id = $2 AND active = TRUE`,
		time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}
	return nil
}

// ReserveCredits atomically checks and deducts credits against the account's
// active subscription. The row lock serializes concurrent reservations on the
// same account so two requests cannot both pass the balance check.
func (r *SubscriptionRepository) ReserveCredits(ctx context.Context, userID int64, amount int) (*subscription.Subscription, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reservation: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1 AND active = TRUE
		ORDER BY start_date DESC
		LIMIT 1
		FOR UPDATE
	`

	var sub subscription.Subscription
	err = scanSubscription(tx.QueryRow(ctx, query, userID), &sub)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNoActiveSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock subscription: %w", err)
	}

	if !sub.CanAfford(amount) {
		return nil, &xerrors.InsufficientCreditsError{
			Needed:    amount,
			Remaining: sub.CreditsRemaining(),
		}
	}

	err = tx.QueryRow(ctx,
		`UPDATE subscriptions SET credits_used = credits_used + $1, updated_at = $2 WHERE id = $3 RETURNING credits_used`,
		amount, time.Now(), sub.ID,
	).Scan(&sub.CreditsUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to deduct credits: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	return &sub, nil
}

// RefundCredits returns a previously deducted amount, flooring at zero.
func (r *SubscriptionRepository) RefundCredits(ctx context.Context, subscriptionID int64, amount int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET credits_used = GREATEST(credits_used - $1, 0), updated_at = $2 WHERE id = $3`,
		amount, time.Now(), subscriptionID,
	)
	if err != nil {
		return fmt.Errorf("failed to refund credits: %w", err)
	}
	return nil
}

// UpdatePlan changes the plan and ceiling of a subscription in place.
func (r *SubscriptionRepository) UpdatePlan(ctx context.Context, id int64, planType string, creditsTotal int) (*subscription.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET plan_type = $1, credits_total = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + subscriptionColumns + `
	`

	var sub subscription.Subscription
	err := scanSubscription(r.db.QueryRow(ctx, query, planType, creditsTotal, time.Now(), id), &sub)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	return &sub, nil
}

// ListExpiredActive returns active subscriptions whose period has ended.
func (r *SubscriptionRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE active = TRUE AND end_date < $1
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []subscription.Subscription
	for rows.Next() {
		var sub subscription.Subscription
		if err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.PlanType, &sub.CreditsTotal, &sub.CreditsUsed,
			&sub.StartDate, &sub.EndDate, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// PlanCount is one row of the per-plan subscription breakdown.
type PlanCount struct {
	PlanType string `json:"plan_type"`
	Count    int64  `json:"count"`
}

// CountByPlan groups subscriptions by plan type.
func (r *SubscriptionRepository) CountByPlan(ctx context.Context) ([]PlanCount, error) {
	rows, err := r.db.Query(ctx, `SELECT plan_type, COUNT(*) FROM subscriptions GROUP BY plan_type ORDER BY plan_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions by plan: %w", err)
	}
	defer rows.Close()

	var counts []PlanCount
	for rows.Next() {
		var pc PlanCount
		if err := rows.Scan(&pc.PlanType, &pc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan plan count: %w", err)
		}
		counts = append(counts, pc)
	}

	return counts, rows.Err()
}
