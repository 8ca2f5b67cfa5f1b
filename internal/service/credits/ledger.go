// internal/service/credits/ledger.go
package credits

import (
	"context"
	"fmt"
	"sync"

	"humanizer-service/internal/domain/subscription"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// SubscriptionStore is the persistence boundary for balance mutations. The
// store must make ReserveCredits atomic with respect to concurrent calls for
// the same account; the postgres implementation does this with a row lock.
type SubscriptionStore interface {
	ReserveCredits(ctx context.Context, userID int64, amount int) (*subscription.Subscription, error)
	RefundCredits(ctx context.Context, subscriptionID int64, amount int) error
}

type reservationState int

const (
	statePending reservationState = iota
	stateCommitted
	stateReleased
)

// Reservation is a pending, not-yet-finalized credit deduction tied to one
// in-flight request. The deduction is applied at reserve time; Release
// refunds it, Commit finalizes it.
type Reservation struct {
	Reference      string
	UserID         int64
	SubscriptionID int64
	Credits        int

	mu    sync.Mutex
	state reservationState
}

// Committed reports whether the reservation was finalized.
func (r *Reservation) Committed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateCommitted
}

// Released reports whether the reservation was reversed.
func (r *Reservation) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateReleased
}

// Ledger owns the subscription balance. Reserve deducts atomically; Commit
// and Release settle the reservation exactly once.
type Ledger struct {
	store  SubscriptionStore
	logger *zap.Logger
}

func NewLedger(store SubscriptionStore, logger *zap.Logger) *Ledger {
	return &Ledger{store: store, logger: logger}
}

// Reserve atomically verifies and deducts amount credits from userID's
// active subscription. Returns xerrors.ErrNoActiveSubscription or
// *xerrors.InsufficientCreditsError on failure; no deduction happens then.
func (l *Ledger) Reserve(ctx context.Context, userID int64, amount int) (*Reservation, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("reservation amount must be positive, got %d", amount)
	}

	sub, err := l.store.ReserveCredits(ctx, userID, amount)
	if err != nil {
		return nil, err
	}

	res := &Reservation{
		Reference:      ulid.Make().String(),
		UserID:         userID,
		SubscriptionID: sub.ID,
		Credits:        amount,
		state:          statePending,
	}

	l.logger.Debug("credits reserved",
		zap.String("reference", res.Reference),
		zap.Int64("user_id", userID),
		zap.Int("credits", amount),
	)

	return res, nil
}

// Commit finalizes a reservation. Committing twice, or committing an already
// released reservation, is a no-op.
func (l *Ledger) Commit(res *Reservation) {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.state != statePending {
		return
	}
	res.state = stateCommitted
}

// Release reverses a reservation whose downstream work failed, refunding the
// deducted credits. Idempotent: releasing twice, or releasing after commit,
// is a no-op. A failed refund leaves the reservation pending so Release can
// be retried.
func (l *Ledger) Release(ctx context.Context, res *Reservation) error {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.state != statePending {
		return nil
	}

	// The refund compensates work that already failed, so it must reach the
	// store even when the trigger was the request's own cancellation or
	// deadline.
	if err := l.store.RefundCredits(context.WithoutCancel(ctx), res.SubscriptionID, res.Credits); err != nil {
		l.logger.Error("failed to refund reserved credits",
			zap.String("reference", res.Reference),
			zap.Int64("user_id", res.UserID),
			zap.Int("credits", res.Credits),
			zap.Error(err),
		)
		return fmt.Errorf("failed to release reservation %s: %w", res.Reference, err)
	}
	res.state = stateReleased

	l.logger.Debug("credits released",
		zap.String("reference", res.Reference),
		zap.Int64("user_id", res.UserID),
		zap.Int("credits", res.Credits),
	)

	return nil
}
