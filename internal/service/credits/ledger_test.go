package credits

import (
	"context"
	"errors"
	"sync"
	"testing"

	"humanizer-service/internal/domain/subscription"
	xerrors "humanizer-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore serializes balance mutations with a mutex, mirroring the row lock
// the postgres store takes. Like pgx it refuses to run on a dead context.
type memStore struct {
	mu        sync.Mutex
	sub       *subscription.Subscription
	refunds   int
	refundErr error
}

func newMemStore(total int) *memStore {
	return &memStore{
		sub: &subscription.Subscription{
			ID:           1,
			UserID:       10,
			PlanType:     "free",
			CreditsTotal: total,
			Active:       true,
		},
	}
}

func (m *memStore) ReserveCredits(ctx context.Context, userID int64, amount int) (*subscription.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sub == nil || m.sub.UserID != userID || !m.sub.Active {
		return nil, xerrors.ErrNoActiveSubscription
	}
	if !m.sub.CanAfford(amount) {
		return nil, &xerrors.InsufficientCreditsError{Needed: amount, Remaining: m.sub.CreditsRemaining()}
	}

	m.sub.CreditsUsed += amount
	cp := *m.sub
	return &cp, nil
}

func (m *memStore) RefundCredits(ctx context.Context, subscriptionID int64, amount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.refundErr != nil {
		err := m.refundErr
		m.refundErr = nil
		return err
	}
	if m.sub == nil || m.sub.ID != subscriptionID {
		return errors.New("unknown subscription")
	}
	m.sub.CreditsUsed -= amount
	if m.sub.CreditsUsed < 0 {
		m.sub.CreditsUsed = 0
	}
	m.refunds++
	return nil
}

func (m *memStore) used() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sub.CreditsUsed
}

func TestReserveAndCommit(t *testing.T) {
	store := newMemStore(10)
	ledger := NewLedger(store, zap.NewNop())

	res, err := ledger.Reserve(context.Background(), 10, 4)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Reference)
	assert.Equal(t, 4, store.used())

	ledger.Commit(res)
	assert.True(t, res.Committed())
	assert.Equal(t, 4, store.used())
}

func TestReserveInsufficient(t *testing.T) {
	store := newMemStore(1)
	ledger := NewLedger(store, zap.NewNop())

	_, err := ledger.Reserve(context.Background(), 10, 2)
	require.Error(t, err)

	ice, ok := xerrors.AsInsufficientCredits(err)
	require.True(t, ok)
	assert.Equal(t, 2, ice.Needed)
	assert.Equal(t, 1, ice.Remaining)
	assert.Equal(t, 0, store.used(), "failed reservation must not deduct")
}

func TestReserveNoSubscription(t *testing.T) {
	store := newMemStore(10)
	store.sub.Active = false
	ledger := NewLedger(store, zap.NewNop())

	_, err := ledger.Reserve(context.Background(), 10, 1)
	assert.ErrorIs(t, err, xerrors.ErrNoActiveSubscription)
}

func TestReleaseRefundsOnce(t *testing.T) {
	store := newMemStore(10)
	ledger := NewLedger(store, zap.NewNop())

	res, err := ledger.Reserve(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, store.used())

	require.NoError(t, ledger.Release(context.Background(), res))
	assert.True(t, res.Released())
	assert.Equal(t, 0, store.used())

	// Second release is a no-op, not an error.
	require.NoError(t, ledger.Release(context.Background(), res))
	assert.Equal(t, 1, store.refunds)
}

// A refund triggered by the request's own cancellation still has to land:
// the store rejects the dead request context, so Release must run the
// refund on a detached one.
func TestReleaseSurvivesCancelledContext(t *testing.T) {
	store := newMemStore(10)
	ledger := NewLedger(store, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	res, err := ledger.Reserve(ctx, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, store.used())

	cancel()

	require.NoError(t, ledger.Release(ctx, res))
	assert.True(t, res.Released())
	assert.Equal(t, 0, store.used(), "cancelled request must not stay charged")
	assert.Equal(t, 1, store.refunds)
}

// A transient refund failure keeps the reservation pending so the refund
// can be retried instead of being silently dropped.
func TestReleaseRetryableAfterRefundFailure(t *testing.T) {
	store := newMemStore(10)
	ledger := NewLedger(store, zap.NewNop())

	res, err := ledger.Reserve(context.Background(), 10, 3)
	require.NoError(t, err)

	store.refundErr = errors.New("connection reset")
	require.Error(t, ledger.Release(context.Background(), res))
	assert.False(t, res.Released(), "failed refund must not mark the reservation released")
	assert.Equal(t, 3, store.used())
	assert.Equal(t, 0, store.refunds)

	require.NoError(t, ledger.Release(context.Background(), res))
	assert.True(t, res.Released())
	assert.Equal(t, 0, store.used())
	assert.Equal(t, 1, store.refunds)
}

func TestReleaseAfterCommitIsNoop(t *testing.T) {
	store := newMemStore(10)
	ledger := NewLedger(store, zap.NewNop())

	res, err := ledger.Reserve(context.Background(), 10, 3)
	require.NoError(t, err)
	ledger.Commit(res)

	require.NoError(t, ledger.Release(context.Background(), res))
	assert.True(t, res.Committed())
	assert.Equal(t, 3, store.used())
	assert.Equal(t, 0, store.refunds)
}

func TestUnlimitedPlanAlwaysReserves(t *testing.T) {
	store := newMemStore(subscription.UnlimitedCredits)
	ledger := NewLedger(store, zap.NewNop())

	for i := 0; i < 50; i++ {
		res, err := ledger.Reserve(context.Background(), 10, 20)
		require.NoError(t, err)
		ledger.Commit(res)
	}
	assert.Equal(t, 1000, store.used())
}

// Issuing k concurrent reservations where k*cost exceeds the balance must
// never overspend: exactly balance/cost succeed.
func TestConcurrentReservationsNeverOverspend(t *testing.T) {
	const (
		total = 10
		cost  = 2
		calls = 50
	)

	store := newMemStore(total)
	ledger := NewLedger(store, zap.NewNop())

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := ledger.Reserve(context.Background(), 10, cost)
			if err != nil {
				return
			}
			ledger.Commit(res)
			mu.Lock()
			succeeded++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, total/cost, succeeded)
	assert.Equal(t, total, store.used())
	assert.LessOrEqual(t, store.used(), total, "credits_used must never exceed credits_total")
}
