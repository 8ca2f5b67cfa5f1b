package text

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"humanizer-service/internal/domain/subscription"
	"humanizer-service/internal/domain/text"
	xerrors "humanizer-service/internal/pkg/errors"
	"humanizer-service/internal/service/credits"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- fakes ----

type memSubStore struct {
	mu  sync.Mutex
	sub *subscription.Subscription
}

func newMemSubStore(total int) *memSubStore {
	return &memSubStore{
		sub: &subscription.Subscription{ID: 1, UserID: 10, PlanType: "free", CreditsTotal: total, Active: true},
	}
}

func (m *memSubStore) ReserveCredits(ctx context.Context, userID int64, amount int) (*subscription.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sub.UserID != userID || !m.sub.Active {
		return nil, xerrors.ErrNoActiveSubscription
	}
	if !m.sub.CanAfford(amount) {
		return nil, &xerrors.InsufficientCreditsError{Needed: amount, Remaining: m.sub.CreditsRemaining()}
	}
	m.sub.CreditsUsed += amount
	cp := *m.sub
	return &cp, nil
}

func (m *memSubStore) RefundCredits(ctx context.Context, _ int64, amount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sub.CreditsUsed -= amount
	if m.sub.CreditsUsed < 0 {
		m.sub.CreditsUsed = 0
	}
	return nil
}

func (m *memSubStore) used() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sub.CreditsUsed
}

type fakeStrategy struct {
	mu     sync.Mutex
	name   string
	out    string
	err    error
	onCall func()
	calls  int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Humanize(_ context.Context, input string, _ text.Level) (string, error) {
	f.mu.Lock()
	f.calls++
	out, err, hook := f.out, f.err, f.onCall
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return "", err
	}
	if out != "" {
		return out, nil
	}
	return "humanized: " + input, nil
}

func (f *fakeStrategy) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeHistory struct {
	mu        sync.Mutex
	insertErr error
	records   []text.TextAnalysis
	nextID    int64
}

func (f *fakeHistory) Insert(_ context.Context, rec *text.TextAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	rec.ID = f.nextID
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeHistory) ListByUser(_ context.Context, userID int64, limit, offset int) ([]text.TextAnalysis, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []text.TextAnalysis
	for _, r := range f.records {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	total := int64(len(mine))
	if offset >= len(mine) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

func (f *fakeHistory) FindByIDForUser(_ context.Context, id, userID int64) (*text.TextAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id && r.UserID == userID {
			cp := r
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

type fakeUsage struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeUsage) Record(_ context.Context, _ int64, _, _ int, _ text.Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeHistory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fixture struct {
	svc     *Service
	store   *memSubStore
	primary *fakeStrategy
	backup  *fakeStrategy
	history *fakeHistory
	usage   *fakeUsage
}

func newFixture(total int) *fixture {
	store := newMemSubStore(total)
	primary := &fakeStrategy{name: "remote"}
	backup := &fakeStrategy{name: "fallback"}
	history := &fakeHistory{}
	usage := &fakeUsage{}

	svc := NewService(
		primary, backup,
		credits.NewLedger(store, zap.NewNop()),
		history, usage,
		zap.NewNop(),
	)

	return &fixture{svc: svc, store: store, primary: primary, backup: backup, history: history, usage: usage}
}

// ---- tests ----

func TestHumanizeSuccess(t *testing.T) {
	f := newFixture(100)

	resp, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{
		Text:  strings.Repeat("a", 600),
		Level: "moderate",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 600, resp.CharacterCount)
	assert.Equal(t, 2, resp.CreditsUsed)
	assert.Equal(t, 2, f.store.used())
	assert.Len(t, f.history.records, 1)
	assert.Equal(t, 1, f.usage.calls)
	assert.Equal(t, 1, f.primary.calls)
	assert.Equal(t, 0, f.backup.calls)
}

func TestHumanizeEmptyTextNoSideEffects(t *testing.T) {
	f := newFixture(100)

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{Text: input})
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput, "input %q", input)
	}

	assert.Equal(t, 0, f.store.used())
	assert.Empty(t, f.history.records)
	assert.Equal(t, 0, f.primary.calls)
}

func TestHumanizeInsufficientCreditsTerminal(t *testing.T) {
	f := newFixture(1)

	_, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{
		Text: strings.Repeat("a", 600), // costs 2
	})
	require.Error(t, err)

	ice, ok := xerrors.AsInsufficientCredits(err)
	require.True(t, ok)
	assert.Equal(t, 2, ice.Needed)

	assert.Equal(t, 0, f.store.used(), "balance must be unchanged")
	assert.Empty(t, f.history.records, "no history record may exist")
	assert.Equal(t, 0, f.primary.calls, "no transformation may run")
}

func TestHumanizeRemoteFailureFallsBack(t *testing.T) {
	f := newFixture(100)
	f.primary.err = errors.New("upstream timeout")
	f.backup.out = "locally humanized"

	resp, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{Text: "hello world"})
	require.NoError(t, err, "remote failure must not surface when fallback succeeds")

	assert.Equal(t, "locally humanized", resp.HumanizedText)
	assert.Equal(t, 1, f.primary.calls)
	assert.Equal(t, 1, f.backup.calls)
	assert.Equal(t, 1, f.store.used(), "exactly one reservation may be charged")
	assert.Len(t, f.history.records, 1)
}

func TestHumanizeBothStrategiesFailReleases(t *testing.T) {
	f := newFixture(100)
	f.primary.err = errors.New("upstream down")
	f.backup.err = errors.New("fallback broken")

	_, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{Text: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, xerrors.ErrHumanizationFailed)

	assert.Equal(t, 0, f.store.used(), "failed transformation must leave the balance unchanged")
	assert.Empty(t, f.history.records)
	assert.Equal(t, 0, f.usage.calls)
}

func TestHumanizePersistFailureRefundsButReturnsText(t *testing.T) {
	f := newFixture(100)
	f.history.insertErr = errors.New("disk full")

	resp, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{Text: "hello"})
	require.NoError(t, err, "paid-for work is handed back even when it cannot be recorded")

	assert.Zero(t, resp.ID)
	assert.Zero(t, resp.CreditsUsed)
	assert.NotEmpty(t, resp.HumanizedText)
	assert.Equal(t, 0, f.store.used(), "reservation must be refunded")
	assert.Equal(t, 0, f.usage.calls)
}

func TestHumanizeStatsFailureNonFatal(t *testing.T) {
	f := newFixture(100)
	f.usage.err = errors.New("stats table locked")

	resp, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{Text: "hello"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 1, f.store.used())
	assert.Len(t, f.history.records, 1)
}

// A client disconnect while the transformation is in flight must refund the
// reservation even though the request context is already dead when the
// refund runs.
func TestHumanizeDisconnectMidTransformRefunds(t *testing.T) {
	f := newFixture(100)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.primary.err = context.Canceled
	f.primary.onCall = cancel

	_, err := f.svc.Humanize(ctx, 10, &text.HumanizeRequest{Text: "hello"})
	require.Error(t, err)

	assert.Equal(t, 1, f.primary.calls)
	assert.Equal(t, 0, f.backup.calls, "cancelled request must not run the fallback")
	assert.Equal(t, 0, f.store.used(), "reservation must be refunded after cancellation")
	assert.Empty(t, f.history.records)
}

func TestHumanizeCancelledBeforeFallbackReleases(t *testing.T) {
	f := newFixture(100)
	ctx, cancel := context.WithCancel(context.Background())

	f.primary.err = context.Canceled
	cancel()

	_, err := f.svc.Humanize(ctx, 10, &text.HumanizeRequest{Text: "hello"})
	require.Error(t, err)

	assert.Equal(t, 0, f.backup.calls, "cancelled request must not run the fallback")
	assert.Equal(t, 0, f.store.used(), "cancelled request must not stay charged")
}

// Two sequential 600-character calls against a 100-credit plan leave
// credits_used at 4 and two history records.
func TestHumanizeSequentialScenario(t *testing.T) {
	f := newFixture(100)
	input := strings.Repeat("x", 600)

	for i := 0; i < 2; i++ {
		_, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{Text: input})
		require.NoError(t, err)
	}

	assert.Equal(t, 4, f.store.used())
	assert.Equal(t, 96, f.store.sub.CreditsTotal-f.store.used())
	assert.Len(t, f.history.records, 2)
}

// Record count tracks committed reservations exactly, under concurrency.
func TestHumanizeRecordsMatchCommits(t *testing.T) {
	f := newFixture(10) // 10 one-credit calls fit

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{Text: "short"})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, f.store.used())
	assert.Equal(t, succeeded, f.history.count())
}

func TestHistoryPaginationDefaults(t *testing.T) {
	f := newFixture(100)
	for i := 0; i < 25; i++ {
		_, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{Text: "entry"})
		require.NoError(t, err)
	}

	resp, err := f.svc.History(context.Background(), 10, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(25), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Len(t, resp.Data, 10)

	resp, err = f.svc.History(context.Background(), 10, 3, 10)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 5)
}

func TestGetRecordOwnership(t *testing.T) {
	f := newFixture(100)
	resp, err := f.svc.Humanize(context.Background(), 10, &text.HumanizeRequest{Text: "mine"})
	require.NoError(t, err)

	rec, err := f.svc.Get(context.Background(), 10, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, rec.ID)

	_, err = f.svc.Get(context.Background(), 99, resp.ID)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}
