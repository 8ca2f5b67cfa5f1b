// internal/service/stats/aggregator.go
package stats

import (
	"context"
	"fmt"
	"time"

	"humanizer-service/internal/domain/text"
	xerrors "humanizer-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Store is the persistence boundary for per-account usage counters. Record
// must be atomic under concurrent calls for the same account; the postgres
// implementation uses a single upsert.
type Store interface {
	FindByUser(ctx context.Context, userID int64) (*text.TextStatistics, error)
	Record(ctx context.Context, userID int64, charCount, creditsSpent int, level text.Level, now time.Time) error
}

// Aggregator maintains running per-account usage counters. Failures here are
// logged by callers and never roll back the transformation that produced
// them.
type Aggregator struct {
	store  Store
	logger *zap.Logger
}

func NewAggregator(store Store, logger *zap.Logger) *Aggregator {
	return &Aggregator{store: store, logger: logger}
}

// Record folds one completed humanization into the account's counters. The
// first call creates the row; the running mean is recomputed from the
// accumulated totals, so it is exact regardless of call order.
// popular_level tracks the most recent level, not a frequency mode.
func (a *Aggregator) Record(ctx context.Context, userID int64, charCount, creditsSpent int, level text.Level) error {
	if err := a.store.Record(ctx, userID, charCount, creditsSpent, level, time.Now()); err != nil {
		return fmt.Errorf("failed to record statistics: %w", err)
	}
	return nil
}

// ForUser returns the account's counters, or a zero-value snapshot when the
// account has not humanized anything yet.
func (a *Aggregator) ForUser(ctx context.Context, userID int64) (*text.StatisticsResponse, error) {
	stats, err := a.store.FindByUser(ctx, userID)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		return &text.StatisticsResponse{
			UserID:       userID,
			PopularLevel: text.DefaultLevel,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	last := stats.LastActivityDate
	return &text.StatisticsResponse{
		UserID:                   stats.UserID,
		TotalTransformations:     stats.TotalTransformations,
		TotalCharactersProcessed: stats.TotalCharactersProcessed,
		TotalCreditsSpent:        stats.TotalCreditsSpent,
		AverageTextLength:        stats.AverageTextLength,
		PopularLevel:             stats.PopularLevel,
		LastActivityDate:         &last,
	}, nil
}
