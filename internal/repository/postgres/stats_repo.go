// internal/repository/postgres/stats_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"humanizer-service/internal/domain/text"
	xerrors "humanizer-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) FindByUser(ctx context.Context, userID int64) (*text.TextStatistics, error) {
	query := `
		SELECT id, user_id, total_transformations, total_characters_processed,
		       total_credits_spent, average_text_length, popular_level,
		       last_activity_date, created_at, updated_at
		FROM text_statistics
		WHERE user_id = $1
	`

	var stats text.TextStatistics
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.ID, &stats.UserID, &stats.TotalTransformations, &stats.TotalCharactersProcessed,
		&stats.TotalCreditsSpent, &stats.AverageTextLength, &stats.PopularLevel,
		&stats.LastActivityDate, &stats.CreatedAt, &stats.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find statistics: %w", err)
	}

	return &stats, nil
}

// Record folds one completed humanization into the account's counters in a
// single upsert. Concurrent calls for the same account cannot double-insert
// the row or lose updates: both arms run the arithmetic inside the database.
func (r *StatsRepository) Record(ctx context.Context, userID int64, charCount, creditsSpent int, level text.Level, now time.Time) error {
	query := `
		INSERT INTO text_statistics (
			user_id, total_transformations, total_characters_processed,
			total_credits_spent, average_text_length, popular_level, last_activity_date
		) VALUES ($1, 1, $2, $3, $2, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			total_transformations = text_statistics.total_transformations + 1,
			total_characters_processed = text_statistics.total_characters_processed + EXCLUDED.total_characters_processed,
			total_credits_spent = text_statistics.total_credits_spent + EXCLUDED.total_credits_spent,
			average_text_length = (text_statistics.total_characters_processed + EXCLUDED.total_characters_processed)::float8
				/ (text_statistics.total_transformations + 1),
			popular_level = EXCLUDED.popular_level,
			last_activity_date = EXCLUDED.last_activity_date,
			updated_at = $6
	`

	_, err := r.db.Exec(ctx, query, userID, charCount, creditsSpent, level, now, now)
	if err != nil {
		return fmt.Errorf("failed to record statistics: %w", err)
	}

	return nil
}
