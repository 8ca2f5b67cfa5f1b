// internal/repository/postgres/text_repo.go
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

type TextRepository struct {
	db *pgxpool.Pool
}

func NewTextRepository(db *pgxpool.Pool) *TextRepository {
	return &TextRepository{db: db}
}

// Insert appends a completed humanization. Records are immutable once
// written.
func (r *TextRepository) Insert(ctx context.Context, rec *text.TextAnalysis) error {
	query := `
		INSERT INTO text_analyses (user_id, original_text, humanized_text, character_count, credits_used)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		rec.UserID, rec.OriginalText, rec.HumanizedText, rec.CharacterCount, rec.CreditsUsed,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert text analysis: %w", err)
	}

	return nil
}

// ListByUser returns an account's records newest-first plus the total count.
func (r *TextRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]text.TextAnalysis, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM text_analyses WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count text analyses: %w", err)
	}

	query := `
		SELECT id, user_id, original_text, humanized_text, character_count, credits_used, created_at
		FROM text_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list text analyses: %w", err)
	}
	defer rows.Close()

	var records []text.TextAnalysis
	for rows.Next() {
		var rec text.TextAnalysis
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.OriginalText, &rec.HumanizedText,
			&rec.CharacterCount, &rec.CreditsUsed, &rec.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan text analysis: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// FindByIDForUser retrieves one record owned by the given account.
func (r *TextRepository) FindByIDForUser(ctx context.Context, id, userID int64) (*text.TextAnalysis, error) {
	query := `
		SELECT id, user_id, original_text, humanized_text, character_count, credits_used, created_at
		FROM text_analyses
		WHERE id = $1 AND user_id = $2
	`

	var rec text.TextAnalysis
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&rec.ID, &rec.UserID, &rec.OriginalText, &rec.HumanizedText,
		&rec.CharacterCount, &rec.CreditsUsed, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find text analysis: %w", err)
	}

	return &rec, nil
}

func (r *TextRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM text_analyses WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count text analyses: %w", err)
	}
	return count, nil
}

func (r *TextRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM text_analyses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count text analyses: %w", err)
	}
	return count, nil
}

func (r *TextRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM text_analyses WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent text analyses: %w", err)
	}
	return count, nil
}

// SumCharacters totals the characters processed across the platform.
func (r *TextRepository) SumCharacters(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(character_count), 0) FROM text_analyses`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum characters: %w", err)
	}
	return sum, nil
}
