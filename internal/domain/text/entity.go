// internal/domain/text/entity.go
package text

import (
	"time"
)

// Level is the caller-selected aggressiveness of the humanization.
type Level string

const (
	LevelSlight      Level = "slight"
	LevelModerate    Level = "moderate"
	LevelSubstantial Level = "substantial"
)

// DefaultLevel is applied when a request carries no level.
const DefaultLevel = LevelModerate

// NormalizeLevel maps an empty level to the default. Unrecognized values pass
// through unchanged; strategies degrade them to their own documented default
// instead of failing the request.
func NormalizeLevel(raw string) Level {
	if raw == "" {
		return DefaultLevel
	}
	return Level(raw)
}

// TextAnalysis is one completed humanization. Rows are append-only and never
// modified after insert.
type TextAnalysis struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	OriginalText   string    `json:"original_text" db:"original_text"`
	HumanizedText  string    `json:"humanized_text" db:"humanized_text"`
	CharacterCount int       `json:"character_count" db:"character_count"`
	CreditsUsed    int       `json:"credits_used" db:"credits_used"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// TextStatistics holds the running usage counters, one row per account.
type TextStatistics struct {
	ID                       int64     `json:"id" db:"id"`
	UserID                   int64     `json:"user_id" db:"user_id"`
	TotalTransformations     int64     `json:"total_transformations" db:"total_transformations"`
	TotalCharactersProcessed int64     `json:"total_characters_processed" db:"total_characters_processed"`
	TotalCreditsSpent        int64     `json:"total_credits_spent" db:"total_credits_spent"`
	AverageTextLength        float64   `json:"average_text_length" db:"average_text_length"`
	PopularLevel             Level     `json:"popular_level" db:"popular_level"`
	LastActivityDate         time.Time `json:"last_activity_date" db:"last_activity_date"`
	CreatedAt                time.Time `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time `json:"updated_at" db:"updated_at"`
}
