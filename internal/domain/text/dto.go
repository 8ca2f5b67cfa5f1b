// internal/domain/text/dto.go
package text

import "time"

type HumanizeRequest struct {
	Text  string `json:"text"`
	Level string `json:"level" binding:"omitempty,oneof=slight moderate substantial"`
}

type HumanizeResponse struct {
	ID             int64     `json:"id"`
	OriginalText   string    `json:"original_text"`
	HumanizedText  string    `json:"humanized_text"`
	CharacterCount int       `json:"character_count"`
	CreditsUsed    int       `json:"credits_used"`
	CreatedAt      time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Data  []TextAnalysis `json:"data"`
}

// StatisticsResponse mirrors TextStatistics but tolerates accounts that have
// not humanized anything yet.
type StatisticsResponse struct {
	UserID                   int64      `json:"user_id"`
	TotalTransformations     int64      `json:"total_transformations"`
	TotalCharactersProcessed int64      `json:"total_characters_processed"`
	TotalCreditsSpent        int64      `json:"total_credits_spent"`
	AverageTextLength        float64    `json:"average_text_length"`
	PopularLevel             Level      `json:"popular_level"`
	LastActivityDate         *time.Time `json:"last_activity_date"`
}
