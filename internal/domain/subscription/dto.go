// internal/domain/subscription/dto.go
package subscription

import "time"

type ChangePlanRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

type SubscriptionResponse struct {
	ID           int64     `json:"id"`
	PlanID       string    `json:"plan_id"`
	UserID       int64     `json:"user_id"`
	Status       string    `json:"status"`
	CreditsTotal int       `json:"credits_total"`
	CreditsUsed  int       `json:"credits_used"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

type CreditsResponse struct {
	UserID           int64     `json:"user_id"`
	PlanType         string    `json:"plan_type"`
	CreditsTotal     int       `json:"credits_total"`
	CreditsUsed      int       `json:"credits_used"`
	CreditsRemaining int       `json:"credits_remaining"`
	SubscriptionEnds time.Time `json:"subscription_ends"`
}
