// internal/domain/subscription/entity.go
package subscription

import (
	"time"
)

// UnlimitedCredits marks a plan without a credit ceiling.
const UnlimitedCredits = -1

type Subscription struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	PlanType     string    `json:"plan_type" db:"plan_type"`
	CreditsTotal int       `json:"credits_total" db:"credits_total"`
	CreditsUsed  int       `json:"credits_used" db:"credits_used"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Unlimited reports whether the subscription has no credit ceiling.
func (s *Subscription) Unlimited() bool {
	return s.CreditsTotal == UnlimitedCredits
}

// CreditsRemaining returns the spendable balance. Unlimited plans report
// UnlimitedCredits.
func (s *Subscription) CreditsRemaining() int {
	if s.Unlimited() {
		return UnlimitedCredits
	}
	remaining := s.CreditsTotal - s.CreditsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanAfford reports whether amount credits can be reserved.
func (s *Subscription) CanAfford(amount int) bool {
	if s.Unlimited() {
		return true
	}
	return s.CreditsRemaining() >= amount
}
