// internal/service/estimator/estimator.go
package estimator

import "unicode/utf8"

// Credit tiers priced by input size.
const (
	tierSmall  = 500
	tierMedium = 1000
	tierLarge  = 2000
	tierHuge   = 5000
)

// Estimate returns the credits required to humanize text. Pure step function
// of character count; no side effects, no failure modes.
func Estimate(text string) int {
	return EstimateChars(utf8.RuneCountInString(text))
}

// EstimateChars prices a character count directly.
func EstimateChars(charCount int) int {
	switch {
	case charCount <= tierSmall:
		return 1
	case charCount <= tierMedium:
		return 2
	case charCount <= tierLarge:
		return 4
	case charCount <= tierHuge:
		return 10
	default:
		return 20
	}
}
