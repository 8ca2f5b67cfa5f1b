// internal/service/humanizer/strategy.go
package humanizer

import (
	"context"

	"humanizer-service/internal/domain/text"
)

// Strategy produces humanized text from input and an intensity level.
// Implementations must degrade unrecognized levels to their own documented
// default instead of failing.
type Strategy interface {
	Name() string
	Humanize(ctx context.Context, input string, level text.Level) (string, error)
}

// modeForLevel maps the public intensity levels onto the remote provider's
// mode names. Unknown levels fall back to medium.
func modeForLevel(level text.Level) string {
	switch level {
	case text.LevelSlight:
		return "least"
	case text.LevelModerate:
		return "medium"
	case text.LevelSubstantial:
		return "most"
	default:
		return "medium"
	}
}
