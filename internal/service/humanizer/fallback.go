// internal/service/humanizer/fallback.go
package humanizer

import (
	"context"
	"regexp"
	"strings"

	"humanizer-service/internal/domain/text"
)

var (
	reBeVerbs       = regexp.MustCompile(`\b(is|are)\b`)
	reFormalVerbs   = regexp.MustCompile(`\b(utilize|implement)\b`)
	reHowever       = regexp.MustCompile(`\bhowever\b`)
	reTherefore     = regexp.MustCompile(`\btherefore\b`)
	reSubsequently  = regexp.MustCompile(`\bsubsequently\b`)
	reSentenceBreak = regexp.MustCompile(`\., `)
	reAdditionally  = regexp.MustCompile(`\b(additionally|furthermore)\b`)
	reCommenced     = regexp.MustCompile(`\bcommenced\b`)
	reConcluded     = regexp.MustCompile(`\bconcluded\b`)
)

// FallbackStrategy performs deterministic local substitutions keyed by level,
// strictly increasing in rewrite aggressiveness. It is pure and total: it
// always succeeds.
type FallbackStrategy struct{}

func NewFallbackStrategy() *FallbackStrategy {
	return &FallbackStrategy{}
}

func (s *FallbackStrategy) Name() string {
	return "fallback"
}

func (s *FallbackStrategy) Humanize(_ context.Context, input string, level text.Level) (string, error) {
	switch level {
	case text.LevelSlight:
		return slightRewrite(input), nil
	case text.LevelModerate:
		return moderateRewrite(input), nil
	case text.LevelSubstantial:
		return substantialRewrite(input), nil
	default:
		// Unrecognized levels get the minimal substitution set.
		out := reFormalVerbs.ReplaceAllString(input, "use")
		out = reHowever.ReplaceAllString(out, "but")
		return out, nil
	}
}

// slightRewrite swaps a few tokens and adds filler.
func slightRewrite(in string) string {
	out := reBeVerbs.ReplaceAllString(in, "$1 actually")
	out = reFormalVerbs.ReplaceAllString(out, "use")
	out = reHowever.ReplaceAllString(out, "but")
	return out
}

// moderateRewrite adds sentence-level smoothing on top of the slight pass.
func moderateRewrite(in string) string {
	out := slightRewrite(in)
	out = reTherefore.ReplaceAllString(out, "so")
	out = reSubsequently.ReplaceAllString(out, "then")
	out = reSentenceBreak.ReplaceAllString(out, ". Well, ")
	return out
}

// substantialRewrite restructures more heavily and changes punctuation.
func substantialRewrite(in string) string {
	out := moderateRewrite(in)
	out = reAdditionally.ReplaceAllString(out, "also")
	out = reCommenced.ReplaceAllString(out, "started")
	out = reConcluded.ReplaceAllString(out, "ended")

	out = "So, " + out
	out = strings.ReplaceAll(out, ".", "...")
	return out
}
