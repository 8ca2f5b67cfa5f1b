package humanizer

import (
	"context"
	"strings"
	"testing"

	"humanizer-service/internal/domain/text"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackSlight(t *testing.T) {
	s := NewFallbackStrategy()

	out, err := s.Humanize(context.Background(), "The results are final. We utilize metrics; however the data is noisy.", text.LevelSlight)
	require.NoError(t, err)

	assert.Contains(t, out, "are actually")
	assert.Contains(t, out, "is actually")
	assert.Contains(t, out, "use metrics")
	assert.Contains(t, out, "but the data")
	assert.NotContains(t, out, "however")
	assert.NotContains(t, out, "utilize")
}

func TestFallbackModerateAddsSmoothing(t *testing.T) {
	s := NewFallbackStrategy()

	in := "We therefore proceed. subsequently things changed."
	out, err := s.Humanize(context.Background(), in, text.LevelModerate)
	require.NoError(t, err)

	assert.Contains(t, out, "so proceed")
	assert.Contains(t, out, "then things")
	assert.NotContains(t, out, "therefore")
	assert.NotContains(t, out, "subsequently")
}

func TestFallbackSubstantialRestructures(t *testing.T) {
	s := NewFallbackStrategy()

	in := "The project commenced well. It concluded early. Additionally, budgets held. furthermore we grew."
	out, err := s.Humanize(context.Background(), in, text.LevelSubstantial)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "So, "))
	assert.Contains(t, out, "started")
	assert.Contains(t, out, "ended")
	assert.Contains(t, out, "also")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "commenced")
	assert.NotContains(t, out, "concluded")
	assert.NotContains(t, out, "furthermore")
}

func TestFallbackUnknownLevelUsesMinimalSet(t *testing.T) {
	s := NewFallbackStrategy()

	in := "We utilize tools; however they are slow."
	out, err := s.Humanize(context.Background(), in, text.Level("extreme"))
	require.NoError(t, err)

	assert.Contains(t, out, "use tools")
	assert.Contains(t, out, "but they")
	// The minimal set does not touch be-verbs.
	assert.Contains(t, out, "are slow")
	assert.NotContains(t, out, "are actually")
}

func TestFallbackDeterministic(t *testing.T) {
	s := NewFallbackStrategy()
	in := "The system is robust. We utilize caching; however latency persists. It therefore helps. subsequently we scaled. The work commenced and concluded. Additionally, costs fell."

	for _, level := range []text.Level{text.LevelSlight, text.LevelModerate, text.LevelSubstantial} {
		a, err := s.Humanize(context.Background(), in, level)
		require.NoError(t, err)
		b, err := s.Humanize(context.Background(), in, level)
		require.NoError(t, err)
		assert.Equal(t, a, b, "level %s must be deterministic", level)
	}
}

func TestFallbackAggressivenessIncreases(t *testing.T) {
	s := NewFallbackStrategy()
	in := "The system is robust. We utilize caching; however latency persists. It therefore helps. subsequently we scaled. The work commenced., done."

	slight, err := s.Humanize(context.Background(), in, text.LevelSlight)
	require.NoError(t, err)
	moderate, err := s.Humanize(context.Background(), in, text.LevelModerate)
	require.NoError(t, err)
	substantial, err := s.Humanize(context.Background(), in, text.LevelSubstantial)
	require.NoError(t, err)

	// Moderate rewrites everything slight does plus more.
	assert.NotEqual(t, slight, moderate)
	assert.NotEqual(t, moderate, substantial)
	assert.Contains(t, moderate, "so helps")
	assert.NotContains(t, slight, "so helps")
	assert.Contains(t, substantial, "...")
	assert.NotContains(t, moderate, "...")
}
