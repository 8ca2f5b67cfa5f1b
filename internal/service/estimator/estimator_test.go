package estimator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCharsBoundaries(t *testing.T) {
	cases := []struct {
		chars int
		want  int
	}{
		{0, 1},
		{1, 1},
		{500, 1},
		{501, 2},
		{1000, 2},
		{1001, 4},
		{2000, 4},
		{2001, 10},
		{5000, 10},
		{5001, 20},
		{100000, 20},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, EstimateChars(tc.chars), "chars=%d", tc.chars)
	}
}

func TestEstimateCountsRunes(t *testing.T) {
	assert.Equal(t, 1, Estimate(strings.Repeat("a", 500)))
	assert.Equal(t, 2, Estimate(strings.Repeat("a", 501)))

	// Multibyte characters count as one each.
	assert.Equal(t, 1, Estimate(strings.Repeat("ü", 500)))
	assert.Equal(t, 2, Estimate(strings.Repeat("ü", 501)))
}
