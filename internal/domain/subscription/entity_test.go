package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditsRemaining(t *testing.T) {
	s := &Subscription{CreditsTotal: 100, CreditsUsed: 30}
	assert.Equal(t, 70, s.CreditsRemaining())
	assert.True(t, s.CanAfford(70))
	assert.False(t, s.CanAfford(71))

	// over-consumed rows floor at zero
	s.CreditsUsed = 120
	assert.Equal(t, 0, s.CreditsRemaining())
	assert.False(t, s.CanAfford(1))
}

func TestUnlimitedPlan(t *testing.T) {
	s := &Subscription{CreditsTotal: UnlimitedCredits, CreditsUsed: 99999}
	assert.True(t, s.Unlimited())
	assert.Equal(t, UnlimitedCredits, s.CreditsRemaining())
	assert.True(t, s.CanAfford(1000000))
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	plans := plansByID(catalog)
	require.Len(t, plans, 4)

	assert.Equal(t, 100, plans["free"].Credits)
	assert.Equal(t, float64(0), plans["free"].Price)
	assert.Equal(t, 1000, plans["basic"].Credits)
	assert.Equal(t, 9.99, plans["basic"].Price)
	assert.Equal(t, 5000, plans["pro"].Credits)
	assert.Equal(t, 19.99, plans["pro"].Price)
	assert.Equal(t, UnlimitedCredits, plans["enterprise"].Credits)
	assert.Equal(t, 49.99, plans["enterprise"].Price)

	for id, p := range plans {
		assert.Equal(t, "month", p.Interval, "plan %s", id)
	}

	_, ok := catalog.Find(DefaultPlanID)
	assert.True(t, ok, "signup tier must exist")

	_, ok = catalog.Find("platinum")
	assert.False(t, ok)
}

func TestCatalogPlansReturnsCopy(t *testing.T) {
	catalog := DefaultCatalog()

	out := catalog.Plans()
	out[0].Credits = 12345

	fresh, _ := catalog.Find(out[0].ID)
	assert.NotEqual(t, 12345, fresh.Credits, "mutating the returned slice must not touch the catalog")
}

func plansByID(c *Catalog) map[string]Plan {
	out := make(map[string]Plan)
	for _, p := range c.Plans() {
		out[p.ID] = p
	}
	return out
}
