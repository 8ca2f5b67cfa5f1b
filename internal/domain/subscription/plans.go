// internal/domain/subscription/plans.go
package subscription

// Plan is one tier of the subscription catalog.
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Interval    string   `json:"interval"`
	Credits     int      `json:"credits"`
	Features    []string `json:"features"`
}

// Catalog is the immutable plan table, loaded once at process start.
// Lookups are read-only.
type Catalog struct {
	plans []Plan
	byID  map[string]Plan
}

// DefaultPlanID is the tier assigned at signup.
const DefaultPlanID = "free"

// DefaultCatalog returns the built-in plan table.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Plan{
		{
			ID:          "free",
			Name:        "Free",
			Description: "Basic features with limited credits",
			Price:       0,
			Interval:    "month",
			Credits:     100,
			Features:    []string{"Basic humanization", "Limited history"},
		},
		{
			ID:          "basic",
			Name:        "Basic",
			Description: "Standard features with more credits",
			Price:       9.99,
			Interval:    "month",
			Credits:     1000,
			Features:    []string{"Standard humanization", "Full history", "Export options"},
		},
		{
			ID:          "pro",
			Name:        "Professional",
			Description: "Advanced features with plenty of credits",
			Price:       19.99,
			Interval:    "month",
			Credits:     5000,
			Features:    []string{"Advanced humanization", "Full history", "Export options", "Priority support"},
		},
		{
			ID:          "enterprise",
			Name:        "Enterprise",
			Description: "All features with unlimited credits",
			Price:       49.99,
			Interval:    "month",
			Credits:     UnlimitedCredits,
			Features:    []string{"All features", "Unlimited credits", "API access", "24/7 support"},
		},
	})
}

func NewCatalog(plans []Plan) *Catalog {
	byID := make(map[string]Plan, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}
	return &Catalog{plans: plans, byID: byID}
}

// Plans returns all tiers in catalog order.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Find returns the plan with the given ID.
func (c *Catalog) Find(id string) (Plan, bool) {
	p, ok := c.byID[id]
	return p, ok
}
