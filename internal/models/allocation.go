package models

import "time"

// AllocationResult is the output contract of the allocation pipeline: five
// non-negative percentage fields plus a short rationale. Consumers must branch
// on the error they received alongside it, never on partially filled fields.
// A result is created fresh per request, never mutated after return and never
// persisted.
type AllocationResult struct {
	ID          string    `json:"id"`
	Defense     float64   `json:"defense"`
	Gold        float64   `json:"gold"`
	ESG         float64   `json:"esg"`
	Crypto      float64   `json:"crypto"`
	Cash        float64   `json:"cash"`
	Reasoning   string    `json:"reasoning"`
	CrisisScore float64   `json:"crisis_score"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Sum returns the total of the five percentage fields.
func (a AllocationResult) Sum() float64 {
	return a.Defense + a.Gold + a.ESG + a.Crypto + a.Cash
}
