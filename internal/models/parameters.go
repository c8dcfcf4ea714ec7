package models

import "fmt"

// CrisisParameters is a user-declared crisis scenario. It is immutable once
// submitted; a fresh value is created per allocation request.
type CrisisParameters struct {
	GeoRisk      float64 `json:"geo_risk"`      // 0-10
	InflationPct float64 `json:"inflation_pct"` // 0-100
	ElectionRisk float64 `json:"election_risk"` // 0-10
	FreeText     string  `json:"free_text"`
}

// Validate checks that the numeric parameters are within their declared ranges.
func (p CrisisParameters) Validate() error {
	if p.GeoRisk < 0 || p.GeoRisk > 10 {
		return fmt.Errorf("geo_risk must be between 0 and 10, got %v", p.GeoRisk)
	}
	if p.InflationPct < 0 || p.InflationPct > 100 {
		return fmt.Errorf("inflation_pct must be between 0 and 100, got %v", p.InflationPct)
	}
	if p.ElectionRisk < 0 || p.ElectionRisk > 10 {
		return fmt.Errorf("election_risk must be between 0 and 10, got %v", p.ElectionRisk)
	}
	return nil
}
