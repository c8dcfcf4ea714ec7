package allocation

import (
	"errors"
	"testing"
)

func TestValidateAcceptsInBandSums(t *testing.T) {
	tests := []struct {
		name string
		f    fields
	}{
		{name: "exact hundred", f: fields{Defense: 30, Gold: 25, ESG: 20, Crypto: 15, Cash: 10}},
		{name: "lower edge", f: fields{Defense: 99}},
		{name: "upper edge", f: fields{Cash: 101}},
		{name: "rounding drift", f: fields{Defense: 33.4, Gold: 33.3, ESG: 33.0, Crypto: 0.2, Cash: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validate(tt.f)
			if err != nil {
				t.Fatalf("validate returned error: %v", err)
			}
			if got != tt.f {
				t.Errorf("in-band fields must be unchanged: got %+v, want %+v", got, tt.f)
			}
		})
	}
}

func TestValidateRepairsOutOfBandSums(t *testing.T) {
	tests := []struct {
		name string
		f    fields
	}{
		{name: "undershoot", f: fields{Defense: 40, Gold: 10, ESG: 10, Crypto: 10, Cash: 10}},
		{name: "overshoot", f: fields{Defense: 60, Gold: 30, ESG: 20, Crypto: 20, Cash: 20}},
		{name: "tiny sum", f: fields{Defense: 1, Gold: 1, ESG: 1, Crypto: 1, Cash: 1}},
		{name: "lopsided", f: fields{Defense: 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validate(tt.f)
			if err != nil {
				t.Fatalf("validate returned error: %v", err)
			}

			sum := 0.0
			for _, v := range got.values() {
				sum += v
				if v < 0 {
					t.Errorf("negative field after repair: %+v", got)
				}
			}
			if sum != 100 {
				t.Errorf("repaired sum = %v, want exactly 100 (%+v)", sum, got)
			}
		})
	}
}

func TestValidateRepairExample(t *testing.T) {
	// Pre-repair sum 80; proportions are 50 / 12.5 x 4.
	got, err := validate(fields{Defense: 40, Gold: 10, ESG: 10, Crypto: 10, Cash: 10})
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}

	if got.Defense != 50 {
		t.Errorf("defense = %v, want 50", got.Defense)
	}
	// The 12.5s round to a mix of 12 and 13 that restores the total.
	for _, v := range []float64{got.Gold, got.ESG, got.Crypto, got.Cash} {
		if v != 12 && v != 13 {
			t.Errorf("expected 12 or 13, got %v (%+v)", v, got)
		}
	}
}

func TestValidateDegenerateSums(t *testing.T) {
	tests := []struct {
		name string
		f    fields
	}{
		{name: "all zero", f: fields{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate(tt.f)

			var degenerate *DegenerateAllocationError
			if !errors.As(err, &degenerate) {
				t.Fatalf("expected DegenerateAllocationError, got %v", err)
			}
		})
	}
}

func TestValidateRejectsNegativeFields(t *testing.T) {
	_, err := validate(fields{Defense: 120, Gold: -20})
	if err == nil {
		t.Fatal("expected error for negative bucket")
	}

	var degenerate *DegenerateAllocationError
	if errors.As(err, &degenerate) {
		t.Error("negative field is a contract violation, not a degenerate sum")
	}
}
