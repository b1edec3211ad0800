package sizing

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// -----------------------------------------------------------------------------
// Spread Normalization Tests
// -----------------------------------------------------------------------------

func TestNormalizeSpread(t *testing.T) {
	t.Run("already normalized", func(t *testing.T) {
		got := NormalizeSpread([YearSlots]float64{60, 40})
		want := [YearSlots]float64{60, 40}
		if got != want {
			t.Errorf("NormalizeSpread = %v, want %v", got, want)
		}
	})

	t.Run("scales to 100", func(t *testing.T) {
		got := NormalizeSpread([YearSlots]float64{1, 1, 2})
		want := [YearSlots]float64{25, 25, 50}
		if got != want {
			t.Errorf("NormalizeSpread = %v, want %v", got, want)
		}
	})

	t.Run("all zero puts everything in year one", func(t *testing.T) {
		got := NormalizeSpread([YearSlots]float64{})
		want := [YearSlots]float64{100}
		if got != want {
			t.Errorf("NormalizeSpread = %v, want %v", got, want)
		}
	})

	t.Run("negatives and NaN clamp to zero", func(t *testing.T) {
		got := NormalizeSpread([YearSlots]float64{-50, math.NaN(), 30, 10})
		want := [YearSlots]float64{0, 0, 75, 25}
		if got != want {
			t.Errorf("NormalizeSpread = %v, want %v", got, want)
		}
	})
}

// -----------------------------------------------------------------------------
// Totals Tests
// -----------------------------------------------------------------------------

func TestScenarioDays(t *testing.T) {
	c := testCatalog()

	t.Run("full scenario at M", func(t *testing.T) {
		full, _ := c.Scenario("Full")
		// Discovery 3 + Workshop 1 + Migration 8 + Handover 2.
		if got := c.ScenarioDays(full, SizeM); got != 14 {
			t.Errorf("ScenarioDays = %v, want 14", got)
		}
	})

	t.Run("lean scenario applies hides and overrides", func(t *testing.T) {
		lean, _ := c.Scenario("Lean")
		// Discovery 3 + Migration override 6 + Handover 2; Workshop hidden.
		if got := c.ScenarioDays(lean, SizeM); got != 11 {
			t.Errorf("ScenarioDays = %v, want 11", got)
		}
	})
}

func TestComputeTotals(t *testing.T) {
	c := testCatalog()

	t.Run("sums selections and splits by year", func(t *testing.T) {
		eng := Engagement{
			Spread: [YearSlots]float64{50, 50},
			Selections: []Selection{
				{Scenario: "Full", Size: SizeM},
				{Scenario: "Lean", Size: SizeM},
			},
		}
		got := c.ComputeTotals(eng)

		if got.Days != 25 {
			t.Errorf("Days = %v, want 25", got.Days)
		}
		wantByChoice := map[string]float64{"Full": 14, "Lean": 11}
		if diff := cmp.Diff(wantByChoice, got.ByChoice); diff != "" {
			t.Errorf("ByChoice mismatch (-want +got):\n%s", diff)
		}
		wantPerYear := [YearSlots]float64{12.5, 12.5}
		if got.PerYear != wantPerYear {
			t.Errorf("PerYear = %v, want %v", got.PerYear, wantPerYear)
		}
	})

	t.Run("unknown selections contribute nothing", func(t *testing.T) {
		eng := Engagement{
			Selections: []Selection{
				{Scenario: "Ghost", Size: SizeM},
				{Scenario: "full", Size: SizeS},
			},
		}
		got := c.ComputeTotals(eng)

		// Discovery 2 + Workshop 1 + Migration 5 + Handover default 2.
		if got.Days != 10 {
			t.Errorf("Days = %v, want 10", got.Days)
		}
		if _, ok := got.ByChoice["Ghost"]; ok {
			t.Error("unknown scenario recorded in ByChoice")
		}
		// Zero spread defaults all effort to year one.
		if got.PerYear[0] != 10 {
			t.Errorf("PerYear[0] = %v, want 10", got.PerYear[0])
		}
	})

	t.Run("empty engagement", func(t *testing.T) {
		got := c.ComputeTotals(Engagement{})
		if got.Days != 0 || len(got.ByChoice) != 0 {
			t.Errorf("Totals = %+v, want zero", got)
		}
	})
}
