package sizing

import "math"

// YearSlots is the number of year-by-year spread slots.
const YearSlots = 5

// Selection pairs a scenario with the size it is quoted at.
type Selection struct {
	Scenario string    `json:"scenario" yaml:"scenario"`
	Size     SizeLabel `json:"size" yaml:"size"`
}

// Engagement is one sized engagement: identification, the year spread, and
// the scenario selections to report on.
type Engagement struct {
	Plan        string              `json:"plan" yaml:"plan"`
	Customer    string              `json:"customer" yaml:"customer"`
	Opportunity string              `json:"opportunity" yaml:"opportunity"`
	Spread      [YearSlots]float64  `json:"spread" yaml:"spread"`
	Selections  []Selection         `json:"selections" yaml:"selections"`
}

// Totals aggregates effort across an engagement's selections.
type Totals struct {
	Days     float64
	PerYear  [YearSlots]float64
	ByChoice map[string]float64 // scenario name -> days
}

// sanitize coerces NaN/Inf to zero; sparse workbook cells must never poison
// the totals.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NormalizeSpread scales spread slots so they sum to 100. A spread with no
// positive slots yields 100% in the first year.
func NormalizeSpread(spread [YearSlots]float64) [YearSlots]float64 {
	var sum float64
	for i, v := range spread {
		v = sanitize(v)
		if v < 0 {
			v = 0
		}
		spread[i] = v
		sum += v
	}
	if sum == 0 {
		return [YearSlots]float64{100}
	}
	for i := range spread {
		spread[i] = spread[i] / sum * 100
	}
	return spread
}

// ScenarioDays sums the visible services of a scenario at a size.
func (c *Catalog) ScenarioDays(s *Scenario, size SizeLabel) float64 {
	var days float64
	for _, svc := range c.VisibleServices(s) {
		days += sanitize(c.EffortFor(s, svc, size))
	}
	return days
}

// ComputeTotals aggregates the engagement's selections into grand totals and
// the per-year day split derived from the normalized spread.
func (c *Catalog) ComputeTotals(eng Engagement) Totals {
	t := Totals{ByChoice: make(map[string]float64, len(eng.Selections))}

	for _, sel := range eng.Selections {
		scen, ok := c.Scenario(sel.Scenario)
		if !ok {
			continue
		}
		days := c.ScenarioDays(scen, sel.Size)
		t.ByChoice[scen.Name] = days
		t.Days += days
	}

	spread := NormalizeSpread(eng.Spread)
	for i := range spread {
		t.PerYear[i] = t.Days * spread[i] / 100
	}
	return t
}
