// Package sizing holds the engagement sizing domain model: the service
// catalog imported from the sizing workbook, its scenarios with per-service
// effort templates and overrides, and the selection/totals logic that feeds
// the report exports.
package sizing

import (
	"sort"
	"strings"
)

// SizeLabel identifies an effort template column.
type SizeLabel string

const (
	SizeS      SizeLabel = "S"
	SizeM      SizeLabel = "M"
	SizeL      SizeLabel = "L"
	SizeCustom SizeLabel = "Custom"
)

// ParseSizeLabel normalizes a user-supplied size label. Unknown labels fall
// back to SizeM, the workbook's default sizing.
func ParseSizeLabel(s string) SizeLabel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "S", "SMALL":
		return SizeS
	case "L", "LARGE":
		return SizeL
	case "CUSTOM":
		return SizeCustom
	default:
		return SizeM
	}
}

// Section is a block of service rows in the catalog sheet, identified by a
// header row whose totals formula spans the block.
type Section struct {
	Name      string `json:"name" yaml:"name"`
	CRMID     string `json:"crm_id" yaml:"crm_id"`
	HeaderRow int    `json:"header_row" yaml:"header_row"`
	StartRow  int    `json:"start_row" yaml:"start_row"`
	EndRow    int    `json:"end_row" yaml:"end_row"`
}

// Templates holds the per-size effort values (in days) for one service.
type Templates struct {
	S       float64 `json:"s" yaml:"s"`
	M       float64 `json:"m" yaml:"m"`
	L       float64 `json:"l" yaml:"l"`
	Custom  float64 `json:"custom" yaml:"custom"`
	Details string  `json:"details,omitempty" yaml:"details,omitempty"`
}

// For returns the template value for a size label.
func (t Templates) For(size SizeLabel) float64 {
	switch size {
	case SizeS:
		return t.S
	case SizeL:
		return t.L
	case SizeCustom:
		return t.Custom
	default:
		return t.M
	}
}

// ServiceItem is one service row in the catalog.
type ServiceItem struct {
	Row           int       `json:"row" yaml:"row"`
	Section       string    `json:"section" yaml:"section"`
	Name          string    `json:"name" yaml:"name"`
	CRMID         string    `json:"crm_id" yaml:"crm_id"`
	DefaultEffort float64   `json:"default_effort" yaml:"default_effort"`
	Templates     Templates `json:"templates" yaml:"templates"`
}

// Override is a per-scenario deviation from a service's template values.
type Override struct {
	Row         int       `json:"row" yaml:"row"`
	ServiceName string    `json:"service_name" yaml:"service_name"`
	Changes     Templates `json:"changes" yaml:"changes"`
}

// Scenario is one scenario sheet: a named variant of the catalog with
// overrides and hidden (deselected) rows.
type Scenario struct {
	Name       string     `json:"name" yaml:"name"`
	Overrides  []Override `json:"overrides,omitempty" yaml:"overrides,omitempty"`
	HiddenRows []int      `json:"hidden_rows,omitempty" yaml:"hidden_rows,omitempty"`
}

// Catalog is the full imported domain model.
type Catalog struct {
	Sections  []Section     `json:"sections" yaml:"sections"`
	Services  []ServiceItem `json:"services" yaml:"services"`
	Scenarios []Scenario    `json:"scenarios" yaml:"scenarios"`
}

// Scenario returns the named scenario, matching case-insensitively.
func (c *Catalog) Scenario(name string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if strings.EqualFold(c.Scenarios[i].Name, name) {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// ScenarioNames returns the scenario names in sheet order.
func (c *Catalog) ScenarioNames() []string {
	names := make([]string, len(c.Scenarios))
	for i, s := range c.Scenarios {
		names[i] = s.Name
	}
	return names
}

// hiddenSet returns the scenario's hidden rows as a set.
func (s *Scenario) hiddenSet() map[int]bool {
	set := make(map[int]bool, len(s.HiddenRows))
	for _, r := range s.HiddenRows {
		set[r] = true
	}
	return set
}

// overrideFor returns the override for a service row, if any.
func (s *Scenario) overrideFor(row int) (*Override, bool) {
	for i := range s.Overrides {
		if s.Overrides[i].Row == row {
			return &s.Overrides[i], true
		}
	}
	return nil, false
}

// VisibleServices returns the catalog services that are not hidden in the
// scenario, in catalog row order.
func (c *Catalog) VisibleServices(s *Scenario) []ServiceItem {
	hidden := s.hiddenSet()
	out := make([]ServiceItem, 0, len(c.Services))
	for _, svc := range c.Services {
		if hidden[svc.Row] {
			continue
		}
		out = append(out, svc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}

// EffortFor resolves the effort in days for one service at a size under a
// scenario: the scenario override wins over the template, and a zero value
// falls back to the service's default effort so sparse workbook data never
// zeroes out a selected row.
func (c *Catalog) EffortFor(s *Scenario, svc ServiceItem, size SizeLabel) float64 {
	tpl := svc.Templates
	if ov, ok := s.overrideFor(svc.Row); ok {
		tpl = ov.Changes
	}
	v := tpl.For(size)
	if v == 0 {
		v = svc.DefaultEffort
	}
	return v
}
