package sizing

import (
	"fmt"

	"github.com/sizerlab/quicksizer/pkg/report"
)

// BuildReportRows converts an engagement into the DTOs the report engine
// consumes: one source row per selection with expanded service details, the
// document metadata, and the grand totals. Selections referencing unknown
// scenarios degrade to a summary-only row instead of failing; report
// generation must not abort on sparse data.
func (c *Catalog) BuildReportRows(eng Engagement) ([]report.SourceRow, report.ReportMeta, report.ReportTotals) {
	rows := make([]report.SourceRow, 0, len(eng.Selections))

	for i, sel := range eng.Selections {
		row := report.SourceRow{
			Number:    i + 1,
			Scenario:  sel.Scenario,
			SizeLabel: string(sel.Size),
		}

		scen, ok := c.Scenario(sel.Scenario)
		if !ok {
			row.Summary = fmt.Sprintf("Scenario %q is not in the catalog", sel.Scenario)
			rows = append(rows, row)
			continue
		}
		row.Scenario = scen.Name

		for _, svc := range c.VisibleServices(scen) {
			row.Services = append(row.Services, report.ServiceDetail{
				Name:    svc.Name,
				Section: svc.Section,
				Days:    sanitize(c.EffortFor(scen, svc, sel.Size)),
			})
		}
		if len(row.Services) == 0 {
			row.Summary = "All services hidden in this scenario"
		}
		rows = append(rows, row)
	}

	totals := c.ComputeTotals(eng)

	meta := report.ReportMeta{
		Plan:        eng.Plan,
		Customer:    eng.Customer,
		Opportunity: eng.Opportunity,
		YearSpread:  NormalizeSpread(eng.Spread),
	}
	return rows, meta, report.ReportTotals{Days: totals.Days, YearDays: totals.PerYear}
}
