package workbook

import (
	"archive/zip"
	"bytes"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	qserrors "github.com/sizerlab/quicksizer/pkg/errors"
	"github.com/sizerlab/quicksizer/pkg/sizing"
)

// Sheet names with fixed roles in the workbook.
const (
	templateSheetName = "Scenario Template"
	sizerSheetName    = "Max Engagement Quick Sizer"
)

// Section header rows carry a SUM formula in column E spanning the
// section's service rows.
var (
	sectionRangeRe  = regexp.MustCompile(`^SUM\(E(\d+):E(\d+)\)$`)
	sectionSingleRe = regexp.MustCompile(`^SUM\(E(\d+)\)$`)
	refRe           = regexp.MustCompile(`^([A-Z]+)(\d+)$`)
)

// Import reads an xlsx workbook from disk and builds the sizing catalog.
func Import(filePath string) (*sizing.Catalog, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, qserrors.WorkbookWrap(err, qserrors.ErrWorkbookOpenFailed,
			"failed to open workbook "+filePath)
	}
	defer zr.Close()
	return importReader(&zr.Reader)
}

// ImportBytes builds the sizing catalog from workbook bytes already in
// memory (an HTTP upload).
func ImportBytes(data []byte) (*sizing.Catalog, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, qserrors.WorkbookWrap(err, qserrors.ErrWorkbookOpenFailed,
			"workbook bytes are not a valid archive")
	}
	return importReader(zr)
}

func importReader(zr *zip.Reader) (*sizing.Catalog, error) {
	wf, err := parseFile(zr)
	if err != nil {
		return nil, err
	}

	tpl, ok := wf.sheets[templateSheetName]
	if !ok {
		return nil, qserrors.Workbookf(qserrors.ErrWorkbookSheetMissing,
			"expected sheet %q not found", templateSheetName)
	}

	sections := buildSections(tpl)
	services := buildServices(tpl, sections)

	cat := &sizing.Catalog{
		Sections: sections,
		Services: services,
	}
	for _, name := range wf.order {
		if name == templateSheetName || name == sizerSheetName {
			continue
		}
		cat.Scenarios = append(cat.Scenarios, buildScenario(wf.sheets[name], services))
	}
	return cat, nil
}

// buildSections finds section header rows by their column-E SUM formulas.
func buildSections(tpl *sheet) []sizing.Section {
	var sections []sizing.Section
	for ref, c := range tpl.cells {
		m := refRe.FindStringSubmatch(ref)
		if m == nil || m[1] != "E" || c.formula == "" {
			continue
		}
		headerRow, _ := strconv.Atoi(m[2])

		var start, end int
		if rm := sectionRangeRe.FindStringSubmatch(c.formula); rm != nil {
			start, _ = strconv.Atoi(rm[1])
			end, _ = strconv.Atoi(rm[2])
		} else if sm := sectionSingleRe.FindStringSubmatch(c.formula); sm != nil {
			start, _ = strconv.Atoi(sm[1])
			end = start
		} else {
			continue
		}

		sections = append(sections, sizing.Section{
			Name:      tpl.value(cellRef("B", headerRow)),
			CRMID:     tpl.value(cellRef("C", headerRow)),
			HeaderRow: headerRow,
			StartRow:  start,
			EndRow:    end,
		})
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].HeaderRow < sections[j].HeaderRow })
	return sections
}

// buildServices collects the service rows covered by each section's range.
func buildServices(tpl *sheet, sections []sizing.Section) []sizing.ServiceItem {
	seen := make(map[int]bool)
	var services []sizing.ServiceItem

	for _, sec := range sections {
		for row := sec.StartRow; row <= sec.EndRow; row++ {
			if seen[row] {
				continue
			}
			seen[row] = true

			name := tpl.value(cellRef("B", row))
			crm := tpl.value(cellRef("C", row))
			if name == "" && crm == "" {
				continue
			}

			services = append(services, sizing.ServiceItem{
				Row:           row,
				Section:       sec.Name,
				Name:          name,
				CRMID:         crm,
				DefaultEffort: numericValue(tpl, "D", row),
				Templates:     templatesAt(tpl, row, "H", "I"),
			})
		}
	}
	return services
}

// scenarioLayout returns the custom and details columns of a scenario
// sheet. The extended layout shifts them right to make room for a totals
// block: H1 reads "Totals" and J1 "Custom".
func scenarioLayout(s *sheet) (customCol, detailCol string) {
	if s.value("H1") == "Totals" && s.value("J1") == "Custom" {
		return "J", "K"
	}
	return "H", "I"
}

// buildScenario derives a scenario's overrides and hidden rows by diffing
// the scenario sheet against the template services.
func buildScenario(s *sheet, services []sizing.ServiceItem) sizing.Scenario {
	customCol, detailCol := scenarioLayout(s)

	scen := sizing.Scenario{Name: s.name}
	for row := range s.hiddenRows {
		scen.HiddenRows = append(scen.HiddenRows, row)
	}
	sort.Ints(scen.HiddenRows)

	for _, svc := range services {
		current := sizing.Templates{
			S:       numericValue(s, "E", svc.Row),
			M:       numericValue(s, "F", svc.Row),
			L:       numericValue(s, "G", svc.Row),
			Custom:  numericValue(s, customCol, svc.Row),
			Details: s.value(cellRef(detailCol, svc.Row)),
		}
		if templatesDiffer(current, svc.Templates) {
			scen.Overrides = append(scen.Overrides, sizing.Override{
				Row:         svc.Row,
				ServiceName: svc.Name,
				Changes:     current,
			})
		}
	}
	return scen
}

// templatesDiffer compares a scenario's cell values against the template,
// tolerating numeric formatting noise.
func templatesDiffer(a, b sizing.Templates) bool {
	return !numbersEqual(a.S, b.S) ||
		!numbersEqual(a.M, b.M) ||
		!numbersEqual(a.L, b.L) ||
		!numbersEqual(a.Custom, b.Custom) ||
		normalizeText(a.Details) != normalizeText(b.Details)
}

// numbersEqual compares to six decimal places, the precision the workbook
// stores.
func numbersEqual(a, b float64) bool {
	return math.Abs(a-b) < 5e-7
}

// normalizeText trims whitespace, including the non-breaking spaces the
// workbook uses for visually blank cells.
func normalizeText(s string) string {
	return strings.TrimSpace(s)
}

// numericValue parses the float at a column/row, with 0 for empty or
// non-numeric cells.
func numericValue(s *sheet, col string, row int) float64 {
	raw := normalizeText(s.value(cellRef(col, row)))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// templatesAt reads the template columns of a row from the template sheet.
func templatesAt(s *sheet, row int, customCol, detailCol string) sizing.Templates {
	return sizing.Templates{
		S:       numericValue(s, "E", row),
		M:       numericValue(s, "F", row),
		L:       numericValue(s, "G", row),
		Custom:  numericValue(s, customCol, row),
		Details: s.value(cellRef(detailCol, row)),
	}
}
