package workbook

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	qserrors "github.com/sizerlab/quicksizer/pkg/errors"
	"github.com/sizerlab/quicksizer/pkg/sizing"
)

// -----------------------------------------------------------------------------
// Fixture Builder
// -----------------------------------------------------------------------------

// buildArchive zips a set of parts into xlsx bytes.
func buildArchive(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

const testWorkbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets>
<sheet name="Scenario Template" sheetId="1" r:id="rId1"/>
<sheet name="Max Engagement Quick Sizer" sheetId="2" r:id="rId2"/>
<sheet name="Lean" sheetId="3" r:id="rId3"/>
</sheets>
</workbook>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet2.xml"/>
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet3.xml"/>
</Relationships>`

// Shared strings referenced by index from the sheets below.
const testSharedStringsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="6" uniqueCount="6">
<si><t>Plan</t></si>
<si><t>CRM-PLAN</t></si>
<si><r><t>Disco</t></r><r><t>very</t></r></si>
<si><t>Workshop</t></si>
<si><t>Deliver</t></si>
<si><t>Migration</t></si>
</sst>`

// Template sheet: section "Plan" (header row 2, services rows 3-4) and
// section "Deliver" (header row 6, service row 7).
const testTemplateXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row r="2">
<c r="B2" t="s"><v>0</v></c><c r="C2" t="s"><v>1</v></c>
<c r="E2"><f>SUM(E3:E4)</f><v>3</v></c>
</row>
<row r="3">
<c r="B3" t="s"><v>2</v></c><c r="D3"><v>3</v></c>
<c r="E3"><v>2</v></c><c r="F3"><v>3</v></c><c r="G3"><v>5</v></c>
</row>
<row r="4">
<c r="B4" t="s"><v>3</v></c><c r="D4"><v>1</v></c>
<c r="E4"><v>1</v></c><c r="F4"><v>1</v></c><c r="G4"><v>2</v></c>
</row>
<row r="6">
<c r="B6" t="s"><v>4</v></c>
<c r="E6"><f>SUM(E7)</f><v>5</v></c>
</row>
<row r="7">
<c r="B7" t="s"><v>5</v></c><c r="D7"><v>8</v></c>
<c r="E7"><v>5</v></c><c r="F7"><v>8</v></c><c r="G7"><v>13</v></c>
<c r="I7" t="inlineStr"><is><t>two waves</t></is></c>
</row>
</sheetData>
</worksheet>`

const testSizerXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData/>
</worksheet>`

// Lean scenario: row 4 hidden, migration M overridden to 6. All other
// values mirror the template so no further overrides are derived.
const testLeanXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row r="3">
<c r="E3"><v>2</v></c><c r="F3"><v>3</v></c><c r="G3"><v>5</v></c>
</row>
<row r="4" hidden="1">
<c r="E4"><v>1</v></c><c r="F4"><v>1</v></c><c r="G4"><v>2</v></c>
</row>
<row r="7">
<c r="E7"><v>5</v></c><c r="F7"><v>6</v></c><c r="G7"><v>13</v></c>
<c r="I7" t="inlineStr"><is><t>two waves</t></is></c>
</row>
</sheetData>
</worksheet>`

func testWorkbookBytes(t *testing.T) []byte {
	return buildArchive(t, map[string]string{
		"xl/workbook.xml":            testWorkbookXML,
		"xl/_rels/workbook.xml.rels": testRelsXML,
		"xl/sharedStrings.xml":       testSharedStringsXML,
		"xl/worksheets/sheet1.xml":   testTemplateXML,
		"xl/worksheets/sheet2.xml":   testSizerXML,
		"xl/worksheets/sheet3.xml":   testLeanXML,
	})
}

// -----------------------------------------------------------------------------
// Import Tests
// -----------------------------------------------------------------------------

func TestImportBytes(t *testing.T) {
	cat, err := ImportBytes(testWorkbookBytes(t))
	if err != nil {
		t.Fatalf("ImportBytes: %v", err)
	}

	t.Run("sections from sum formulas", func(t *testing.T) {
		want := []sizing.Section{
			{Name: "Plan", CRMID: "CRM-PLAN", HeaderRow: 2, StartRow: 3, EndRow: 4},
			{Name: "Deliver", HeaderRow: 6, StartRow: 7, EndRow: 7},
		}
		if diff := cmp.Diff(want, cat.Sections); diff != "" {
			t.Errorf("sections mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("services with templates", func(t *testing.T) {
		want := []sizing.ServiceItem{
			{Row: 3, Section: "Plan", Name: "Discovery", DefaultEffort: 3,
				Templates: sizing.Templates{S: 2, M: 3, L: 5}},
			{Row: 4, Section: "Plan", Name: "Workshop", DefaultEffort: 1,
				Templates: sizing.Templates{S: 1, M: 1, L: 2}},
			{Row: 7, Section: "Deliver", Name: "Migration", DefaultEffort: 8,
				Templates: sizing.Templates{S: 5, M: 8, L: 13, Details: "two waves"}},
		}
		if diff := cmp.Diff(want, cat.Services); diff != "" {
			t.Errorf("services mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("scenario sheets become scenarios", func(t *testing.T) {
		if len(cat.Scenarios) != 1 {
			t.Fatalf("scenarios = %d, want 1 (template and sizer sheets excluded)", len(cat.Scenarios))
		}
		scen := cat.Scenarios[0]
		if scen.Name != "Lean" {
			t.Errorf("Name = %q, want Lean", scen.Name)
		}
		if diff := cmp.Diff([]int{4}, scen.HiddenRows); diff != "" {
			t.Errorf("HiddenRows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("overrides derived by diffing", func(t *testing.T) {
		scen := cat.Scenarios[0]
		want := []sizing.Override{
			{Row: 7, ServiceName: "Migration",
				Changes: sizing.Templates{S: 5, M: 6, L: 13, Details: "two waves"}},
		}
		if diff := cmp.Diff(want, scen.Overrides); diff != "" {
			t.Errorf("overrides mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestImportBytesErrors(t *testing.T) {
	t.Run("not an archive", func(t *testing.T) {
		_, err := ImportBytes([]byte("definitely not a zip"))
		if !qserrors.IsCode(err, qserrors.ErrWorkbookOpenFailed) {
			t.Errorf("err = %v, want %s", err, qserrors.ErrWorkbookOpenFailed)
		}
	})

	t.Run("template sheet missing", func(t *testing.T) {
		data := buildArchive(t, map[string]string{
			"xl/workbook.xml": `<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets><sheet name="Lean" r:id="rId1"/></sheets></workbook>`,
			"xl/_rels/workbook.xml.rels": `<Relationships><Relationship Id="rId1" Target="worksheets/sheet1.xml"/></Relationships>`,
			"xl/worksheets/sheet1.xml":   testSizerXML,
		})
		_, err := ImportBytes(data)
		if !qserrors.IsCode(err, qserrors.ErrWorkbookSheetMissing) {
			t.Errorf("err = %v, want %s", err, qserrors.ErrWorkbookSheetMissing)
		}
	})

	t.Run("missing workbook part", func(t *testing.T) {
		data := buildArchive(t, map[string]string{
			"xl/sharedStrings.xml": testSharedStringsXML,
		})
		_, err := ImportBytes(data)
		if !qserrors.IsCode(err, qserrors.ErrWorkbookParseFailed) {
			t.Errorf("err = %v, want %s", err, qserrors.ErrWorkbookParseFailed)
		}
	})

	t.Run("malformed sheet xml", func(t *testing.T) {
		data := buildArchive(t, map[string]string{
			"xl/workbook.xml":            testWorkbookXML,
			"xl/_rels/workbook.xml.rels": testRelsXML,
			"xl/sharedStrings.xml":       testSharedStringsXML,
			"xl/worksheets/sheet1.xml":   "<worksheet><sheetData>",
			"xl/worksheets/sheet2.xml":   testSizerXML,
			"xl/worksheets/sheet3.xml":   testLeanXML,
		})
		_, err := ImportBytes(data)
		if !qserrors.IsCode(err, qserrors.ErrWorkbookParseFailed) {
			t.Errorf("err = %v, want %s", err, qserrors.ErrWorkbookParseFailed)
		}
	})
}

// -----------------------------------------------------------------------------
// Layout Detection Tests
// -----------------------------------------------------------------------------

func TestScenarioLayout(t *testing.T) {
	t.Run("default layout", func(t *testing.T) {
		s := &sheet{cells: map[string]cell{}}
		custom, detail := scenarioLayout(s)
		if custom != "H" || detail != "I" {
			t.Errorf("layout = %s/%s, want H/I", custom, detail)
		}
	})

	t.Run("extended layout with totals block", func(t *testing.T) {
		s := &sheet{cells: map[string]cell{
			"H1": {value: "Totals"},
			"J1": {value: "Custom"},
		}}
		custom, detail := scenarioLayout(s)
		if custom != "J" || detail != "K" {
			t.Errorf("layout = %s/%s, want J/K", custom, detail)
		}
	})
}

func TestNumericValue(t *testing.T) {
	s := &sheet{cells: map[string]cell{
		"A1": {value: "7.5"},
		"A2": {value: "  "},
		"A3": {value: "n/a"},
		// Visually blank workbook cells hold non-breaking spaces.
		"A4": {value: " "},
		"A5": {value: "  6  "},
	}}
	tests := []struct {
		row  int
		want float64
	}{
		{1, 7.5},
		{2, 0},
		{3, 0},
		{4, 0},
		{5, 6},
		{9, 0},
	}
	for _, tt := range tests {
		if got := numericValue(s, "A", tt.row); got != tt.want {
			t.Errorf("numericValue(A%d) = %v, want %v", tt.row, got, tt.want)
		}
	}
}
