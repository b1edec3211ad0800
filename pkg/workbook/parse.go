// Package workbook imports the sizing workbook (.xlsx) into the domain
// catalog. Only the stdlib zip and xml packages are used: the workbook
// format is Open Packaging XML in a zip archive, and the importer reads a
// small, fixed subset of it (shared strings, sheet relationships, cell
// values, formulas, hidden rows).
package workbook

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	qserrors "github.com/sizerlab/quicksizer/pkg/errors"
)

// -----------------------------------------------------------------------------
// XML Shapes
// -----------------------------------------------------------------------------

type xlsxSST struct {
	SI []xlsxSI `xml:"si"`
}

type xlsxSI struct {
	T *string `xml:"t"`
	R []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

// text joins the plain or rich-run text of a shared string item.
func (si xlsxSI) text() string {
	if si.T != nil {
		return *si.T
	}
	var sb strings.Builder
	for _, r := range si.R {
		sb.WriteString(r.T)
	}
	return sb.String()
}

type xlsxWorkbook struct {
	Sheets []struct {
		Name string `xml:"name,attr"`
		RID  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
}

type xlsxRels struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type xlsxWorksheet struct {
	Rows []xlsxRow `xml:"sheetData>row"`
}

type xlsxRow struct {
	R      int        `xml:"r,attr"`
	Hidden string     `xml:"hidden,attr"`
	Cells  []xlsxCell `xml:"c"`
}

type xlsxCell struct {
	Ref     string  `xml:"r,attr"`
	Type    string  `xml:"t,attr"`
	Value   *string `xml:"v"`
	Formula *string `xml:"f"`
	Inline  *struct {
		T string `xml:"t"`
	} `xml:"is"`
}

// -----------------------------------------------------------------------------
// Parsed Model
// -----------------------------------------------------------------------------

// cell is a decoded worksheet cell.
type cell struct {
	value   string // decoded display value ("" if none)
	formula string // formula text without leading '=' ("" if none)
}

// sheet is one parsed worksheet.
type sheet struct {
	name       string
	cells      map[string]cell // keyed by A1-style reference
	hiddenRows map[int]bool
}

// value returns the decoded value at a reference, or "".
func (s *sheet) value(ref string) string {
	return s.cells[ref].value
}

// formulaAt returns the formula at a reference, or "".
func (s *sheet) formulaAt(ref string) string {
	return s.cells[ref].formula
}

// file is the fully parsed workbook: sheets in workbook order.
type file struct {
	order  []string
	sheets map[string]*sheet
}

// -----------------------------------------------------------------------------
// Parsing
// -----------------------------------------------------------------------------

// parseFile reads and decodes every worksheet of an xlsx archive.
func parseFile(zr *zip.Reader) (*file, error) {
	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	shared, err := parseSharedStrings(parts)
	if err != nil {
		return nil, err
	}

	var wb xlsxWorkbook
	if err := decodePart(parts, "xl/workbook.xml", &wb); err != nil {
		return nil, err
	}
	var rels xlsxRels
	if err := decodePart(parts, "xl/_rels/workbook.xml.rels", &rels); err != nil {
		return nil, err
	}
	relMap := make(map[string]string, len(rels.Relationships))
	for _, r := range rels.Relationships {
		relMap[r.ID] = normalizeTarget(r.Target)
	}

	wf := &file{sheets: make(map[string]*sheet, len(wb.Sheets))}
	for _, s := range wb.Sheets {
		target, ok := relMap[s.RID]
		if !ok {
			continue
		}
		ws, err := parseSheet(parts, s.Name, target, shared)
		if err != nil {
			return nil, err
		}
		wf.order = append(wf.order, s.Name)
		wf.sheets[s.Name] = ws
	}
	return wf, nil
}

// parseSharedStrings decodes xl/sharedStrings.xml if present.
func parseSharedStrings(parts map[string]*zip.File) ([]string, error) {
	if _, ok := parts["xl/sharedStrings.xml"]; !ok {
		return nil, nil
	}
	var sst xlsxSST
	if err := decodePart(parts, "xl/sharedStrings.xml", &sst); err != nil {
		return nil, err
	}
	out := make([]string, len(sst.SI))
	for i, si := range sst.SI {
		out[i] = si.text()
	}
	return out, nil
}

// parseSheet decodes one worksheet part into a sheet.
func parseSheet(parts map[string]*zip.File, name, target string, shared []string) (*sheet, error) {
	var ws xlsxWorksheet
	if err := decodePart(parts, target, &ws); err != nil {
		return nil, err
	}

	s := &sheet{
		name:       name,
		cells:      make(map[string]cell),
		hiddenRows: make(map[int]bool),
	}
	for _, row := range ws.Rows {
		if row.Hidden == "1" || row.Hidden == "true" {
			s.hiddenRows[row.R] = true
		}
		for _, c := range row.Cells {
			if c.Ref == "" {
				continue
			}
			s.cells[c.Ref] = decodeCell(c, shared)
		}
	}
	return s, nil
}

// decodeCell resolves a cell's display value per its type attribute.
func decodeCell(c xlsxCell, shared []string) cell {
	out := cell{}
	if c.Formula != nil {
		out.formula = strings.TrimPrefix(*c.Formula, "=")
	}

	switch c.Type {
	case "s":
		if c.Value != nil {
			if idx, err := strconv.Atoi(*c.Value); err == nil && idx >= 0 && idx < len(shared) {
				out.value = shared[idx]
			} else {
				out.value = *c.Value
			}
		}
	case "inlineStr":
		if c.Inline != nil {
			out.value = c.Inline.T
		}
	case "b":
		if c.Value != nil {
			if *c.Value == "1" {
				out.value = "TRUE"
			} else {
				out.value = "FALSE"
			}
		}
	default:
		if c.Value != nil {
			out.value = *c.Value
		}
	}
	return out
}

// decodePart xml-decodes one archive part into dst.
func decodePart(parts map[string]*zip.File, name string, dst interface{}) error {
	f, ok := parts[name]
	if !ok {
		return qserrors.Workbookf(qserrors.ErrWorkbookParseFailed, "workbook part %s is missing", name)
	}
	rc, err := f.Open()
	if err != nil {
		return qserrors.WorkbookWrap(err, qserrors.ErrWorkbookParseFailed,
			fmt.Sprintf("failed to open workbook part %s", name))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return qserrors.WorkbookWrap(err, qserrors.ErrWorkbookParseFailed,
			fmt.Sprintf("failed to read workbook part %s", name))
	}
	if err := xml.Unmarshal(data, dst); err != nil {
		return qserrors.WorkbookWrap(err, qserrors.ErrWorkbookParseFailed,
			fmt.Sprintf("failed to parse workbook part %s", name))
	}
	return nil
}

// normalizeTarget resolves a relationship target to a zip part path.
func normalizeTarget(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return path.Join("xl", strings.ReplaceAll(target, "../", ""))
}

// cellRef builds an A1-style reference.
func cellRef(col string, row int) string {
	return col + strconv.Itoa(row)
}
