// Package api provides the HTTP/WebSocket server for the sizing UI.
package api

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	qserrors "github.com/sizerlab/quicksizer/pkg/errors"
	"github.com/sizerlab/quicksizer/pkg/report"
	"github.com/sizerlab/quicksizer/pkg/sizing"
	"github.com/sizerlab/quicksizer/pkg/wizard"
)

// ExportHandler handles export-related API requests.
type ExportHandler struct {
	catalog  *sizing.Catalog
	sessions *wizard.Manager
	events   EventBroadcaster
	log      *ExportLog
}

// NewExportHandler creates a new ExportHandler.
// The events broadcaster and log may be nil; exports then run silently.
func NewExportHandler(catalog *sizing.Catalog, sessions *wizard.Manager, events EventBroadcaster, log *ExportLog) *ExportHandler {
	return &ExportHandler{
		catalog:  catalog,
		sessions: sessions,
		events:   events,
		log:      log,
	}
}

// RegisterRoutes registers the export API routes on the router.
func (h *ExportHandler) RegisterRoutes(router *Router) {
	router.POST("/api/export/pdf", h.ExportPDF)
	router.POST("/api/export/csv", h.ExportCSV)
	router.POST("/api/export/summary", h.ExportSummary)
	router.GET("/api/export/log", h.ExportLog)
}

// -----------------------------------------------------------------------------
// API Request Types
// -----------------------------------------------------------------------------

// ExportRequest is the request body for export endpoints. Exactly one of
// SessionID or Engagement must be provided: a session export pulls the
// engagement collected by the wizard, an inline export sizes ad hoc.
type ExportRequest struct {
	// SessionID selects a wizard session to export.
	SessionID string `json:"sessionId,omitempty"`

	// Engagement is an inline engagement to export without a session.
	Engagement *sizing.Engagement `json:"engagement,omitempty"`

	// Options are format-specific export options.
	Options ExportOptions `json:"options,omitempty"`
}

// ExportOptions contains format-specific export options.
type ExportOptions struct {
	// CSV options
	Dialect       string `json:"dialect,omitempty"` // "standard", "excel", "tsv"
	IncludeHeader *bool  `json:"includeHeader,omitempty"`
	IncludeTotals *bool  `json:"includeTotals,omitempty"`
	NAString      string `json:"naString,omitempty"`

	// Filename overrides the derived download filename (without extension).
	Filename string `json:"filename,omitempty"`
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// ExportPDF handles POST /api/export/pdf.
// It generates the tabular PDF report and streams the bytes directly.
func (h *ExportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	req, eng, ok := h.resolveEngagement(w, r)
	if !ok {
		return
	}

	h.broadcastExport(EventTypeExportStarted, &ExportEvent{
		SessionID: req.SessionID,
		Format:    "pdf",
		Plan:      eng.Plan,
	})

	rows, meta, totals := h.catalog.BuildReportRows(*eng)

	data, err := report.BuildTabularReport(meta, rows, totals)
	if err != nil {
		WriteSizerError(w, err)
		return
	}

	filename := exportFilename(req.Options.Filename, eng.Plan, "sizing-report", ".pdf")
	h.finishExport(req.SessionID, "pdf", filename, len(data), len(rows), eng.Plan)

	writeAttachment(w, data, filename, "application/pdf")
}

// ExportCSV handles POST /api/export/csv.
// It generates the flattened engagement rows as CSV.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	req, eng, ok := h.resolveEngagement(w, r)
	if !ok {
		return
	}

	h.broadcastExport(EventTypeExportStarted, &ExportEvent{
		SessionID: req.SessionID,
		Format:    "csv",
		Plan:      eng.Plan,
	})

	rows, _, totals := h.catalog.BuildReportRows(*eng)

	var buf bytes.Buffer
	if err := report.WriteReportCSV(&buf, rows, totals, buildCSVConfig(&req.Options)); err != nil {
		WriteSizerError(w, err)
		return
	}
	data := buf.Bytes()

	filename := exportFilename(req.Options.Filename, eng.Plan, "sizing-report", ".csv")
	h.finishExport(req.SessionID, "csv", filename, len(data), len(rows), eng.Plan)

	writeAttachment(w, data, filename, "text/csv; charset=utf-8")
}

// ExportSummary handles POST /api/export/summary.
// It generates a one-column plain PDF summarizing the engagement totals.
func (h *ExportHandler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	req, eng, ok := h.resolveEngagement(w, r)
	if !ok {
		return
	}

	h.broadcastExport(EventTypeExportStarted, &ExportEvent{
		SessionID: req.SessionID,
		Format:    "summary",
		Plan:      eng.Plan,
	})

	title, lines := summaryLines(h.catalog, *eng)

	data, err := report.BuildPlainReport(title, lines)
	if err != nil {
		WriteSizerError(w, err)
		return
	}

	filename := exportFilename(req.Options.Filename, eng.Plan, "sizing-summary", ".pdf")
	h.finishExport(req.SessionID, "summary", filename, len(data), len(lines), eng.Plan)

	writeAttachment(w, data, filename, "application/pdf")
}

// ExportLog handles GET /api/export/log.
// It returns the recent export history with aggregate statistics.
func (h *ExportHandler) ExportLog(w http.ResponseWriter, r *http.Request) {
	if h.log == nil {
		WriteJSON(w, http.StatusOK, map[string]any{
			"exports": []ExportEvent{},
			"summary": &ExportLogSummary{ByFormat: map[string]int{}},
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"exports": h.log.Recent(),
		"summary": h.log.Summary(),
	})
}

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// resolveEngagement parses the export request and resolves the engagement
// from either the named session or the inline payload. On failure it writes
// the error response and returns ok=false.
func (h *ExportHandler) resolveEngagement(w http.ResponseWriter, r *http.Request) (*ExportRequest, *sizing.Engagement, bool) {
	var req ExportRequest
	if err := ReadJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json",
			"Failed to parse request body: "+err.Error())
		return nil, nil, false
	}

	if req.SessionID != "" {
		if h.sessions == nil {
			WriteError(w, http.StatusServiceUnavailable, "no_sessions",
				"Session manager is not available")
			return nil, nil, false
		}
		session, err := h.sessions.Get(req.SessionID)
		if err != nil {
			WriteSizerError(w, err)
			return nil, nil, false
		}
		if session.Step != wizard.StepExport && session.Step != wizard.StepDone {
			WriteSizerError(w, qserrors.Sessionf(qserrors.ErrSessionIncomplete,
				"session %s has not reached the export step", req.SessionID))
			return nil, nil, false
		}
		eng := session.Engagement
		return &req, &eng, true
	}

	if req.Engagement == nil {
		WriteError(w, http.StatusBadRequest, "no_data",
			"Either sessionId or engagement must be provided")
		return nil, nil, false
	}
	return &req, req.Engagement, true
}

// finishExport records the completed export and notifies subscribers.
func (h *ExportHandler) finishExport(sessionID, format, filename string, size, rows int, plan string) {
	event := NewExportEvent(sessionID, format, filename)
	event.Bytes = size
	event.Rows = rows
	event.Plan = plan

	if h.log != nil {
		h.log.Add(*event)
	}
	h.broadcastExport(EventTypeExportFinished, event)
}

// broadcastExport sends an export event if a broadcaster is wired.
func (h *ExportHandler) broadcastExport(eventType string, event *ExportEvent) {
	if h.events == nil {
		return
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	h.events.BroadcastExportEvent(eventType, event)
}

// writeAttachment streams generated bytes as a file download.
func writeAttachment(w http.ResponseWriter, data []byte, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// exportFilename derives the download filename. Explicit names win, then
// the plan name, then the fallback. The result is restricted to filesystem
// and header safe characters.
func exportFilename(explicit, plan, fallback, ext string) string {
	name := explicit
	if name == "" {
		name = plan
	}
	name = sanitizeFilename(name)
	if name == "" {
		name = fallback
	}
	return name + ext
}

// sanitizeFilename keeps letters, digits, dots, underscores and hyphens;
// spaces become hyphens and everything else is dropped.
func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), ".-")
}

// buildCSVConfig builds a report.CSVConfig from export options.
func buildCSVConfig(opts *ExportOptions) *report.CSVConfig {
	config := report.DefaultCSVConfig()

	switch opts.Dialect {
	case "excel":
		config.Dialect = report.DialectExcel
	case "tsv":
		config.Dialect = report.DialectTSV
	case "", "standard":
		config.Dialect = report.DialectStandard
	}
	if opts.IncludeHeader != nil {
		config.IncludeHeader = *opts.IncludeHeader
	}
	if opts.IncludeTotals != nil {
		config.IncludeTotals = *opts.IncludeTotals
	}
	config.NAString = opts.NAString

	return config
}

// summaryLines flattens an engagement into the plain report's line list.
func summaryLines(catalog *sizing.Catalog, eng sizing.Engagement) (string, []string) {
	title := eng.Plan
	if title == "" {
		title = "Sizing Summary"
	}

	totals := catalog.ComputeTotals(eng)

	lines := make([]string, 0, len(eng.Selections)+8)
	if eng.Customer != "" {
		lines = append(lines, "Customer: "+eng.Customer)
	}
	if eng.Opportunity != "" {
		lines = append(lines, "Opportunity: "+eng.Opportunity)
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}

	for _, sel := range eng.Selections {
		name := sel.Scenario
		var days float64
		// Unknown scenarios still appear, at zero, so the reader sees the gap.
		if scen, ok := catalog.Scenario(sel.Scenario); ok {
			name = scen.Name
			days = totals.ByChoice[scen.Name]
		}
		lines = append(lines, formatSummaryRow(name, string(sel.Size), days))
	}

	lines = append(lines, "")
	lines = append(lines, formatSummaryRow("Total", "", totals.Days))

	return title, lines
}

// formatSummaryRow renders one summary line as "name (size): days d".
func formatSummaryRow(name, size string, days float64) string {
	var b strings.Builder
	b.WriteString(name)
	if size != "" {
		b.WriteString(" (")
		b.WriteString(size)
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(report.FormatDays(days))
	b.WriteString(" days")
	return b.String()
}
