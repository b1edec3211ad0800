// QuickSizer - Engagement sizing and report generation
//
// QuickSizer imports a sizing workbook into a service catalog, computes
// engagement effort totals, and exports byte-stable PDF and CSV reports.
// It runs either as a one-shot exporter or as an HTTP server backing the
// sizing web UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sizerlab/quicksizer/pkg/api"
	"github.com/sizerlab/quicksizer/pkg/config"
	qserrors "github.com/sizerlab/quicksizer/pkg/errors"
	"github.com/sizerlab/quicksizer/pkg/report"
	"github.com/sizerlab/quicksizer/pkg/sizing"
	"github.com/sizerlab/quicksizer/pkg/wizard"
	"github.com/sizerlab/quicksizer/pkg/workbook"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "Config file path (default: ./config.yaml)")
	initConfig := flag.Bool("init", false, "Initialize default config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	serve := flag.Bool("serve", false, "Run the HTTP API server")
	workbookPath := flag.String("workbook", "", "Sizing workbook to import (overrides config)")
	plan := flag.String("plan", "", "Plan name for one-shot export")
	customer := flag.String("customer", "", "Customer name for one-shot export")
	opportunity := flag.String("opportunity", "", "Opportunity id for one-shot export")
	scenarios := flag.String("scenarios", "", "Comma-separated scenario selections, e.g. 'Pilot:M,Rollout:L'")
	format := flag.String("format", "", "Export format: pdf, csv, or summary (overrides config)")
	outPath := flag.String("out", "", "Output file for one-shot export")
	flag.Parse()

	if *showVersion {
		fmt.Printf("QuickSizer %s\n", version)
		os.Exit(0)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}

	if *initConfig {
		if err := config.InitConfig(cfgPath); err != nil {
			fail("Failed to initialize config", err)
		}
		fmt.Printf("Config initialized at: %s\n", cfgPath)
		fmt.Println("Edit this file to point at your sizing workbook.")
		os.Exit(0)
	}

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		fail("Failed to load config", err)
	}

	wbPath := *workbookPath
	if wbPath == "" {
		wbPath = cfg.Data.WorkbookPath
	}

	catalog, err := workbook.Import(wbPath)
	if err != nil {
		fail("Failed to import workbook", err)
	}
	fmt.Printf("Catalog: %d sections, %d services, %d scenarios (%s)\n",
		len(catalog.Sections), len(catalog.Services), len(catalog.Scenarios), wbPath)

	if *serve {
		runServer(cfg, catalog, cfgPath, wbPath)
		return
	}

	runExport(cfg, catalog, exportArgs{
		plan:        *plan,
		customer:    *customer,
		opportunity: *opportunity,
		scenarios:   *scenarios,
		format:      *format,
		outPath:     *outPath,
	})
}

// -----------------------------------------------------------------------------
// Server mode
// -----------------------------------------------------------------------------

func runServer(cfg *config.Config, catalog *sizing.Catalog, cfgPath, wbPath string) {
	hub := api.NewHub()
	go hub.Run()

	events := api.NewHubEventBroadcaster(hub)
	exportLog := api.NewExportLog(100)
	sessions := wizard.NewManager()

	server := api.NewServer(&api.ServerConfig{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		CORSOrigins:   cfg.Server.CORSOrigins,
		EnableLogging: cfg.Server.EnableLogging,
	})

	router := server.Router()
	api.NewScenariosHandler(catalog).RegisterRoutes(router)
	api.NewSessionsHandler(sessions, events).RegisterRoutes(router)
	api.NewExportHandler(catalog, sessions, events, exportLog).RegisterRoutes(router)
	api.NewConfigHandler(cfgPath, catalog, sessions, exportLog).RegisterRoutes(router)
	router.GET("/ws", api.NewWebSocketHandler(hub).HandleFunc())

	if err := server.Start(); err != nil {
		fail("Failed to start server", err)
	}
	fmt.Printf("Listening on http://%s\n", server.Address())

	events.BroadcastCatalogStatus(&api.CatalogStatusEvent{
		Source:    wbPath,
		Sections:  len(catalog.Sections),
		Services:  len(catalog.Services),
		Scenarios: len(catalog.Scenarios),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\nShutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
	}
	hub.Stop()
}

// -----------------------------------------------------------------------------
// One-shot export mode
// -----------------------------------------------------------------------------

type exportArgs struct {
	plan        string
	customer    string
	opportunity string
	scenarios   string
	format      string
	outPath     string
}

func runExport(cfg *config.Config, catalog *sizing.Catalog, args exportArgs) {
	selections, err := parseSelections(args.scenarios)
	if err != nil {
		fail("Invalid -scenarios value", err)
	}
	if len(selections) == 0 {
		fmt.Println("Nothing to export: pass -scenarios, or -serve to run the API server.")
		fmt.Println("Available scenarios:")
		for _, name := range catalog.ScenarioNames() {
			fmt.Printf("  %s\n", name)
		}
		os.Exit(0)
	}

	eng := sizing.Engagement{
		Plan:        args.plan,
		Customer:    args.customer,
		Opportunity: args.opportunity,
		Selections:  selections,
	}
	if eng.Plan == "" {
		eng.Plan = "Sizing Report"
	}

	format := args.format
	if format == "" {
		format = cfg.Report.DefaultFormat
	}
	if format == "" {
		format = "pdf"
	}

	rows, meta, totals := catalog.BuildReportRows(eng)

	var data []byte
	var ext string
	switch format {
	case "pdf":
		data, err = report.BuildTabularReport(meta, rows, totals)
		ext = ".pdf"
	case "csv":
		var buf strings.Builder
		csvCfg := report.DefaultCSVConfig()
		csvCfg.Dialect = report.CSVDialect(cfg.Report.CSVDialect)
		if cfg.Report.CSVDialect == "" {
			csvCfg.Dialect = report.DialectStandard
		}
		err = report.WriteReportCSV(&buf, rows, totals, csvCfg)
		data = []byte(buf.String())
		ext = ".csv"
	case "summary":
		data, err = report.BuildPlainReport(eng.Plan, summaryLines(catalog, eng))
		ext = ".pdf"
	default:
		fail("Unknown format", qserrors.Validationf("format %q, must be pdf, csv, or summary", format))
	}
	if err != nil {
		fail("Export failed", err)
	}

	out := args.outPath
	if out == "" {
		name := strings.ReplaceAll(strings.ToLower(eng.Plan), " ", "-")
		out = filepath.Join(cfg.Report.OutputDir, name+ext)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fail("Failed to create output directory", err)
		}
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		fail("Failed to write export",
			qserrors.ExportWrap(err, qserrors.ErrExportWriteFailed, "could not write output file"))
	}

	fmt.Printf("Exported %s (%d bytes, %d rows) to %s\n", format, len(data), len(rows), out)
}

// parseSelections parses "Name:Size" pairs separated by commas. The size is
// optional and defaults to M.
func parseSelections(s string) ([]sizing.Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	selections := make([]sizing.Selection, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name := part
		size := sizing.SizeM
		if idx := strings.LastIndex(part, ":"); idx >= 0 {
			name = strings.TrimSpace(part[:idx])
			size = sizing.ParseSizeLabel(part[idx+1:])
		}
		if name == "" {
			return nil, qserrors.Validationf("selection %q has no scenario name", part)
		}
		selections = append(selections, sizing.Selection{Scenario: name, Size: size})
	}
	return selections, nil
}

// summaryLines flattens an engagement into the plain report's line list.
func summaryLines(catalog *sizing.Catalog, eng sizing.Engagement) []string {
	totals := catalog.ComputeTotals(eng)

	lines := make([]string, 0, len(eng.Selections)+6)
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
		if scen, ok := catalog.Scenario(sel.Scenario); ok {
			name = scen.Name
			days = totals.ByChoice[scen.Name]
		}
		lines = append(lines, fmt.Sprintf("%s (%s): %s days", name, sel.Size, report.FormatDays(days)))
	}
	lines = append(lines, "", fmt.Sprintf("Total: %s days", report.FormatDays(totals.Days)))
	return lines
}

// fail prints an error, with suggestions when available, and exits.
func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	if se, ok := qserrors.AsSizerError(err); ok {
		for _, s := range se.Suggestions {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", s)
		}
	}
	os.Exit(1)
}
