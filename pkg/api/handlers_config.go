// Package api provides the HTTP/WebSocket server for the sizing UI.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/sizerlab/quicksizer/pkg/config"
	"github.com/sizerlab/quicksizer/pkg/sizing"
	"github.com/sizerlab/quicksizer/pkg/wizard"
)

// ConfigHandler serves the effective configuration and overall server status.
type ConfigHandler struct {
	configPath string
	catalog    *sizing.Catalog
	sessions   *wizard.Manager
	exportLog  *ExportLog
	startedAt  time.Time

	// mu protects concurrent access to the configuration file
	mu sync.RWMutex
}

// NewConfigHandler creates a new ConfigHandler with the given config file path.
// The catalog, session manager, and export log are optional and only feed
// the status endpoint.
func NewConfigHandler(configPath string, catalog *sizing.Catalog, sessions *wizard.Manager, exportLog *ExportLog) *ConfigHandler {
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	return &ConfigHandler{
		configPath: configPath,
		catalog:    catalog,
		sessions:   sessions,
		exportLog:  exportLog,
		startedAt:  time.Now().UTC(),
	}
}

// ConfigPath returns the current configuration file path.
func (h *ConfigHandler) ConfigPath() string {
	return h.configPath
}

// RegisterRoutes registers the configuration API routes on the router.
func (h *ConfigHandler) RegisterRoutes(router *Router) {
	router.GET("/api/config", h.GetConfig)
	router.PUT("/api/config", h.PutConfig)
	router.GET("/api/status", h.GetStatus)
}

// -----------------------------------------------------------------------------
// API Response Types
// -----------------------------------------------------------------------------

// ConfigResponse is the JSON response for configuration endpoints.
// It wraps config.Config with proper JSON tags for camelCase serialization.
type ConfigResponse struct {
	Server ServerSettingsResponse `json:"server"`
	Report ReportSettingsResponse `json:"report"`
	Data   DataSettingsResponse   `json:"data"`
}

// ServerSettingsResponse is the JSON representation of server settings.
type ServerSettingsResponse struct {
	Host          string   `json:"host"`
	Port          int      `json:"port"`
	CORSOrigins   []string `json:"corsOrigins,omitempty"`
	EnableLogging bool     `json:"enableLogging"`
}

// ReportSettingsResponse is the JSON representation of export settings.
type ReportSettingsResponse struct {
	OutputDir     string `json:"outputDir"`
	DefaultFormat string `json:"defaultFormat"`
	CSVDialect    string `json:"csvDialect"`
}

// DataSettingsResponse is the JSON representation of data settings.
type DataSettingsResponse struct {
	WorkbookPath string `json:"workbookPath"`
}

// StatusResponse is the JSON response for GET /api/status.
type StatusResponse struct {
	Uptime    string            `json:"uptime"`
	StartedAt string            `json:"startedAt"`
	Catalog   *CatalogResponse  `json:"catalog,omitempty"`
	Sessions  int               `json:"sessions"`
	Exports   *ExportLogSummary `json:"exports,omitempty"`
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// GetConfig handles GET /api/config.
// It returns the effective configuration from disk, or defaults.
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	cfg, err := config.LoadOrDefault(h.configPath)
	if err != nil {
		WriteSizerError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, configToResponse(cfg))
}

// PutConfig handles PUT /api/config.
// It validates and persists the supplied configuration.
func (h *ConfigHandler) PutConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigResponse
	if err := ReadJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json",
			"Failed to parse request body: "+err.Error())
		return
	}

	cfg := responseToConfig(&req)
	if err := cfg.Validate(); err != nil {
		WriteSizerError(w, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := cfg.Save(h.configPath); err != nil {
		WriteSizerError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, configToResponse(cfg))
}

// GetStatus handles GET /api/status.
// It reports uptime, the loaded catalog, and export activity.
func (h *ConfigHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := StatusResponse{
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		StartedAt: h.startedAt.Format(time.RFC3339),
	}

	if h.catalog != nil {
		perSection := make(map[string]int)
		for _, svc := range h.catalog.Services {
			perSection[svc.Section]++
		}
		sections := make([]SectionInfo, 0, len(h.catalog.Sections))
		for _, sec := range h.catalog.Sections {
			sections = append(sections, SectionInfo{
				Name:     sec.Name,
				CRMID:    sec.CRMID,
				Services: perSection[sec.Name],
			})
		}
		status.Catalog = &CatalogResponse{
			Sections:  sections,
			Scenarios: h.catalog.ScenarioNames(),
			Services:  len(h.catalog.Services),
		}
	}

	if h.sessions != nil {
		status.Sessions = len(h.sessions.List())
	}
	if h.exportLog != nil {
		status.Exports = h.exportLog.Summary()
	}

	WriteJSON(w, http.StatusOK, status)
}

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// configToResponse converts config.Config to the API representation.
func configToResponse(cfg *config.Config) *ConfigResponse {
	return &ConfigResponse{
		Server: ServerSettingsResponse{
			Host:          cfg.Server.Host,
			Port:          cfg.Server.Port,
			CORSOrigins:   cfg.Server.CORSOrigins,
			EnableLogging: cfg.Server.EnableLogging,
		},
		Report: ReportSettingsResponse{
			OutputDir:     cfg.Report.OutputDir,
			DefaultFormat: cfg.Report.DefaultFormat,
			CSVDialect:    cfg.Report.CSVDialect,
		},
		Data: DataSettingsResponse{
			WorkbookPath: cfg.Data.WorkbookPath,
		},
	}
}

// responseToConfig converts the API representation back to config.Config.
func responseToConfig(req *ConfigResponse) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:          req.Server.Host,
			Port:          req.Server.Port,
			CORSOrigins:   req.Server.CORSOrigins,
			EnableLogging: req.Server.EnableLogging,
		},
		Report: config.ReportConfig{
			OutputDir:     req.Report.OutputDir,
			DefaultFormat: req.Report.DefaultFormat,
			CSVDialect:    req.Report.CSVDialect,
		},
		Data: config.DataConfig{
			WorkbookPath: req.Data.WorkbookPath,
		},
	}
}
