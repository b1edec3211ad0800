// Package api provides the HTTP/WebSocket server for the sizing UI.
package api

import (
	"net/http"
	"strings"

	"github.com/sizerlab/quicksizer/pkg/sizing"
)

// ScenariosHandler serves read-only views of the service catalog and the
// sizing computations built on it.
type ScenariosHandler struct {
	catalog *sizing.Catalog
}

// NewScenariosHandler creates a new ScenariosHandler.
func NewScenariosHandler(catalog *sizing.Catalog) *ScenariosHandler {
	return &ScenariosHandler{catalog: catalog}
}

// RegisterRoutes registers the catalog API routes on the router.
func (h *ScenariosHandler) RegisterRoutes(router *Router) {
	router.GET("/api/catalog", h.GetCatalog)
	router.GET("/api/scenarios", h.ListScenarios)
	router.GET("/api/scenarios/:name", h.GetScenario)
	router.POST("/api/scenarios/:name/fit", h.FitScenario)
	router.POST("/api/totals", h.ComputeTotals)
}

// -----------------------------------------------------------------------------
// API Response Types
// -----------------------------------------------------------------------------

// CatalogResponse is the JSON response for GET /api/catalog.
type CatalogResponse struct {
	Sections  []SectionInfo `json:"sections"`
	Scenarios []string      `json:"scenarios"`
	Services  int           `json:"services"`
}

// SectionInfo describes one catalog section.
type SectionInfo struct {
	Name     string `json:"name"`
	CRMID    string `json:"crmId,omitempty"`
	Services int    `json:"services"`
}

// ScenarioListResponse is the JSON response for GET /api/scenarios.
type ScenarioListResponse struct {
	Scenarios []ScenarioInfo `json:"scenarios"`
	Total     int            `json:"total"`
}

// ScenarioInfo summarizes one scenario with its per-size effort totals.
type ScenarioInfo struct {
	Name     string             `json:"name"`
	Services int                `json:"services"`
	Hidden   int                `json:"hidden"`
	Days     map[string]float64 `json:"days"` // size label -> total days
}

// ScenarioDetailResponse is the JSON response for GET /api/scenarios/:name.
type ScenarioDetailResponse struct {
	Name     string        `json:"name"`
	Services []ServiceInfo `json:"services"`
	Days     map[string]float64 `json:"days"`
}

// ServiceInfo describes one visible service within a scenario.
type ServiceInfo struct {
	Name          string             `json:"name"`
	Section       string             `json:"section"`
	CRMID         string             `json:"crmId,omitempty"`
	DefaultEffort float64            `json:"defaultEffort"`
	Effort        map[string]float64 `json:"effort"` // size label -> days
}

// FitRequest is the request body for POST /api/scenarios/:name/fit.
type FitRequest struct {
	Size       string  `json:"size"`
	BudgetDays float64 `json:"budgetDays"`
}

// FitResponse is the JSON response for a budget fit.
type FitResponse struct {
	Scenario string        `json:"scenario"`
	Size     string        `json:"size"`
	Budget   float64       `json:"budget"`
	Days     float64       `json:"days"`
	Selected []ServiceInfo `json:"selected"`
	Dropped  []ServiceInfo `json:"dropped"`
}

// TotalsRequest is the request body for POST /api/totals.
type TotalsRequest struct {
	Engagement sizing.Engagement `json:"engagement"`
}

// TotalsResponse is the JSON response for computed engagement totals.
type TotalsResponse struct {
	Days     float64            `json:"days"`
	PerYear  []float64          `json:"perYear"`
	ByChoice map[string]float64 `json:"byChoice"`
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// GetCatalog handles GET /api/catalog.
// It returns the section layout and scenario names of the loaded catalog.
func (h *ScenariosHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		WriteError(w, http.StatusServiceUnavailable, "no_catalog",
			"No service catalog is loaded")
		return
	}

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

	WriteJSON(w, http.StatusOK, CatalogResponse{
		Sections:  sections,
		Scenarios: h.catalog.ScenarioNames(),
		Services:  len(h.catalog.Services),
	})
}

// ListScenarios handles GET /api/scenarios.
// It returns each scenario with its per-size effort totals.
func (h *ScenariosHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		WriteError(w, http.StatusServiceUnavailable, "no_catalog",
			"No service catalog is loaded")
		return
	}

	infos := make([]ScenarioInfo, 0, len(h.catalog.Scenarios))
	for i := range h.catalog.Scenarios {
		scen := &h.catalog.Scenarios[i]
		infos = append(infos, ScenarioInfo{
			Name:     scen.Name,
			Services: len(h.catalog.VisibleServices(scen)),
			Hidden:   len(scen.HiddenRows),
			Days:     scenarioDaysBySize(h.catalog, scen),
		})
	}

	WriteJSON(w, http.StatusOK, ScenarioListResponse{
		Scenarios: infos,
		Total:     len(infos),
	})
}

// GetScenario handles GET /api/scenarios/:name.
// It returns the visible services of one scenario with resolved efforts.
func (h *ScenariosHandler) GetScenario(w http.ResponseWriter, r *http.Request) {
	scen, ok := h.lookupScenario(w, r)
	if !ok {
		return
	}

	visible := h.catalog.VisibleServices(scen)
	services := make([]ServiceInfo, 0, len(visible))
	for _, svc := range visible {
		services = append(services, h.serviceInfo(scen, svc))
	}

	WriteJSON(w, http.StatusOK, ScenarioDetailResponse{
		Name:     scen.Name,
		Services: services,
		Days:     scenarioDaysBySize(h.catalog, scen),
	})
}

// FitScenario handles POST /api/scenarios/:name/fit.
// It runs the budget fit and returns the selected and dropped services.
func (h *ScenariosHandler) FitScenario(w http.ResponseWriter, r *http.Request) {
	scen, ok := h.lookupScenario(w, r)
	if !ok {
		return
	}

	var req FitRequest
	if err := ReadJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json",
			"Failed to parse request body: "+err.Error())
		return
	}
	if req.BudgetDays < 0 {
		WriteError(w, http.StatusBadRequest, "invalid_budget",
			"budgetDays must not be negative")
		return
	}

	size := sizing.ParseSizeLabel(req.Size)
	alloc := h.catalog.FitToBudget(scen, size, req.BudgetDays)

	WriteJSON(w, http.StatusOK, FitResponse{
		Scenario: scen.Name,
		Size:     string(size),
		Budget:   req.BudgetDays,
		Days:     alloc.Days,
		Selected: h.serviceInfos(scen, alloc.Selected),
		Dropped:  h.serviceInfos(scen, alloc.Dropped),
	})
}

// ComputeTotals handles POST /api/totals.
// It computes engagement totals without creating a session.
func (h *ScenariosHandler) ComputeTotals(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		WriteError(w, http.StatusServiceUnavailable, "no_catalog",
			"No service catalog is loaded")
		return
	}

	var req TotalsRequest
	if err := ReadJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json",
			"Failed to parse request body: "+err.Error())
		return
	}

	totals := h.catalog.ComputeTotals(req.Engagement)

	WriteJSON(w, http.StatusOK, TotalsResponse{
		Days:     totals.Days,
		PerYear:  totals.PerYear[:],
		ByChoice: totals.ByChoice,
	})
}

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// lookupScenario resolves the :name path parameter against the catalog.
// On failure it writes the error response and returns ok=false.
func (h *ScenariosHandler) lookupScenario(w http.ResponseWriter, r *http.Request) (*sizing.Scenario, bool) {
	if h.catalog == nil {
		WriteError(w, http.StatusServiceUnavailable, "no_catalog",
			"No service catalog is loaded")
		return nil, false
	}

	name := strings.TrimSpace(PathParam(r, "name"))
	if name == "" {
		WriteError(w, http.StatusBadRequest, "missing_scenario",
			"Scenario name is required in the URL path")
		return nil, false
	}

	scen, ok := h.catalog.Scenario(name)
	if !ok {
		WriteError(w, http.StatusNotFound, "scenario_not_found",
			"Scenario '"+name+"' not found")
		return nil, false
	}
	return scen, true
}

// serviceInfo resolves one service's efforts for every size label.
func (h *ScenariosHandler) serviceInfo(scen *sizing.Scenario, svc sizing.ServiceItem) ServiceInfo {
	effort := make(map[string]float64, 4)
	for _, size := range []sizing.SizeLabel{sizing.SizeS, sizing.SizeM, sizing.SizeL, sizing.SizeCustom} {
		effort[string(size)] = h.catalog.EffortFor(scen, svc, size)
	}
	return ServiceInfo{
		Name:          svc.Name,
		Section:       svc.Section,
		CRMID:         svc.CRMID,
		DefaultEffort: svc.DefaultEffort,
		Effort:        effort,
	}
}

// serviceInfos maps a service slice through serviceInfo.
func (h *ScenariosHandler) serviceInfos(scen *sizing.Scenario, items []sizing.ServiceItem) []ServiceInfo {
	out := make([]ServiceInfo, 0, len(items))
	for _, svc := range items {
		out = append(out, h.serviceInfo(scen, svc))
	}
	return out
}

// scenarioDaysBySize computes the scenario's total days for each size label.
func scenarioDaysBySize(catalog *sizing.Catalog, scen *sizing.Scenario) map[string]float64 {
	days := make(map[string]float64, 4)
	for _, size := range []sizing.SizeLabel{sizing.SizeS, sizing.SizeM, sizing.SizeL, sizing.SizeCustom} {
		days[string(size)] = catalog.ScenarioDays(scen, size)
	}
	return days
}
