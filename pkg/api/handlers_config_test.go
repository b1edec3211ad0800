package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sizerlab/quicksizer/pkg/config"
	"github.com/sizerlab/quicksizer/pkg/wizard"
)

// Helper function to create a temporary config file for testing.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if content != "" {
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create temp config file: %v", err)
		}
	}

	return configPath
}

// parseAPIResponse parses an APIResponse from the response body.
func parseAPIResponse(t *testing.T, body io.Reader) *APIResponse {
	t.Helper()

	var resp APIResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("Failed to parse API response: %v", err)
	}

	return &resp
}

func configTestRouter(h *ConfigHandler) *Router {
	router := NewRouter()
	h.RegisterRoutes(router)
	return router
}

// -----------------------------------------------------------------------------
// ConfigHandler Tests
// -----------------------------------------------------------------------------

func TestNewConfigHandler(t *testing.T) {
	t.Run("with custom path", func(t *testing.T) {
		h := NewConfigHandler("/custom/path/config.yaml", nil, nil, nil)
		if h.ConfigPath() != "/custom/path/config.yaml" {
			t.Errorf("Expected custom path, got %s", h.ConfigPath())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		h := NewConfigHandler("", nil, nil, nil)
		if h.ConfigPath() == "" {
			t.Error("Expected non-empty default path")
		}
	})
}

func TestConfigHandler_GetConfig(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		configPath := createTempConfigFile(t, "")
		router := configTestRouter(NewConfigHandler(configPath, nil, nil, nil))

		req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		resp := parseAPIResponse(t, w.Body)
		data := resp.Data.(map[string]interface{})
		server := data["server"].(map[string]interface{})
		if server["host"] != "localhost" || server["port"].(float64) != 8080 {
			t.Errorf("server = %v", server)
		}
		report := data["report"].(map[string]interface{})
		if report["defaultFormat"] != "pdf" || report["csvDialect"] != "standard" {
			t.Errorf("report = %v", report)
		}
	})

	t.Run("existing file wins over defaults", func(t *testing.T) {
		configPath := createTempConfigFile(t, "server:\n  host: 0.0.0.0\n  port: 9090\n")
		router := configTestRouter(NewConfigHandler(configPath, nil, nil, nil))

		req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		resp := parseAPIResponse(t, w.Body)
		data := resp.Data.(map[string]interface{})
		server := data["server"].(map[string]interface{})
		if server["host"] != "0.0.0.0" || server["port"].(float64) != 9090 {
			t.Errorf("server = %v", server)
		}
	})
}

func TestConfigHandler_PutConfig(t *testing.T) {
	t.Run("persists valid config", func(t *testing.T) {
		configPath := createTempConfigFile(t, "")
		router := configTestRouter(NewConfigHandler(configPath, nil, nil, nil))

		body := jsonBody(t, configToResponse(config.Default()))
		req := httptest.NewRequest(http.MethodPut, "/api/config", body)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}

		saved, err := config.Load(configPath)
		if err != nil {
			t.Fatalf("Load after PUT: %v", err)
		}
		if saved.Server.Port != 8080 {
			t.Errorf("saved port = %d, want 8080", saved.Server.Port)
		}
	})

	t.Run("invalid config returns 422", func(t *testing.T) {
		configPath := createTempConfigFile(t, "")
		router := configTestRouter(NewConfigHandler(configPath, nil, nil, nil))

		bad := configToResponse(config.Default())
		bad.Server.Port = -1
		req := httptest.NewRequest(http.MethodPut, "/api/config", jsonBody(t, bad))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", w.Code)
		}
		if _, err := config.Load(configPath); err == nil {
			t.Error("invalid config was persisted")
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		configPath := createTempConfigFile(t, "")
		router := configTestRouter(NewConfigHandler(configPath, nil, nil, nil))

		req := httptest.NewRequest(http.MethodPut, "/api/config",
			strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

// -----------------------------------------------------------------------------
// Status Tests
// -----------------------------------------------------------------------------

func TestConfigHandler_GetStatus(t *testing.T) {
	t.Run("bare server", func(t *testing.T) {
		configPath := createTempConfigFile(t, "")
		router := configTestRouter(NewConfigHandler(configPath, nil, nil, nil))

		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		resp := parseAPIResponse(t, w.Body)
		data := resp.Data.(map[string]interface{})
		if data["uptime"] == "" || data["startedAt"] == "" {
			t.Errorf("missing uptime fields: %v", data)
		}
		if data["sessions"].(float64) != 0 {
			t.Errorf("sessions = %v, want 0", data["sessions"])
		}
	})

	t.Run("with catalog, sessions, and exports", func(t *testing.T) {
		configPath := createTempConfigFile(t, "")
		manager := wizard.NewManager()
		manager.Create()
		manager.Create()
		log := NewExportLog(10)
		log.Add(ExportEvent{Format: "pdf", Bytes: 1024, Rows: 4})
		router := configTestRouter(NewConfigHandler(configPath, apiTestCatalog(), manager, log))

		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		resp := parseAPIResponse(t, w.Body)
		data := resp.Data.(map[string]interface{})

		catalog := data["catalog"].(map[string]interface{})
		if catalog["services"].(float64) != 4 {
			t.Errorf("catalog services = %v, want 4", catalog["services"])
		}
		if data["sessions"].(float64) != 2 {
			t.Errorf("sessions = %v, want 2", data["sessions"])
		}
		exports := data["exports"].(map[string]interface{})
		if exports["totalExports"].(float64) != 1 || exports["totalBytes"].(float64) != 1024 {
			t.Errorf("exports = %v", exports)
		}
	})
}
