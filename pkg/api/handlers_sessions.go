// Package api provides the HTTP/WebSocket server for the sizing UI.
package api

import (
	"net/http"
	"sort"

	"github.com/sizerlab/quicksizer/pkg/sizing"
	"github.com/sizerlab/quicksizer/pkg/wizard"
)

// SessionsHandler handles wizard session API requests.
type SessionsHandler struct {
	manager *wizard.Manager
	events  EventBroadcaster
}

// NewSessionsHandler creates a new SessionsHandler backed by the given
// wizard manager. The events broadcaster may be nil.
func NewSessionsHandler(manager *wizard.Manager, events EventBroadcaster) *SessionsHandler {
	return &SessionsHandler{
		manager: manager,
		events:  events,
	}
}

// RegisterRoutes registers the session API routes on the router.
func (h *SessionsHandler) RegisterRoutes(router *Router) {
	router.GET("/api/sessions", h.ListSessions)
	router.GET("/api/sessions/:id", h.GetSession)
	router.POST("/api/sessions", h.CreateSession)
	router.PUT("/api/sessions/:id", h.UpdateSession)
	router.DELETE("/api/sessions/:id", h.DeleteSession)
	router.POST("/api/sessions/:id/advance", h.AdvanceSession)
	router.POST("/api/sessions/:id/restart", h.RestartSession)
}

// -----------------------------------------------------------------------------
// API Request and Response Types
// -----------------------------------------------------------------------------

// UpdateSessionRequest is the expected JSON body for PUT /api/sessions/:id.
type UpdateSessionRequest struct {
	Engagement sizing.Engagement `json:"engagement"`
}

// SessionListResponse is the JSON response for GET /api/sessions.
type SessionListResponse struct {
	Sessions []*wizard.Session `json:"sessions"`
	Total    int               `json:"total"`
}

// SingleSessionResponse is the JSON response carrying one session.
type SingleSessionResponse struct {
	Session *wizard.Session `json:"session"`
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// ListSessions handles GET /api/sessions.
// It returns all wizard sessions, newest first.
func (h *SessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	if h.manager == nil {
		WriteError(w, http.StatusServiceUnavailable, "no_sessions",
			"Session manager is not available")
		return
	}

	sessions := h.manager.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	WriteJSON(w, http.StatusOK, SessionListResponse{
		Sessions: sessions,
		Total:    len(sessions),
	})
}

// GetSession handles GET /api/sessions/:id.
func (h *SessionsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.manager.Get(sessionID)
	if err != nil {
		WriteSizerError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, SingleSessionResponse{Session: session})
}

// CreateSession handles POST /api/sessions.
// It starts a new wizard session at the first step.
func (h *SessionsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h.manager == nil {
		WriteError(w, http.StatusServiceUnavailable, "no_sessions",
			"Session manager is not available")
		return
	}

	session := h.manager.Create()
	h.broadcastSession(EventTypeSessionCreated, session)

	WriteJSON(w, http.StatusCreated, SingleSessionResponse{Session: session})
}

// UpdateSession handles PUT /api/sessions/:id.
// It replaces the session's engagement data.
func (h *SessionsHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := ReadJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json",
			"Failed to parse request body: "+err.Error())
		return
	}

	session, err := h.manager.SetEngagement(sessionID, req.Engagement)
	if err != nil {
		WriteSizerError(w, err)
		return
	}
	h.broadcastSession(EventTypeSessionUpdated, session)

	WriteJSON(w, http.StatusOK, SingleSessionResponse{Session: session})
}

// DeleteSession handles DELETE /api/sessions/:id.
func (h *SessionsHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.manager.Delete(sessionID); err != nil {
		WriteSizerError(w, err)
		return
	}
	h.broadcastSession(EventTypeSessionDeleted, &wizard.Session{ID: sessionID})

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Session deleted successfully",
		"id":      sessionID,
	})
}

// AdvanceSession handles POST /api/sessions/:id/advance.
// It moves the wizard to its next step after validating the current one.
func (h *SessionsHandler) AdvanceSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.manager.Advance(sessionID)
	if err != nil {
		WriteSizerError(w, err)
		return
	}
	h.broadcastSession(EventTypeSessionUpdated, session)

	WriteJSON(w, http.StatusOK, SingleSessionResponse{Session: session})
}

// RestartSession handles POST /api/sessions/:id/restart.
// It returns the wizard to the first step, keeping collected inputs.
func (h *SessionsHandler) RestartSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.manager.Restart(sessionID)
	if err != nil {
		WriteSizerError(w, err)
		return
	}
	h.broadcastSession(EventTypeSessionUpdated, session)

	WriteJSON(w, http.StatusOK, SingleSessionResponse{Session: session})
}

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// sessionID extracts and validates the :id path parameter. On failure it
// writes the error response and returns ok=false.
func (h *SessionsHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.manager == nil {
		WriteError(w, http.StatusServiceUnavailable, "no_sessions",
			"Session manager is not available")
		return "", false
	}

	sessionID := PathParam(r, "id")
	if sessionID == "" {
		WriteError(w, http.StatusBadRequest, "missing_session_id",
			"Session ID is required in the URL path")
		return "", false
	}
	return sessionID, true
}

// broadcastSession sends a session event if a broadcaster is wired.
func (h *SessionsHandler) broadcastSession(eventType string, session *wizard.Session) {
	if h.events == nil || session == nil {
		return
	}
	h.events.BroadcastSessionEvent(eventType,
		NewSessionEvent(session.ID, string(session.Step), session.Engagement.Plan))
}
