// Package api provides the HTTP/WebSocket server for the sizing UI.
package api

import (
	"sync"
	"time"
)

// -----------------------------------------------------------------------------
// Event Data Types
// -----------------------------------------------------------------------------

// SessionEvent describes a change to a wizard session.
type SessionEvent struct {
	SessionID string `json:"sessionId"`
	Step      string `json:"step,omitempty"`
	Plan      string `json:"plan,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ExportEvent describes the start or completion of a report export.
type ExportEvent struct {
	SessionID string `json:"sessionId,omitempty"`
	Format    string `json:"format"` // pdf, csv, plain
	Filename  string `json:"filename,omitempty"`
	Bytes     int    `json:"bytes,omitempty"`
	Rows      int    `json:"rows,omitempty"`
	Plan      string `json:"plan,omitempty"`
	Timestamp string `json:"timestamp"`
}

// CatalogStatusEvent describes the currently loaded catalog.
type CatalogStatusEvent struct {
	Source    string `json:"source,omitempty"`
	Sections  int    `json:"sections"`
	Services  int    `json:"services"`
	Scenarios int    `json:"scenarios"`
	Timestamp string `json:"timestamp"`
}

// NewSessionEvent creates a SessionEvent for the given session state.
func NewSessionEvent(sessionID, step, plan string) *SessionEvent {
	return &SessionEvent{
		SessionID: sessionID,
		Step:      step,
		Plan:      plan,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewExportEvent creates an ExportEvent for the given export.
func NewExportEvent(sessionID, format, filename string) *ExportEvent {
	return &ExportEvent{
		SessionID: sessionID,
		Format:    format,
		Filename:  filename,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// -----------------------------------------------------------------------------
// EventBroadcaster Interface
// -----------------------------------------------------------------------------

// EventBroadcaster defines the interface for broadcasting events to clients.
// This allows for dependency injection and testing.
type EventBroadcaster interface {
	// BroadcastSessionEvent notifies clients of a session change.
	BroadcastSessionEvent(eventType string, event *SessionEvent) error

	// BroadcastExportEvent notifies clients of export progress.
	BroadcastExportEvent(eventType string, event *ExportEvent) error

	// BroadcastCatalogStatus notifies clients of the loaded catalog.
	BroadcastCatalogStatus(event *CatalogStatusEvent) error
}

// -----------------------------------------------------------------------------
// HubEventBroadcaster Implementation
// -----------------------------------------------------------------------------

// HubEventBroadcaster wraps the WebSocket Hub to implement EventBroadcaster.
type HubEventBroadcaster struct {
	hub *Hub
}

// NewHubEventBroadcaster creates a new HubEventBroadcaster.
func NewHubEventBroadcaster(hub *Hub) *HubEventBroadcaster {
	return &HubEventBroadcaster{hub: hub}
}

// BroadcastSessionEvent notifies clients of a session change.
func (b *HubEventBroadcaster) BroadcastSessionEvent(eventType string, event *SessionEvent) error {
	msg := &WSMessage{
		Type:      eventType,
		Data:      event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return b.hub.BroadcastToChannel(ChannelSessions, msg)
}

// BroadcastExportEvent notifies clients of export progress.
func (b *HubEventBroadcaster) BroadcastExportEvent(eventType string, event *ExportEvent) error {
	msg := &WSMessage{
		Type:      eventType,
		Data:      event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return b.hub.BroadcastToChannel(ChannelExports, msg)
}

// BroadcastCatalogStatus notifies clients of the loaded catalog.
func (b *HubEventBroadcaster) BroadcastCatalogStatus(event *CatalogStatusEvent) error {
	msg := &WSMessage{
		Type:      EventTypeCatalogStatus,
		Data:      event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return b.hub.BroadcastToChannel(ChannelStatus, msg)
}

// -----------------------------------------------------------------------------
// Export Log
// -----------------------------------------------------------------------------

// ExportLog keeps a bounded history of completed exports for the status API.
type ExportLog struct {
	mu      sync.RWMutex
	entries []ExportEvent
	maxSize int
}

// ExportLogSummary aggregates the logged exports.
type ExportLogSummary struct {
	TotalExports int            `json:"totalExports"`
	TotalBytes   int            `json:"totalBytes"`
	TotalRows    int            `json:"totalRows"`
	ByFormat     map[string]int `json:"byFormat"`
}

// NewExportLog creates an ExportLog holding at most maxSize entries.
func NewExportLog(maxSize int) *ExportLog {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &ExportLog{
		entries: make([]ExportEvent, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add records a completed export, evicting the oldest entry when full.
func (l *ExportLog) Add(event ExportEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= l.maxSize {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, event)
}

// Count returns the number of logged exports.
func (l *ExportLog) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Recent returns a copy of the logged exports, oldest first.
func (l *ExportLog) Recent() []ExportEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]ExportEvent, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear removes all logged exports.
func (l *ExportLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]ExportEvent, 0, l.maxSize)
}

// Summary computes aggregate statistics over the logged exports.
func (l *ExportLog) Summary() *ExportLogSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summary := &ExportLogSummary{
		TotalExports: len(l.entries),
		ByFormat:     make(map[string]int),
	}
	for _, e := range l.entries {
		summary.TotalBytes += e.Bytes
		summary.TotalRows += e.Rows
		summary.ByFormat[e.Format]++
	}
	return summary
}

// -----------------------------------------------------------------------------
// Mock Event Broadcaster for Testing
// -----------------------------------------------------------------------------

// MockEventBroadcaster is a mock implementation of EventBroadcaster for testing.
type MockEventBroadcaster struct {
	mu             sync.Mutex
	SessionEvents  []*SessionEvent
	SessionTypes   []string
	ExportEvents   []*ExportEvent
	ExportTypes    []string
	CatalogEvents  []*CatalogStatusEvent
	BroadcastError error
}

// NewMockEventBroadcaster creates a new MockEventBroadcaster.
func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

// BroadcastSessionEvent records the session event.
func (m *MockEventBroadcaster) BroadcastSessionEvent(eventType string, event *SessionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BroadcastError != nil {
		return m.BroadcastError
	}
	m.SessionEvents = append(m.SessionEvents, event)
	m.SessionTypes = append(m.SessionTypes, eventType)
	return nil
}

// BroadcastExportEvent records the export event.
func (m *MockEventBroadcaster) BroadcastExportEvent(eventType string, event *ExportEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BroadcastError != nil {
		return m.BroadcastError
	}
	m.ExportEvents = append(m.ExportEvents, event)
	m.ExportTypes = append(m.ExportTypes, eventType)
	return nil
}

// BroadcastCatalogStatus records the catalog status event.
func (m *MockEventBroadcaster) BroadcastCatalogStatus(event *CatalogStatusEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BroadcastError != nil {
		return m.BroadcastError
	}
	m.CatalogEvents = append(m.CatalogEvents, event)
	return nil
}

// Reset clears all recorded events.
func (m *MockEventBroadcaster) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionEvents = nil
	m.SessionTypes = nil
	m.ExportEvents = nil
	m.ExportTypes = nil
	m.CatalogEvents = nil
	m.BroadcastError = nil
}
