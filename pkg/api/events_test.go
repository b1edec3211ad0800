// Package api provides the HTTP/WebSocket server for the sizing UI.
package api

import (
	"errors"
	"testing"
	"time"
)

// -----------------------------------------------------------------------------
// Event Constructor Tests
// -----------------------------------------------------------------------------

func TestNewSessionEvent(t *testing.T) {
	event := NewSessionEvent("sess-1", "review", "ACME Rollout")

	if event.SessionID != "sess-1" || event.Step != "review" || event.Plan != "ACME Rollout" {
		t.Errorf("event = %+v", event)
	}
	if _, err := time.Parse(time.RFC3339, event.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", event.Timestamp, err)
	}
}

func TestNewExportEvent(t *testing.T) {
	event := NewExportEvent("sess-1", "pdf", "report.pdf")

	if event.SessionID != "sess-1" || event.Format != "pdf" || event.Filename != "report.pdf" {
		t.Errorf("event = %+v", event)
	}
	if _, err := time.Parse(time.RFC3339, event.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", event.Timestamp, err)
	}
}

// -----------------------------------------------------------------------------
// ExportLog Tests
// -----------------------------------------------------------------------------

func TestExportLog(t *testing.T) {
	t.Run("add and recent", func(t *testing.T) {
		log := NewExportLog(5)
		log.Add(ExportEvent{Format: "pdf", Bytes: 100})
		log.Add(ExportEvent{Format: "csv", Bytes: 50})

		if log.Count() != 2 {
			t.Errorf("Count = %d, want 2", log.Count())
		}
		recent := log.Recent()
		if len(recent) != 2 || recent[0].Format != "pdf" || recent[1].Format != "csv" {
			t.Errorf("Recent = %+v", recent)
		}
	})

	t.Run("recent returns a copy", func(t *testing.T) {
		log := NewExportLog(5)
		log.Add(ExportEvent{Format: "pdf"})

		recent := log.Recent()
		recent[0].Format = "mutated"

		if log.Recent()[0].Format != "pdf" {
			t.Error("Recent exposed internal storage")
		}
	})

	t.Run("evicts oldest when full", func(t *testing.T) {
		log := NewExportLog(3)
		for i, format := range []string{"a", "b", "c", "d"} {
			log.Add(ExportEvent{Format: format, Bytes: i})
		}

		if log.Count() != 3 {
			t.Fatalf("Count = %d, want 3", log.Count())
		}
		recent := log.Recent()
		if recent[0].Format != "b" || recent[2].Format != "d" {
			t.Errorf("Recent = %+v", recent)
		}
	})

	t.Run("non-positive size uses default", func(t *testing.T) {
		log := NewExportLog(0)
		for i := 0; i < 150; i++ {
			log.Add(ExportEvent{Format: "pdf"})
		}
		if log.Count() != 100 {
			t.Errorf("Count = %d, want 100", log.Count())
		}
	})

	t.Run("clear", func(t *testing.T) {
		log := NewExportLog(5)
		log.Add(ExportEvent{Format: "pdf"})
		log.Clear()

		if log.Count() != 0 {
			t.Errorf("Count = %d, want 0", log.Count())
		}
	})
}

func TestExportLogSummary(t *testing.T) {
	log := NewExportLog(10)
	log.Add(ExportEvent{Format: "pdf", Bytes: 1000, Rows: 12})
	log.Add(ExportEvent{Format: "pdf", Bytes: 500, Rows: 4})
	log.Add(ExportEvent{Format: "csv", Bytes: 200, Rows: 4})

	summary := log.Summary()

	if summary.TotalExports != 3 {
		t.Errorf("TotalExports = %d, want 3", summary.TotalExports)
	}
	if summary.TotalBytes != 1700 {
		t.Errorf("TotalBytes = %d, want 1700", summary.TotalBytes)
	}
	if summary.TotalRows != 20 {
		t.Errorf("TotalRows = %d, want 20", summary.TotalRows)
	}
	if summary.ByFormat["pdf"] != 2 || summary.ByFormat["csv"] != 1 {
		t.Errorf("ByFormat = %v", summary.ByFormat)
	}
}

// -----------------------------------------------------------------------------
// MockEventBroadcaster Tests
// -----------------------------------------------------------------------------

func TestMockEventBroadcaster(t *testing.T) {
	t.Run("records events", func(t *testing.T) {
		mock := NewMockEventBroadcaster()

		mock.BroadcastSessionEvent(EventTypeSessionCreated, &SessionEvent{SessionID: "s1"})
		mock.BroadcastExportEvent(EventTypeExportFinished, &ExportEvent{Format: "pdf"})
		mock.BroadcastCatalogStatus(&CatalogStatusEvent{Services: 4})

		if len(mock.SessionEvents) != 1 || mock.SessionTypes[0] != EventTypeSessionCreated {
			t.Errorf("session events = %+v types = %v", mock.SessionEvents, mock.SessionTypes)
		}
		if len(mock.ExportEvents) != 1 || mock.ExportTypes[0] != EventTypeExportFinished {
			t.Errorf("export events = %+v types = %v", mock.ExportEvents, mock.ExportTypes)
		}
		if len(mock.CatalogEvents) != 1 {
			t.Errorf("catalog events = %+v", mock.CatalogEvents)
		}
	})

	t.Run("propagates configured error", func(t *testing.T) {
		mock := NewMockEventBroadcaster()
		mock.BroadcastError = errors.New("hub down")

		if err := mock.BroadcastSessionEvent(EventTypeSessionCreated, &SessionEvent{}); err == nil {
			t.Error("expected error")
		}
		if len(mock.SessionEvents) != 0 {
			t.Error("errored broadcast was recorded")
		}
	})

	t.Run("reset clears everything", func(t *testing.T) {
		mock := NewMockEventBroadcaster()
		mock.BroadcastSessionEvent(EventTypeSessionCreated, &SessionEvent{})
		mock.BroadcastError = errors.New("x")
		mock.Reset()

		if len(mock.SessionEvents) != 0 || mock.BroadcastError != nil {
			t.Error("Reset left state behind")
		}
	})
}

// -----------------------------------------------------------------------------
// HubEventBroadcaster Tests
// -----------------------------------------------------------------------------

func TestHubEventBroadcaster(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	b := NewHubEventBroadcaster(hub)

	// No subscribers: broadcasts must still succeed.
	if err := b.BroadcastSessionEvent(EventTypeSessionUpdated, &SessionEvent{SessionID: "s1"}); err != nil {
		t.Errorf("BroadcastSessionEvent: %v", err)
	}
	if err := b.BroadcastExportEvent(EventTypeExportStarted, &ExportEvent{Format: "pdf"}); err != nil {
		t.Errorf("BroadcastExportEvent: %v", err)
	}
	if err := b.BroadcastCatalogStatus(&CatalogStatusEvent{Services: 4}); err != nil {
		t.Errorf("BroadcastCatalogStatus: %v", err)
	}
}
