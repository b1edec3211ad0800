package wizard

import (
	"testing"
	"time"

	qserrors "github.com/sizerlab/quicksizer/pkg/errors"
	"github.com/sizerlab/quicksizer/pkg/sizing"
)

// -----------------------------------------------------------------------------
// Test Helpers
// -----------------------------------------------------------------------------

func testEngagement() sizing.Engagement {
	return sizing.Engagement{
		Plan:       "ACME Rollout",
		Selections: []sizing.Selection{{Scenario: "Full", Size: sizing.SizeM}},
	}
}

// advanceTo walks a session forward until it reaches the wanted step.
func advanceTo(t *testing.T, m *Manager, id string, want Step) *Session {
	t.Helper()
	s, err := m.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for s.Step != want {
		s, err = m.Advance(id)
		if err != nil {
			t.Fatalf("Advance from %s: %v", s.Step, err)
		}
	}
	return s
}

// -----------------------------------------------------------------------------
// Session Lifecycle Tests
// -----------------------------------------------------------------------------

func TestManagerLifecycle(t *testing.T) {
	t.Run("create starts at scenario selection", func(t *testing.T) {
		m := NewManager()
		s := m.Create()
		if s.ID == "" {
			t.Error("session has no id")
		}
		if s.Step != StepSelectScenarios {
			t.Errorf("Step = %q, want %q", s.Step, StepSelectScenarios)
		}
		if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
			t.Error("timestamps not set")
		}
	})

	t.Run("get unknown session", func(t *testing.T) {
		m := NewManager()
		_, err := m.Get("nope")
		if !qserrors.IsCode(err, qserrors.ErrSessionNotFound) {
			t.Errorf("err = %v, want %s", err, qserrors.ErrSessionNotFound)
		}
	})

	t.Run("list returns all sessions", func(t *testing.T) {
		m := NewManager()
		a := m.Create()
		b := m.Create()
		got := m.List()
		if len(got) != 2 {
			t.Fatalf("List = %d sessions, want 2", len(got))
		}
		ids := map[string]bool{got[0].ID: true, got[1].ID: true}
		if !ids[a.ID] || !ids[b.ID] {
			t.Error("List missing a created session")
		}
	})

	t.Run("delete removes the session", func(t *testing.T) {
		m := NewManager()
		s := m.Create()
		if err := m.Delete(s.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := m.Get(s.ID); err == nil {
			t.Error("session still retrievable after delete")
		}
		if err := m.Delete(s.ID); !qserrors.IsCode(err, qserrors.ErrSessionNotFound) {
			t.Errorf("second delete err = %v, want %s", err, qserrors.ErrSessionNotFound)
		}
	})

	t.Run("returned sessions are copies", func(t *testing.T) {
		m := NewManager()
		s := m.Create()
		s.Step = StepDone
		s.Engagement.Plan = "mutated"

		fresh, err := m.Get(s.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if fresh.Step != StepSelectScenarios || fresh.Engagement.Plan != "" {
			t.Error("external mutation leaked into the manager")
		}
	})
}

// -----------------------------------------------------------------------------
// Step Machine Tests
// -----------------------------------------------------------------------------

func TestAdvance(t *testing.T) {
	t.Run("walks all steps in order", func(t *testing.T) {
		m := NewManager()
		s := m.Create()
		if _, err := m.SetEngagement(s.ID, testEngagement()); err != nil {
			t.Fatalf("SetEngagement: %v", err)
		}

		want := []Step{StepAdjustSizes, StepReview, StepExport, StepDone}
		for _, step := range want {
			got, err := m.Advance(s.ID)
			if err != nil {
				t.Fatalf("Advance to %s: %v", step, err)
			}
			if got.Step != step {
				t.Errorf("Step = %q, want %q", got.Step, step)
			}
		}
	})

	t.Run("cannot advance past done", func(t *testing.T) {
		m := NewManager()
		s := m.Create()
		m.SetEngagement(s.ID, testEngagement())
		advanceTo(t, m, s.ID, StepDone)

		_, err := m.Advance(s.ID)
		if !qserrors.IsCode(err, qserrors.ErrSessionInvalidStep) {
			t.Errorf("err = %v, want %s", err, qserrors.ErrSessionInvalidStep)
		}
	})

	t.Run("requires selections before size adjustment", func(t *testing.T) {
		m := NewManager()
		s := m.Create()
		_, err := m.Advance(s.ID)
		if !qserrors.IsCode(err, qserrors.ErrSessionIncomplete) {
			t.Errorf("err = %v, want %s", err, qserrors.ErrSessionIncomplete)
		}
	})

	t.Run("requires plan name before export", func(t *testing.T) {
		m := NewManager()
		s := m.Create()
		eng := testEngagement()
		eng.Plan = ""
		m.SetEngagement(s.ID, eng)
		advanceTo(t, m, s.ID, StepReview)

		_, err := m.Advance(s.ID)
		if !qserrors.IsCode(err, qserrors.ErrSessionIncomplete) {
			t.Errorf("err = %v, want %s", err, qserrors.ErrSessionIncomplete)
		}
	})
}

func TestSetEngagement(t *testing.T) {
	t.Run("edit at export pulls back to review", func(t *testing.T) {
		m := NewManager()
		s := m.Create()
		m.SetEngagement(s.ID, testEngagement())
		advanceTo(t, m, s.ID, StepExport)

		got, err := m.SetEngagement(s.ID, testEngagement())
		if err != nil {
			t.Fatalf("SetEngagement: %v", err)
		}
		if got.Step != StepReview {
			t.Errorf("Step = %q, want %q", got.Step, StepReview)
		}
	})

	t.Run("rejected after done", func(t *testing.T) {
		m := NewManager()
		s := m.Create()
		m.SetEngagement(s.ID, testEngagement())
		advanceTo(t, m, s.ID, StepDone)

		_, err := m.SetEngagement(s.ID, testEngagement())
		if !qserrors.IsCode(err, qserrors.ErrSessionInvalidStep) {
			t.Errorf("err = %v, want %s", err, qserrors.ErrSessionInvalidStep)
		}
	})

	t.Run("bumps updated timestamp", func(t *testing.T) {
		m := NewManager()
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		tick := 0
		m.now = func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}

		s := m.Create()
		got, err := m.SetEngagement(s.ID, testEngagement())
		if err != nil {
			t.Fatalf("SetEngagement: %v", err)
		}
		if !got.UpdatedAt.After(s.UpdatedAt) {
			t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, s.UpdatedAt)
		}
	})
}

func TestRestart(t *testing.T) {
	m := NewManager()
	s := m.Create()
	m.SetEngagement(s.ID, testEngagement())
	advanceTo(t, m, s.ID, StepDone)

	got, err := m.Restart(s.ID)
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if got.Step != StepSelectScenarios {
		t.Errorf("Step = %q, want %q", got.Step, StepSelectScenarios)
	}
	if got.Engagement.Plan != "ACME Rollout" {
		t.Error("restart dropped the engagement inputs")
	}
}
