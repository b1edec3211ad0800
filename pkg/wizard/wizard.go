// Package wizard implements the export wizard: a per-session step machine
// that walks a user from scenario selection to a finished export. Sessions
// live in memory only; the model is rebuilt from the catalog on every
// export, so there is nothing durable to persist.
package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	qserrors "github.com/sizerlab/quicksizer/pkg/errors"
	"github.com/sizerlab/quicksizer/pkg/sizing"
)

// Step identifies a wizard stage. Transitions only move forward one step at
// a time, or all the way back to the start.
type Step string

const (
	StepSelectScenarios Step = "select_scenarios"
	StepAdjustSizes     Step = "adjust_sizes"
	StepReview          Step = "review"
	StepExport          Step = "export"
	StepDone            Step = "done"
)

// next maps each step to its successor.
var next = map[Step]Step{
	StepSelectScenarios: StepAdjustSizes,
	StepAdjustSizes:     StepReview,
	StepReview:          StepExport,
	StepExport:          StepDone,
}

// Session is one wizard run. Fields are guarded by the owning Manager.
type Session struct {
	ID         string            `json:"id"`
	Step       Step              `json:"step"`
	Engagement sizing.Engagement `json:"engagement"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// clone returns a copy safe to hand outside the manager's lock.
func (s *Session) clone() *Session {
	out := *s
	out.Engagement.Selections = append([]sizing.Selection(nil), s.Engagement.Selections...)
	return &out
}

// Manager owns the in-memory session set.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a new session at the first step.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:        uuid.NewString(),
		Step:      StepSelectScenarios,
		CreatedAt: m.now(),
		UpdatedAt: m.now(),
	}
	m.sessions[s.ID] = s
	return s.clone()
}

// Get returns a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, qserrors.Sessionf(qserrors.ErrSessionNotFound, "session %s not found", id)
	}
	return s.clone(), nil
}

// List returns all sessions, newest first not guaranteed; callers sort.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.clone())
	}
	return out
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return qserrors.Sessionf(qserrors.ErrSessionNotFound, "session %s not found", id)
	}
	delete(m.sessions, id)
	return nil
}

// SetEngagement replaces the session's engagement data. Allowed at any step
// before export; edits pull the session back to review so the user
// re-confirms what will be generated.
func (m *Manager) SetEngagement(id string, eng sizing.Engagement) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, qserrors.Sessionf(qserrors.ErrSessionNotFound, "session %s not found", id)
	}
	if s.Step == StepDone {
		return nil, qserrors.Sessionf(qserrors.ErrSessionInvalidStep,
			"session %s is finished; start a new session to change inputs", id)
	}

	s.Engagement = eng
	if s.Step == StepExport {
		s.Step = StepReview
	}
	s.UpdatedAt = m.now()
	return s.clone(), nil
}

// Advance moves the session to its next step, validating that the current
// step's inputs are complete.
func (m *Manager) Advance(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, qserrors.Sessionf(qserrors.ErrSessionNotFound, "session %s not found", id)
	}

	to, ok := next[s.Step]
	if !ok {
		return nil, qserrors.Sessionf(qserrors.ErrSessionInvalidStep,
			"session %s is already finished", id)
	}
	if err := m.validateAdvance(s, to); err != nil {
		return nil, err
	}

	s.Step = to
	s.UpdatedAt = m.now()
	return s.clone(), nil
}

// Restart returns a session to the first step, keeping its inputs.
func (m *Manager) Restart(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, qserrors.Sessionf(qserrors.ErrSessionNotFound, "session %s not found", id)
	}
	s.Step = StepSelectScenarios
	s.UpdatedAt = m.now()
	return s.clone(), nil
}

// validateAdvance enforces per-step completeness before a transition.
func (m *Manager) validateAdvance(s *Session, to Step) error {
	switch to {
	case StepAdjustSizes:
		if len(s.Engagement.Selections) == 0 {
			return qserrors.Session(qserrors.ErrSessionIncomplete,
				"select at least one scenario before adjusting sizes")
		}
	case StepExport:
		if s.Engagement.Plan == "" {
			return qserrors.Session(qserrors.ErrSessionIncomplete,
				"the engagement needs a plan name before export")
		}
	}
	return nil
}
