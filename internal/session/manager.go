// Package session hosts booking wizards server-side, one per open patient
// session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/appointments"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/backend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/healthmetrics"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/wizard"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// ErrSessionNotFound is returned for unknown, expired or foreign sessions.
var ErrSessionNotFound = errors.New("session not found")

// Gauge receives the number of open sessions.
type Gauge interface {
	SetActiveSessions(n int)
}

// Session pairs a wizard with the patient's appointment store and health
// tracker.
type Session struct {
	ID        string
	PatientID string
	Wizard    *wizard.Wizard
	Store     *appointments.Store
	Health    *healthmetrics.Tracker
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLocation sets the clinic time zone used by appointment stores.
func WithLocation(loc *time.Location) ManagerOption {
	return func(m *Manager) {
		if loc != nil {
			m.loc = loc
		}
	}
}

// WithWizardObserver is attached to every wizard.
func WithWizardObserver(o wizard.Observer) ManagerOption {
	return func(m *Manager) { m.observer = o }
}

// WithGauge reports the open session count.
func WithGauge(g Gauge) ManagerOption {
	return func(m *Manager) { m.gauge = g }
}

// WithManagerClock overrides time.Now.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager owns the open sessions.
type Manager struct {
	backend  backend.Service
	loc      *time.Location
	observer wizard.Observer
	gauge    Gauge
	now      func() time.Time
	logger   *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager over svc.
func NewManager(svc backend.Service, logger *logging.Logger, opts ...ManagerOption) *Manager {
	if svc == nil {
		panic("session: backend required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	m := &Manager{
		backend:  svc,
		loc:      time.UTC,
		now:      time.Now,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open creates a session for patientID, seeds its store with the patient's
// appointments and loads the therapy catalog. A catalog failure leaves the
// session open with the wizard showing the error.
func (m *Manager) Open(ctx context.Context, patientID string, contact wizard.Contact) (*Session, error) {
	seed, err := m.backend.FetchPatientAppointments(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("session: seed appointments: %w", err)
	}

	store := appointments.NewStore(m.loc)
	store.Initialize(seed)

	opts := []wizard.Option{wizard.WithContact(contact)}
	if m.observer != nil {
		opts = append(opts, wizard.WithObserver(m.observer))
	}
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Wizard:    wizard.New(m.backend, store, patientID, opts...),
		Store:     store,
		Health:    healthmetrics.NewTracker(m.now),
		CreatedAt: now.UTC(),
		lastSeen:  now,
	}
	if err := s.Wizard.Load(ctx); err != nil {
		m.logger.Warn("therapy catalog load failed", "session_id", s.ID, "error", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()
	m.report(count)

	m.logger.Info("wizard session opened", "session_id", s.ID, "patient_id", patientID, "appointments", len(seed))
	return s, nil
}

// Get returns the patient's session and marks it active.
func (m *Manager) Get(id, patientID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s.PatientID != patientID {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Close drops the patient's session.
func (m *Manager) Close(id, patientID string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok || s.PatientID != patientID {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	m.report(count)
	m.logger.Info("wizard session closed", "session_id", id)
	return nil
}

// Prune drops sessions idle for longer than idle and returns how many.
func (m *Manager) Prune(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if removed > 0 {
		m.report(count)
		m.logger.Info("idle wizard sessions pruned", "removed", removed, "remaining", count)
	}
	return removed
}

// Len reports the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunPruner prunes idle sessions every interval until ctx is done.
func (m *Manager) RunPruner(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Prune(idle)
		}
	}
}

func (m *Manager) report(count int) {
	if m.gauge != nil {
		m.gauge.SetActiveSessions(count)
	}
}
