// Package appointments holds a patient's booked appointments for one session.
package appointments

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
)

// Patch reschedules or annotates an appointment. Nil fields are left alone.
type Patch struct {
	Date  *string `json:"date,omitempty"`
	Time  *string `json:"time,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// Store is an insertion-ordered appointment list. It is safe for concurrent
// use. A Store is constructed per session and never shared.
type Store struct {
	mu    sync.RWMutex
	items []bookings.Appointment
	loc   *time.Location
	now   func() time.Time
}

// NewStore creates an empty store. Appointment dates and times are read in
// loc; nil means UTC.
func NewStore(loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{loc: loc, now: time.Now}
}

// Initialize replaces the contents with seed.
func (s *Store) Initialize(seed []bookings.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]bookings.Appointment(nil), seed...)
}

// Append adds apt at the end and returns the stored copy. A missing id or
// creation time is filled in.
func (s *Store) Append(apt bookings.Appointment) bookings.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if apt.ID == "" {
		apt.ID = "apt-" + uuid.NewString()
	}
	if apt.CreatedAt.IsZero() {
		apt.CreatedAt = s.now().UTC()
	}
	s.items = append(s.items, apt)
	return apt
}

// List returns every appointment in insertion order.
func (s *Store) List() []bookings.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]bookings.Appointment, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of stored appointments.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// FindByID returns the appointment with id.
func (s *Store) FindByID(id string) (bookings.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return bookings.Appointment{}, false
}

// Cancel marks id cancelled and reports whether it was found. Cancelling an
// already cancelled appointment changes nothing and still returns true.
func (s *Store) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	if s.items[i].Status != bookings.StatusCancelled {
		s.items[i].Status = bookings.StatusCancelled
		at := s.now().UTC()
		s.items[i].CancelledAt = &at
	}
	return true
}

// Update applies p to id and returns the result.
func (s *Store) Update(id string, p Patch) (bookings.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return bookings.Appointment{}, false
	}
	if p.Date != nil {
		s.items[i].Date = *p.Date
	}
	if p.Time != nil {
		s.items[i].Time = *p.Time
	}
	if p.Notes != nil {
		s.items[i].Notes = *p.Notes
	}
	return s.items[i], true
}

// Status derives the displayed status at now. A confirmed appointment whose
// start has passed reads as completed.
func (s *Store) Status(apt bookings.Appointment, now time.Time) bookings.Status {
	if apt.Status != bookings.StatusConfirmed {
		return apt.Status
	}
	if start, ok := apt.StartsAt(s.loc); ok && !start.After(now) {
		return bookings.StatusCompleted
	}
	return bookings.StatusConfirmed
}

// Upcoming returns confirmed appointments that start after now.
func (s *Store) Upcoming(now time.Time) []bookings.Appointment {
	return s.filter(now, func(apt bookings.Appointment, status bookings.Status) bool {
		return status == bookings.StatusConfirmed
	})
}

// Past returns completed appointments and cancelled ones whose start has
// passed. Statuses are reported as derived at now.
func (s *Store) Past(now time.Time) []bookings.Appointment {
	return s.filter(now, func(apt bookings.Appointment, status bookings.Status) bool {
		switch status {
		case bookings.StatusCompleted:
			return true
		case bookings.StatusCancelled:
			start, ok := apt.StartsAt(s.loc)
			return ok && start.Before(now)
		}
		return false
	})
}

// Cancelled returns every cancelled appointment.
func (s *Store) Cancelled() []bookings.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []bookings.Appointment{}
	for _, apt := range s.items {
		if apt.Status == bookings.StatusCancelled {
			out = append(out, apt)
		}
	}
	return out
}

// Derived returns every appointment with its status derived at now.
func (s *Store) Derived(now time.Time) []bookings.Appointment {
	return s.filter(now, func(bookings.Appointment, bookings.Status) bool { return true })
}

func (s *Store) filter(now time.Time, keep func(bookings.Appointment, bookings.Status) bool) []bookings.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []bookings.Appointment{}
	for _, apt := range s.items {
		status := s.Status(apt, now)
		if keep(apt, status) {
			apt.Status = status
			out = append(out, apt)
		}
	}
	return out
}

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
