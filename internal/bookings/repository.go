package bookings

import (
	"context"
	"sync"
	"time"
)

// Repository defines the interface for appointment storage
type Repository interface {
	// Create stores a confirmed appointment. It fails with ErrSlotUnavailable
	// when another confirmed appointment holds the same date and time.
	Create(ctx context.Context, apt Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	ListByDate(ctx context.Context, date string) ([]Appointment, error)
	// Cancel marks the appointment cancelled. Cancelling twice is not an error.
	Cancel(ctx context.Context, id string, at time.Time) (*Appointment, error)
	// TakenSlots returns the times held by confirmed appointments on date.
	TakenSlots(ctx context.Context, date string) ([]string, error)
}

// InMemoryRepository keeps appointments in insertion order in memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID: make(map[string]*Appointment),
	}
}

// Create stores apt, rejecting double-booked slots.
func (r *InMemoryRepository) Create(ctx context.Context, apt Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		existing := r.byID[id]
		if existing.Status == StatusConfirmed && existing.Date == apt.Date && existing.Time == apt.Time {
			return nil, ErrSlotUnavailable
		}
	}

	stored := apt
	r.byID[apt.ID] = &stored
	r.order = append(r.order, apt.ID)

	out := stored
	return &out, nil
}

// GetByID retrieves an appointment by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apt, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	out := *apt
	return &out, nil
}

// ListByPatient returns the patient's appointments in booking order.
func (r *InMemoryRepository) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	return r.filter(func(a *Appointment) bool { return a.PatientID == patientID }), nil
}

// ListByDate returns every appointment on date in booking order.
func (r *InMemoryRepository) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	return r.filter(func(a *Appointment) bool { return a.Date == date }), nil
}

// Cancel marks the appointment cancelled.
func (r *InMemoryRepository) Cancel(ctx context.Context, id string, at time.Time) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apt, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if apt.Status != StatusCancelled {
		apt.Status = StatusCancelled
		cancelledAt := at.UTC()
		apt.CancelledAt = &cancelledAt
	}
	out := *apt
	return &out, nil
}

// TakenSlots lists times held by confirmed appointments on date.
func (r *InMemoryRepository) TakenSlots(ctx context.Context, date string) ([]string, error) {
	held := r.filter(func(a *Appointment) bool { return a.Date == date && a.Status == StatusConfirmed })
	out := make([]string, 0, len(held))
	for _, a := range held {
		out = append(out, a.Time)
	}
	return out, nil
}

func (r *InMemoryRepository) filter(keep func(*Appointment) bool) []Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Appointment{}
	for _, id := range r.order {
		if apt := r.byID[id]; keep(apt) {
			out = append(out, *apt)
		}
	}
	return out
}
