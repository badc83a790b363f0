// Package wizard implements the four-step therapy booking flow: pick a
// therapy, pick a date and slot, review, submit.
//
// A Wizard owns the draft for one patient. Backend calls run without the lock
// held, so an answer to an older availability query can arrive after a newer
// one; each query is tagged with a generation and its date, and answers that
// no longer match are dropped.
package wizard

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/appointments"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/backend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
)

// State is a resting state of the wizard.
type State int

const (
	SelectingTherapy State = iota + 1
	SelectingDateTime
	Confirming
	Submitting
)

func (s State) String() string {
	switch s {
	case SelectingTherapy:
		return "selecting_therapy"
	case SelectingDateTime:
		return "selecting_datetime"
	case Confirming:
		return "confirming"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Outcome labels reported to the Observer when a submission finishes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Backend is the subset of backend.Service the wizard calls.
type Backend interface {
	ListTherapies(ctx context.Context) ([]therapies.Therapy, error)
	CheckAvailability(ctx context.Context, therapyID, date string) ([]string, error)
	SubmitBooking(ctx context.Context, req bookings.Request) (bookings.Appointment, error)
}

// Observer is told about state changes and dropped availability answers.
type Observer interface {
	Transition(from, to string)
	StaleResponse()
}

// Draft is the booking being composed.
type Draft struct {
	Therapy *therapies.Therapy
	Date    string
	Time    string
	Note    string
}

// Contact is passed along with the booking for confirmation mail.
type Contact struct {
	Name  string
	Email string
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithObserver reports transitions and stale answers to o.
func WithObserver(o Observer) Option {
	return func(w *Wizard) { w.observer = o }
}

// WithContact attaches patient contact details to submitted bookings.
func WithContact(c Contact) Option {
	return func(w *Wizard) { w.contact = c }
}

// Wizard is safe for concurrent use.
type Wizard struct {
	backend   Backend
	store     *appointments.Store
	patientID string
	contact   Contact
	observer  Observer

	mu         sync.Mutex
	state      State
	catalog    []therapies.Therapy
	loaded     bool
	loading    bool
	draft      Draft
	slots      []string
	pending    bool
	generation uint64
	slotErr    string
	err        string
	lastBooked *bookings.Appointment
}

// New creates a wizard for patientID. Booked appointments are appended to
// store.
func New(b Backend, store *appointments.Store, patientID string, opts ...Option) *Wizard {
	if b == nil {
		panic("wizard: backend required")
	}
	if store == nil {
		panic("wizard: appointment store required")
	}
	w := &Wizard{
		backend:   b,
		store:     store,
		patientID: patientID,
		state:     SelectingTherapy,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draft returns a copy of the booking being composed.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.copyDraft()
}

// Load fetches the therapy catalog. It may be retried after a failure while
// the wizard is still selecting a therapy.
func (w *Wizard) Load(ctx context.Context) error {
	w.mu.Lock()
	if w.state != SelectingTherapy {
		defer w.mu.Unlock()
		return invalid("load", w.state)
	}
	if w.loading {
		w.mu.Unlock()
		return invalid("load while loading", SelectingTherapy)
	}
	w.loading = true
	w.err = ""
	w.mu.Unlock()

	items, err := w.backend.ListTherapies(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = false
	if err != nil {
		if w.state == SelectingTherapy {
			w.err = MsgLoadFailed
		}
		return asFetchError(backend.OpListTherapies, err)
	}
	w.catalog = slices.Clone(items)
	w.loaded = true
	return nil
}

// SelectTherapy starts a booking for id and moves to date selection.
func (w *Wizard) SelectTherapy(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != SelectingTherapy {
		return invalid("select therapy", w.state)
	}
	if !w.loaded {
		return invalid("select therapy before therapies are loaded", w.state)
	}
	t, ok := therapies.Lookup(w.catalog, id)
	if !ok {
		return ErrUnknownTherapy
	}

	w.clearDraft()
	w.draft.Therapy = &t
	w.lastBooked = nil
	w.err = ""
	w.transition(SelectingDateTime)
	return nil
}

// SelectDate sets the date, clears the time and queries availability. Only
// the answer to the latest query is applied; an older answer returns
// ErrStaleResponse and leaves the wizard untouched.
func (w *Wizard) SelectDate(ctx context.Context, date string) error {
	date = strings.TrimSpace(date)

	w.mu.Lock()
	if w.state != SelectingDateTime {
		defer w.mu.Unlock()
		return invalid("select date", w.state)
	}
	if date == "" {
		w.mu.Unlock()
		return ErrIncomplete
	}
	w.draft.Date = date
	w.draft.Time = ""
	w.slots = nil
	w.slotErr = ""
	w.pending = true
	w.generation++
	gen := w.generation
	therapyID := w.draft.Therapy.ID
	w.mu.Unlock()

	slots, err := w.backend.CheckAvailability(ctx, therapyID, date)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation || w.draft.Date != date || w.state != SelectingDateTime {
		if w.observer != nil {
			w.observer.StaleResponse()
		}
		return ErrStaleResponse
	}
	w.pending = false
	if err != nil {
		w.slots = []string{}
		w.slotErr = MsgAvailabilityFailed
		return asFetchError(backend.OpCheckAvailability, err)
	}
	if slots == nil {
		slots = []string{}
	}
	w.slots = slices.Clone(slots)
	return nil
}

// SelectTime picks a slot from the current availability answer.
func (w *Wizard) SelectTime(slot string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != SelectingDateTime {
		return invalid("select time", w.state)
	}
	if w.pending {
		return ErrAvailabilityPending
	}
	if w.draft.Date == "" {
		return ErrIncomplete
	}
	if !slices.Contains(w.slots, slot) {
		return ErrUnknownSlot
	}
	w.draft.Time = slot
	return nil
}

// SetNote records a note for the practitioner.
func (w *Wizard) SetNote(note string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != SelectingDateTime && w.state != Confirming {
		return invalid("set note", w.state)
	}
	w.draft.Note = note
	return nil
}

// Proceed moves to review once a date and time are chosen.
func (w *Wizard) Proceed() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != SelectingDateTime {
		return invalid("proceed", w.state)
	}
	if w.pending {
		return ErrAvailabilityPending
	}
	if w.draft.Date == "" || w.draft.Time == "" {
		return ErrIncomplete
	}
	w.err = ""
	w.transition(Confirming)
	return nil
}

// Back returns from review to date selection, keeping the draft.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Confirming {
		return invalid("back", w.state)
	}
	w.err = ""
	w.transition(SelectingDateTime)
	return nil
}

// Confirm submits the draft. On success the appointment is appended to the
// store and the wizard starts over; on failure it stays in review with the
// draft intact.
func (w *Wizard) Confirm(ctx context.Context) (bookings.Appointment, error) {
	w.mu.Lock()
	if w.state != Confirming {
		defer w.mu.Unlock()
		return bookings.Appointment{}, invalid("confirm", w.state)
	}
	req := bookings.Request{
		PatientID:    w.patientID,
		TherapyID:    w.draft.Therapy.ID,
		Date:         w.draft.Date,
		Time:         w.draft.Time,
		Notes:        w.draft.Note,
		PatientName:  w.contact.Name,
		PatientEmail: w.contact.Email,
	}
	w.err = ""
	w.generation++
	gen := w.generation
	w.transition(Submitting)
	w.mu.Unlock()

	apt, err := w.backend.SubmitBooking(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	current := gen == w.generation && w.state == Submitting
	if err != nil {
		if current {
			w.err = MsgBookingFailed
			w.notify(Submitting.String(), OutcomeFailed)
			w.transition(Confirming)
		}
		return bookings.Appointment{}, asBookingError(err)
	}

	// The booking exists server-side even if the wizard was reset meanwhile.
	stored := w.store.Append(apt)
	if current {
		w.notify(Submitting.String(), OutcomeSuccess)
		w.clearDraft()
		w.lastBooked = &stored
		w.transition(SelectingTherapy)
	}
	return stored, nil
}

// Reset abandons the draft from any state. In-flight answers become stale.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	w.clearDraft()
	w.err = ""
	w.lastBooked = nil
	w.transition(SelectingTherapy)
}

// must hold mu
func (w *Wizard) clearDraft() {
	w.draft = Draft{}
	w.slots = nil
	w.pending = false
	w.slotErr = ""
}

// must hold mu
func (w *Wizard) transition(to State) {
	from := w.state
	w.state = to
	if from != to {
		w.notify(from.String(), to.String())
	}
}

func (w *Wizard) notify(from, to string) {
	if w.observer != nil {
		w.observer.Transition(from, to)
	}
}

func (w *Wizard) copyDraft() Draft {
	d := w.draft
	if d.Therapy != nil {
		t := *d.Therapy
		d.Therapy = &t
	}
	return d
}

func asFetchError(op string, err error) error {
	var fe *backend.FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &backend.FetchError{Op: op, Err: err}
}

func asBookingError(err error) error {
	var be *backend.BookingError
	if errors.As(err, &be) {
		return err
	}
	return &backend.BookingError{Err: err}
}
