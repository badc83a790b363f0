package backend

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/availability"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/practitioners"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/recommend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
)

// Simulated latencies per operation at scale 1.
var mockDelays = map[string]time.Duration{
	OpListTherapies:       300 * time.Millisecond,
	OpCheckAvailability:   500 * time.Millisecond,
	OpSubmitBooking:       800 * time.Millisecond,
	OpFetchAppointments:   300 * time.Millisecond,
	OpCancelAppointment:   500 * time.Millisecond,
	OpRecommendTherapy:    1500 * time.Millisecond,
	OpPractitionerDetails: 300 * time.Millisecond,
}

// MockOption configures a Mock.
type MockOption func(*Mock)

// WithLatencyScale multiplies every simulated delay. 0 disables delays.
func WithLatencyScale(scale float64) MockOption {
	return func(m *Mock) {
		if scale >= 0 {
			m.scale = scale
		}
	}
}

// WithMockClock overrides time.Now for ids and timestamps.
func WithMockClock(now func() time.Time) MockOption {
	return func(m *Mock) {
		if now != nil {
			m.now = now
		}
	}
}

// WithMockSlots replaces the fixed availability answer.
func WithMockSlots(slots ...string) MockOption {
	return func(m *Mock) { m.slots = slices.Clone(slots) }
}

// WithMockRecommender replaces the placeholder recommender.
func WithMockRecommender(r recommend.Recommender) MockOption {
	return func(m *Mock) {
		if r != nil {
			m.recommender = r
		}
	}
}

// Mock reproduces the canned behavior of the patient app before a backend
// existed: fixed catalog and slots, BOOKING-<millis> ids, no persistence.
type Mock struct {
	scale       float64
	now         func() time.Time
	slots       []string
	catalog     []therapies.Therapy
	recommender recommend.Recommender
	directory   practitioners.Directory

	mu       sync.Mutex
	lastID   int64
	failures map[string]error
}

// NewMock creates a mock backend.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		scale:       1,
		now:         time.Now,
		slots:       slices.Clone(availability.DefaultSlots),
		catalog:     therapies.DefaultTherapies(),
		recommender: recommend.NewPlaceholder(nil),
		directory:   practitioners.NewStaticDirectory(""),
		failures:    make(map[string]error),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fail makes op return err until Recover is called.
func (m *Mock) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

// Recover clears an injected failure.
func (m *Mock) Recover(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failures, op)
}

func (m *Mock) ListTherapies(ctx context.Context) ([]therapies.Therapy, error) {
	if err := m.simulate(ctx, OpListTherapies); err != nil {
		return nil, fetchErr(OpListTherapies, err)
	}
	return slices.Clone(m.catalog), nil
}

func (m *Mock) CheckAvailability(ctx context.Context, therapyID, date string) ([]string, error) {
	if err := m.simulate(ctx, OpCheckAvailability); err != nil {
		return nil, fetchErr(OpCheckAvailability, err)
	}
	return slices.Clone(m.slots), nil
}

func (m *Mock) SubmitBooking(ctx context.Context, req bookings.Request) (bookings.Appointment, error) {
	if err := m.simulate(ctx, OpSubmitBooking); err != nil {
		return bookings.Appointment{}, &BookingError{Err: err}
	}
	therapy, ok := therapies.Lookup(m.catalog, req.TherapyID)
	if !ok {
		return bookings.Appointment{}, &BookingError{Err: fmt.Errorf("%w: %s", bookings.ErrUnknownTherapy, req.TherapyID)}
	}

	now := m.now()
	return bookings.Appointment{
		ID:               m.nextID(now),
		PatientID:        req.PatientID,
		TherapyID:        therapy.ID,
		TherapyTitle:     therapy.Title,
		Subtitle:         therapy.Subtitle,
		Duration:         therapy.Duration,
		Date:             req.Date,
		Time:             req.Time,
		Price:            therapy.Price,
		Notes:            req.Notes,
		Status:           bookings.StatusConfirmed,
		PractitionerName: "Dr. Sharma",
		CreatedAt:        now.UTC(),
	}, nil
}

func (m *Mock) FetchPatientAppointments(ctx context.Context, patientID string) ([]bookings.Appointment, error) {
	if err := m.simulate(ctx, OpFetchAppointments); err != nil {
		return nil, fetchErr(OpFetchAppointments, err)
	}
	return []bookings.Appointment{}, nil
}

func (m *Mock) CancelAppointment(ctx context.Context, appointmentID string) error {
	return fetchErr(OpCancelAppointment, m.simulate(ctx, OpCancelAppointment))
}

func (m *Mock) RecommendTherapy(ctx context.Context, symptoms string) (recommend.Recommendation, error) {
	if err := m.simulate(ctx, OpRecommendTherapy); err != nil {
		return recommend.Recommendation{}, fetchErr(OpRecommendTherapy, err)
	}
	rec, err := m.recommender.Recommend(ctx, symptoms)
	if err != nil {
		return recommend.Recommendation{}, fetchErr(OpRecommendTherapy, err)
	}
	return recommend.Resolve(rec, m.catalog), nil
}

func (m *Mock) PractitionerDetails(ctx context.Context, practitionerID string) (practitioners.Practitioner, error) {
	if err := m.simulate(ctx, OpPractitionerDetails); err != nil {
		return practitioners.Practitioner{}, fetchErr(OpPractitionerDetails, err)
	}
	p, err := m.directory.Get(ctx, practitionerID)
	if err != nil {
		return practitioners.Practitioner{}, fetchErr(OpPractitionerDetails, err)
	}
	return p, nil
}

// simulate waits out the scaled delay, then reports any injected failure.
func (m *Mock) simulate(ctx context.Context, op string) error {
	if d := time.Duration(float64(mockDelays[op]) * m.scale); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[op]
}

// nextID returns BOOKING-<unix millis>, bumped when two bookings land in the
// same millisecond.
func (m *Mock) nextID(now time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := now.UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return fmt.Sprintf("BOOKING-%d", id)
}
