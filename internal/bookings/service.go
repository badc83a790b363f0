package bookings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

var bookingsTracer = otel.Tracer("clinic.internal.bookings")

// Booking outcomes reported to Metrics.
const (
	ResultConfirmed = "confirmed"
	ResultConflict  = "conflict"
	ResultRejected  = "rejected"
	ResultError     = "error"
)

// SlotChecker reports the open slots for a therapy on a date.
type SlotChecker interface {
	Check(ctx context.Context, therapyID, date string) ([]string, error)
}

// SlotInvalidator drops cached availability for a date.
type SlotInvalidator interface {
	Invalidate(ctx context.Context, date string) error
}

// Notifier sends the booking confirmation to the patient.
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, apt Appointment, email, name string) error
}

// Metrics records booking outcomes.
type Metrics interface {
	ObserveBooking(result string)
}

// Option configures a Service.
type Option func(*Service)

// WithChecker re-checks availability right before storing a booking.
func WithChecker(c SlotChecker) Option {
	return func(s *Service) { s.checker = c }
}

// WithInvalidator drops cached slots after bookings and cancellations.
func WithInvalidator(i SlotInvalidator) Option {
	return func(s *Service) { s.invalidator = i }
}

// WithNotifier sends confirmation mail after a booking.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMetrics records booking outcomes.
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPractitioner sets the practitioner name stamped on appointments.
func WithPractitioner(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.practitioner = name
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service turns booking requests into stored appointments.
type Service struct {
	repo         Repository
	catalog      therapies.Catalog
	checker      SlotChecker
	invalidator  SlotInvalidator
	notifier     Notifier
	metrics      Metrics
	practitioner string
	now          func() time.Time
	logger       *logging.Logger
}

// NewService constructs a bookings service.
func NewService(repo Repository, catalog therapies.Catalog, logger *logging.Logger, opts ...Option) *Service {
	if repo == nil {
		panic("bookings: repository required")
	}
	if catalog == nil {
		panic("bookings: therapy catalog required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		repo:         repo,
		catalog:      catalog,
		practitioner: "Dr. Sharma",
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates req and stores a confirmed appointment with a fresh id.
func (s *Service) Submit(ctx context.Context, req Request) (*Appointment, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.submit", trace.WithAttributes(
		attribute.String("clinic.therapy_id", req.TherapyID),
		attribute.String("clinic.date", req.Date),
		attribute.String("clinic.time", req.Time),
	))
	defer span.End()

	apt, err := s.submit(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, resultFor(err))
		s.observe(resultFor(err))
		return nil, err
	}
	s.observe(ResultConfirmed)
	span.SetAttributes(attribute.String("clinic.appointment_id", apt.ID))
	s.logger.Info("appointment booked",
		"appointment_id", apt.ID,
		"patient_id", apt.PatientID,
		"therapy_id", apt.TherapyID,
		"date", apt.Date,
		"time", apt.Time,
	)

	s.invalidate(ctx, apt.Date)
	if s.notifier != nil && req.PatientEmail != "" {
		if err := s.notifier.AppointmentConfirmed(ctx, *apt, req.PatientEmail, req.PatientName); err != nil {
			s.logger.Warn("confirmation email failed", "appointment_id", apt.ID, "error", err)
		}
	}
	return apt, nil
}

func (s *Service) submit(ctx context.Context, req Request) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	therapy, err := therapies.Find(ctx, s.catalog, req.TherapyID)
	if err != nil {
		if errors.Is(err, therapies.ErrTherapyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTherapy, req.TherapyID)
		}
		return nil, fmt.Errorf("bookings: load catalog: %w", err)
	}

	if s.checker != nil {
		slots, err := s.checker.Check(ctx, therapy.ID, req.Date)
		if err != nil {
			return nil, fmt.Errorf("bookings: check availability: %w", err)
		}
		if !slices.Contains(slots, req.Time) {
			return nil, ErrSlotUnavailable
		}
	}

	apt := Appointment{
		ID:               uuid.NewString(),
		PatientID:        req.PatientID,
		TherapyID:        therapy.ID,
		TherapyTitle:     therapy.Title,
		Subtitle:         therapy.Subtitle,
		Duration:         therapy.Duration,
		Date:             req.Date,
		Time:             req.Time,
		Price:            therapy.Price,
		Notes:            req.Notes,
		Status:           StatusConfirmed,
		PractitionerName: s.practitioner,
		CreatedAt:        s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, apt)
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("bookings: store appointment: %w", err)
	}
	return stored, nil
}

// Cancel marks an appointment cancelled. Cancelling twice succeeds.
func (s *Service) Cancel(ctx context.Context, id string) (*Appointment, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.cancel",
		trace.WithAttributes(attribute.String("clinic.appointment_id", id)))
	defer span.End()

	apt, err := s.repo.Cancel(ctx, id, s.now())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.invalidate(ctx, apt.Date)
	s.logger.Info("appointment cancelled", "appointment_id", apt.ID, "date", apt.Date, "time", apt.Time)
	return apt, nil
}

// ListForPatient returns the patient's appointments.
func (s *Service) ListForPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// ListForDate returns the day's appointments.
func (s *Service) ListForDate(ctx context.Context, date string) ([]Appointment, error) {
	return s.repo.ListByDate(ctx, date)
}

func (s *Service) invalidate(ctx context.Context, date string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, date); err != nil {
		s.logger.Warn("availability cache invalidation failed", "date", date, "error", err)
	}
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveBooking(result)
	}
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, ErrSlotUnavailable):
		return ResultConflict
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrUnknownTherapy):
		return ResultRejected
	default:
		return ResultError
	}
}
