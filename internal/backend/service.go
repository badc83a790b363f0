// Package backend defines the capability set the booking wizard calls
// through, with in-process, mocked and HTTP implementations.
package backend

import (
	"context"
	"fmt"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/practitioners"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/recommend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
)

// Operation names used in FetchError and for mock failure injection.
const (
	OpListTherapies       = "list therapies"
	OpCheckAvailability   = "check availability"
	OpSubmitBooking       = "submit booking"
	OpFetchAppointments   = "fetch appointments"
	OpCancelAppointment   = "cancel appointment"
	OpRecommendTherapy    = "recommend therapy"
	OpPractitionerDetails = "practitioner details"
)

// Service is everything the patient-facing flow needs from the clinic.
// Read operations fail with *FetchError; SubmitBooking fails with
// *BookingError.
type Service interface {
	ListTherapies(ctx context.Context) ([]therapies.Therapy, error)
	CheckAvailability(ctx context.Context, therapyID, date string) ([]string, error)
	SubmitBooking(ctx context.Context, req bookings.Request) (bookings.Appointment, error)
	FetchPatientAppointments(ctx context.Context, patientID string) ([]bookings.Appointment, error)
	CancelAppointment(ctx context.Context, appointmentID string) error
	RecommendTherapy(ctx context.Context, symptoms string) (recommend.Recommendation, error)
	PractitionerDetails(ctx context.Context, practitionerID string) (practitioners.Practitioner, error)
}

// FetchError reports a failed read against the backend.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("backend: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// BookingError reports a failed booking submission.
type BookingError struct {
	Err error
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("backend: %s: %v", OpSubmitBooking, e.Err)
}

func (e *BookingError) Unwrap() error { return e.Err }

func fetchErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Op: op, Err: err}
}
