package backend

import (
	"context"
	"errors"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/availability"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/practitioners"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/recommend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
)

// Local serves the capability set from in-process components.
type Local struct {
	catalog     therapies.Catalog
	checker     availability.Checker
	bookings    *bookings.Service
	recommender recommend.Recommender
	directory   practitioners.Directory
}

// NewLocal composes the server-side components.
func NewLocal(catalog therapies.Catalog, checker availability.Checker, svc *bookings.Service, recommender recommend.Recommender, directory practitioners.Directory) *Local {
	if catalog == nil || checker == nil || svc == nil {
		panic("backend: catalog, checker and bookings service required")
	}
	if recommender == nil {
		recommender = recommend.NewPlaceholder(nil)
	}
	if directory == nil {
		directory = practitioners.NewStaticDirectory("")
	}
	return &Local{
		catalog:     catalog,
		checker:     checker,
		bookings:    svc,
		recommender: recommender,
		directory:   directory,
	}
}

func (l *Local) ListTherapies(ctx context.Context) ([]therapies.Therapy, error) {
	items, err := l.catalog.List(ctx)
	if err != nil {
		return nil, fetchErr(OpListTherapies, err)
	}
	return items, nil
}

func (l *Local) CheckAvailability(ctx context.Context, therapyID, date string) ([]string, error) {
	slots, err := l.checker.Check(ctx, therapyID, date)
	if err != nil {
		return nil, fetchErr(OpCheckAvailability, err)
	}
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}

func (l *Local) SubmitBooking(ctx context.Context, req bookings.Request) (bookings.Appointment, error) {
	apt, err := l.bookings.Submit(ctx, req)
	if err != nil {
		return bookings.Appointment{}, &BookingError{Err: err}
	}
	return *apt, nil
}

func (l *Local) FetchPatientAppointments(ctx context.Context, patientID string) ([]bookings.Appointment, error) {
	items, err := l.bookings.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, fetchErr(OpFetchAppointments, err)
	}
	return items, nil
}

func (l *Local) CancelAppointment(ctx context.Context, appointmentID string) error {
	_, err := l.bookings.Cancel(ctx, appointmentID)
	return fetchErr(OpCancelAppointment, err)
}

func (l *Local) RecommendTherapy(ctx context.Context, symptoms string) (recommend.Recommendation, error) {
	rec, err := l.recommender.Recommend(ctx, symptoms)
	if err != nil {
		return recommend.Recommendation{}, fetchErr(OpRecommendTherapy, err)
	}
	if items, err := l.catalog.List(ctx); err == nil {
		rec = recommend.Resolve(rec, items)
	}
	return rec, nil
}

func (l *Local) PractitionerDetails(ctx context.Context, practitionerID string) (practitioners.Practitioner, error) {
	p, err := l.directory.Get(ctx, practitionerID)
	if err != nil {
		return practitioners.Practitioner{}, fetchErr(OpPractitionerDetails, err)
	}
	return p, nil
}

// IsNotFound reports whether err means the appointment does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, bookings.ErrAppointmentNotFound)
}
