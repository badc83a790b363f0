package bookings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Date and time layouts used on the wire.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment is a confirmed booking.
type Appointment struct {
	ID               string     `json:"id"`
	PatientID        string     `json:"patientId,omitempty"`
	TherapyID        string     `json:"therapyId"`
	TherapyTitle     string     `json:"therapy,omitempty"`
	Subtitle         string     `json:"subtitle,omitempty"`
	Duration         string     `json:"duration,omitempty"`
	Date             string     `json:"date"`
	Time             string     `json:"time"`
	Price            float64    `json:"price"`
	Notes            string     `json:"notes"`
	Status           Status     `json:"status"`
	PractitionerName string     `json:"practitionerName"`
	CreatedAt        time.Time  `json:"createdAt"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
}

// StartsAt combines Date and Time in loc. ok is false when either field does
// not parse.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	layout := DateLayout + " " + TimeLayout
	value := a.Date + " " + a.Time
	if strings.TrimSpace(a.Time) == "" {
		layout, value = DateLayout, a.Date
	}
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Request is a fully composed booking submitted by a patient.
type Request struct {
	PatientID    string `json:"patientId" validate:"required,max=128"`
	TherapyID    string `json:"therapyId" validate:"required,max=64"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time" validate:"required,datetime=15:04"`
	Notes        string `json:"notes,omitempty" validate:"max=2000"`
	PatientName  string `json:"patientName,omitempty" validate:"max=200"`
	PatientEmail string `json:"patientEmail,omitempty" validate:"omitempty,email"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the request shape. It does not check the catalog or slots.
func (r *Request) Validate() error {
	r.TherapyID = strings.TrimSpace(r.TherapyID)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
