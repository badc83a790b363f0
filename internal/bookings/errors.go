package bookings

import "errors"

var (
	// ErrInvalidRequest is returned when a booking request is malformed
	ErrInvalidRequest = errors.New("invalid booking request")

	// ErrUnknownTherapy is returned when the therapy id is not in the catalog
	ErrUnknownTherapy = errors.New("unknown therapy")

	// ErrSlotUnavailable is returned when the slot was taken between the
	// availability query and submission
	ErrSlotUnavailable = errors.New("slot no longer available")

	// ErrAppointmentNotFound is returned when an appointment is not found
	ErrAppointmentNotFound = errors.New("appointment not found")
)
