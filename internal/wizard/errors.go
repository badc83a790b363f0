package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current state
	ErrInvalidTransition = errors.New("wizard: invalid transition")

	// ErrUnknownTherapy is returned when the therapy id is not in the loaded catalog
	ErrUnknownTherapy = errors.New("wizard: unknown therapy")

	// ErrAvailabilityPending is returned while a slot query is in flight
	ErrAvailabilityPending = errors.New("wizard: availability check pending")

	// ErrUnknownSlot is returned when the time is not in the current slot result
	ErrUnknownSlot = errors.New("wizard: time is not an available slot")

	// ErrIncomplete is returned when required booking details are missing
	ErrIncomplete = errors.New("wizard: booking details incomplete")

	// ErrStaleResponse is returned to a SelectDate call whose answer arrived
	// after a newer selection replaced it
	ErrStaleResponse = errors.New("wizard: availability response superseded")
)

// Messages shown to the patient.
const (
	MsgLoadFailed         = "Could not load therapies. Try again."
	MsgAvailabilityFailed = "Could not check availability. Try again."
	MsgBookingFailed      = "An error occurred while booking. Please try again."
)

func invalid(op string, state State) error {
	return fmt.Errorf("%w: %s not allowed while %s", ErrInvalidTransition, op, state)
}
