package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func sampleAppointment() bookings.Appointment {
	return bookings.Appointment{
		ID:               "apt-42",
		TherapyID:        "virechana",
		TherapyTitle:     "Virechana",
		Duration:         "3-5 days",
		Date:             "2025-12-01",
		Time:             "10:30",
		Price:            200,
		Notes:            "<first visit>",
		PractitionerName: "Dr. Sharma",
		Status:           bookings.StatusConfirmed,
	}
}

func TestBookingNotifierSendsConfirmation(t *testing.T) {
	sender := &recordingSender{}
	n := NewBookingNotifier(sender, "", logging.Discard())

	err := n.AppointmentConfirmed(context.Background(), sampleAppointment(), " asha@example.com ", "Asha")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "asha@example.com", msg.To)
	assert.Equal(t, "Asha", msg.ToName)
	assert.Equal(t, "Virechana confirmed - "+DefaultFromName, msg.Subject)
	assert.Equal(t, CategoryConfirmation, msg.Category)
	assert.Contains(t, msg.Body, "Booking ID: apt-42")
	assert.Contains(t, msg.Body, "Monday, December 1, 2025 at 10:30 AM")
	assert.Contains(t, msg.Body, "Price: $200.00")
	assert.Contains(t, msg.HTML, "&lt;first visit&gt;")
}

func TestBookingNotifierSkipsBlankEmail(t *testing.T) {
	sender := &recordingSender{}
	n := NewBookingNotifier(sender, "Clinic", logging.Discard())

	require.NoError(t, n.AppointmentConfirmed(context.Background(), sampleAppointment(), "  ", "Asha"))
	assert.Empty(t, sender.sent)

	var none *BookingNotifier
	assert.NoError(t, none.AppointmentConfirmed(context.Background(), sampleAppointment(), "a@example.com", ""))
}

func TestBookingNotifierWrapsSendError(t *testing.T) {
	boom := errors.New("smtp down")
	n := NewBookingNotifier(&recordingSender{err: boom}, "Clinic", logging.Discard())

	err := n.AppointmentConfirmed(context.Background(), sampleAppointment(), "a@example.com", "")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "apt-42")
}

func TestConfirmationMessageFallsBackOnOddSlot(t *testing.T) {
	apt := sampleAppointment()
	apt.Time = "late morning"
	apt.PractitionerName = ""
	apt.Notes = ""

	msg := ConfirmationMessage(apt, "Clinic")
	assert.Contains(t, msg.Body, "When: 2025-12-01 late morning")
	assert.Contains(t, msg.Body, "Practitioner: your practitioner")
	assert.NotContains(t, msg.Body, "Your notes")
}
