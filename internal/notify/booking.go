package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// BookingNotifier emails appointment confirmations to patients.
type BookingNotifier struct {
	email      EmailSender
	clinicName string
	logger     *logging.Logger
}

// NewBookingNotifier creates a notifier. clinicName appears in the subject and
// signature; empty falls back to DefaultFromName.
func NewBookingNotifier(email EmailSender, clinicName string, logger *logging.Logger) *BookingNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(clinicName) == "" {
		clinicName = DefaultFromName
	}
	return &BookingNotifier{email: email, clinicName: clinicName, logger: logger}
}

// AppointmentConfirmed sends the confirmation for apt. A blank address or a
// missing sender is a no-op.
func (n *BookingNotifier) AppointmentConfirmed(ctx context.Context, apt bookings.Appointment, email, name string) error {
	email = strings.TrimSpace(email)
	if n == nil || n.email == nil || email == "" {
		return nil
	}

	msg := ConfirmationMessage(apt, n.clinicName)
	msg.To = email
	msg.ToName = strings.TrimSpace(name)
	if err := n.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: confirmation for %s: %w", apt.ID, err)
	}
	n.logger.Debug("booking confirmation sent", "appointment_id", apt.ID)
	return nil
}

// ConfirmationMessage renders the subject and bodies for apt. Recipient
// fields are left empty.
func ConfirmationMessage(apt bookings.Appointment, clinicName string) EmailMessage {
	when := describeSlot(apt.Date, apt.Time)
	practitioner := apt.PractitionerName
	if practitioner == "" {
		practitioner = "your practitioner"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your %s appointment is confirmed.\n\n", apt.TherapyTitle)
	fmt.Fprintf(&b, "Booking ID: %s\n", apt.ID)
	fmt.Fprintf(&b, "When: %s\n", when)
	if apt.Duration != "" {
		fmt.Fprintf(&b, "Duration: %s\n", apt.Duration)
	}
	fmt.Fprintf(&b, "Practitioner: %s\n", practitioner)
	fmt.Fprintf(&b, "Price: $%.2f\n", apt.Price)
	if apt.Notes != "" {
		fmt.Fprintf(&b, "Your notes: %s\n", apt.Notes)
	}
	fmt.Fprintf(&b, "\n%s", clinicName)

	var h strings.Builder
	fmt.Fprintf(&h, "<p>Your <strong>%s</strong> appointment is confirmed.</p><ul>", html.EscapeString(apt.TherapyTitle))
	fmt.Fprintf(&h, "<li>Booking ID: %s</li>", html.EscapeString(apt.ID))
	fmt.Fprintf(&h, "<li>When: %s</li>", html.EscapeString(when))
	if apt.Duration != "" {
		fmt.Fprintf(&h, "<li>Duration: %s</li>", html.EscapeString(apt.Duration))
	}
	fmt.Fprintf(&h, "<li>Practitioner: %s</li>", html.EscapeString(practitioner))
	fmt.Fprintf(&h, "<li>Price: $%.2f</li>", apt.Price)
	if apt.Notes != "" {
		fmt.Fprintf(&h, "<li>Your notes: %s</li>", html.EscapeString(apt.Notes))
	}
	fmt.Fprintf(&h, "</ul><p>%s</p>", html.EscapeString(clinicName))

	return EmailMessage{
		Subject:  fmt.Sprintf("%s confirmed - %s", apt.TherapyTitle, clinicName),
		Body:     b.String(),
		HTML:     h.String(),
		Category: CategoryConfirmation,
	}
}

// describeSlot formats "2025-12-01" "10:30" as "Monday, December 1, 2025 at
// 10:30 AM", falling back to the raw values.
func describeSlot(date, clock string) string {
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return strings.TrimSpace(date + " " + clock)
	}
	return t.Format("Monday, January 2, 2006 at 3:04 PM")
}

var _ bookings.Notifier = (*BookingNotifier)(nil)
