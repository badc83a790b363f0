package wizard

import (
	"slices"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
)

// Progress step statuses.
const (
	StepDone     = "done"
	StepCurrent  = "current"
	StepUpcoming = "upcoming"
)

var stepLabels = [...]string{"Therapy", "Date & Time", "Review", "Confirm"}

// ProgressStep is one entry of the progress indicator.
type ProgressStep struct {
	Number int    `json:"number"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

// Progress projects a state onto the four-step indicator.
func Progress(state State) []ProgressStep {
	current := int(state)
	out := make([]ProgressStep, len(stepLabels))
	for i, label := range stepLabels {
		n := i + 1
		status := StepUpcoming
		switch {
		case n < current:
			status = StepDone
		case n == current:
			status = StepCurrent
		}
		out[i] = ProgressStep{Number: n, Label: label, Status: status}
	}
	return out
}

// View is a read-only snapshot for rendering.
type View struct {
	State               string                `json:"state"`
	Step                int                   `json:"step"`
	Progress            []ProgressStep        `json:"progress"`
	Therapies           []therapies.Therapy   `json:"therapies"`
	TherapiesLoaded     bool                  `json:"therapiesLoaded"`
	Therapy             *therapies.Therapy    `json:"therapy,omitempty"`
	Date                string                `json:"date,omitempty"`
	Time                string                `json:"time,omitempty"`
	Note                string                `json:"note,omitempty"`
	Slots               []string              `json:"slots"`
	AvailabilityPending bool                  `json:"availabilityPending"`
	AvailabilityError   string                `json:"availabilityError,omitempty"`
	Error               string                `json:"error,omitempty"`
	CanProceed          bool                  `json:"canProceed"`
	CanConfirm          bool                  `json:"canConfirm"`
	LastBooked          *bookings.Appointment `json:"lastBooked,omitempty"`
}

// View returns the current snapshot.
func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	d := w.copyDraft()
	v := View{
		State:               w.state.String(),
		Step:                int(w.state),
		Progress:            Progress(w.state),
		Therapies:           slices.Clone(w.catalog),
		TherapiesLoaded:     w.loaded,
		Therapy:             d.Therapy,
		Date:                d.Date,
		Time:                d.Time,
		Note:                d.Note,
		Slots:               slices.Clone(w.slots),
		AvailabilityPending: w.pending,
		AvailabilityError:   w.slotErr,
		Error:               w.err,
		CanProceed:          w.state == SelectingDateTime && !w.pending && d.Date != "" && d.Time != "",
		CanConfirm:          w.state == Confirming,
	}
	if v.Therapies == nil {
		v.Therapies = []therapies.Therapy{}
	}
	if v.Slots == nil {
		v.Slots = []string{}
	}
	if w.lastBooked != nil {
		booked := *w.lastBooked
		v.LastBooked = &booked
	}
	return v
}
