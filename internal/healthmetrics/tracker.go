// Package healthmetrics tracks a patient's self-reported wellness scores and
// post-therapy feedback for the length of a session.
package healthmetrics

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxScore is the top of every metric's scale.
const MaxScore = 10

// Metric is one tracked score on a 0-10 scale.
type Metric struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Unit          string    `json:"unit"`
	Value         int       `json:"value"`
	LowerIsBetter bool      `json:"lowerIsBetter,omitempty"`
	Custom        bool      `json:"custom,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProgressEntry is the patient's feedback on a completed therapy session.
type ProgressEntry struct {
	ID            string    `json:"id"`
	AppointmentID string    `json:"appointmentId"`
	TherapyID     string    `json:"therapyId"`
	Therapy       string    `json:"therapy"`
	Date          string    `json:"date"`
	Status        string    `json:"status"`
	Feedback      string    `json:"feedback"`
	Rating        float64   `json:"rating"`
	RecordedAt    time.Time `json:"recordedAt"`
}

// CustomMetric is the input for a patient-defined metric.
type CustomMetric struct {
	Name  string `json:"name" validate:"required,max=80"`
	Value int    `json:"value" validate:"min=0,max=10"`
}

// Feedback is the input for a progress entry.
type Feedback struct {
	AppointmentID string  `json:"appointmentId" validate:"required"`
	Feedback      string  `json:"feedback" validate:"required,max=2000"`
	Rating        float64 `json:"rating" validate:"min=0,max=5"`
}

// Session describes the appointment feedback refers to.
type Session struct {
	AppointmentID string
	TherapyID     string
	Therapy       string
	Date          string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultMetrics are the scores every patient starts with.
func DefaultMetrics() []Metric {
	return []Metric{
		{ID: "energy", Name: "Energy Level", Unit: "/10", Value: 6},
		{ID: "digestion", Name: "Digestion", Unit: "/10", Value: 7},
		{ID: "sleep", Name: "Sleep Quality", Unit: "/10", Value: 5},
		{ID: "stress", Name: "Stress Level", Unit: "/10", Value: 7, LowerIsBetter: true},
	}
}

// WellnessTips returns the general guidance shown alongside the metrics.
func WellnessTips() []string {
	return []string{
		"Maintain consistent sleep schedule to improve sleep quality",
		"Practice light stretching or yoga after meals for better digestion",
		"Stay hydrated and follow a balanced diet as recommended by your practitioner",
		"Track your metrics weekly to monitor progress and recovery",
	}
}

// Tracker holds one patient's metrics and progress notes. Safe for
// concurrent use.
type Tracker struct {
	now func() time.Time

	mu       sync.Mutex
	metrics  []Metric
	progress []ProgressEntry
}

// NewTracker starts from DefaultMetrics. now may be nil.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	t := &Tracker{now: now, metrics: DefaultMetrics()}
	at := now().UTC()
	for i := range t.metrics {
		t.metrics[i].UpdatedAt = at
	}
	return t
}

// Metrics returns the tracked metrics, defaults first then custom ones in
// the order they were added.
func (t *Tracker) Metrics() []Metric {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.metrics)
}

// Update records a new score for id.
func (t *Tracker) Update(id string, value int) (Metric, error) {
	if value < 0 || value > MaxScore {
		return Metric{}, fmt.Errorf("%w: value must be between 0 and %d", ErrInvalidInput, MaxScore)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.metrics {
		if t.metrics[i].ID == id {
			t.metrics[i].Value = value
			t.metrics[i].UpdatedAt = t.now().UTC()
			return t.metrics[i], nil
		}
	}
	return Metric{}, fmt.Errorf("%w: %s", ErrUnknownMetric, id)
}

// AddCustom starts tracking a patient-named metric. Its id is a slug of the
// name.
func (t *Tracker) AddCustom(in CustomMetric) (Metric, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := check(in); err != nil {
		return Metric{}, err
	}
	id := slug(in.Name)
	if id == "" {
		return Metric{}, fmt.Errorf("%w: name needs a letter or digit", ErrInvalidInput)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range t.metrics {
		if m.ID == id {
			return Metric{}, fmt.Errorf("%w: %s", ErrDuplicateMetric, in.Name)
		}
	}
	m := Metric{ID: id, Name: in.Name, Unit: "/10", Value: in.Value, Custom: true, UpdatedAt: t.now().UTC()}
	t.metrics = append(t.metrics, m)
	return m, nil
}

// Progress returns feedback entries, newest session date first.
func (t *Tracker) Progress() []ProgressEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := slices.Clone(t.progress)
	slices.SortStableFunc(out, func(a, b ProgressEntry) int {
		return strings.Compare(b.Date, a.Date)
	})
	return out
}

// Record stores feedback for a completed session. Feedback for the same
// appointment replaces the earlier entry.
func (t *Tracker) Record(s Session, in Feedback) (ProgressEntry, error) {
	in.AppointmentID = s.AppointmentID
	in.Feedback = strings.TrimSpace(in.Feedback)
	if err := check(in); err != nil {
		return ProgressEntry{}, err
	}

	entry := ProgressEntry{
		ID:            "progress-" + s.AppointmentID,
		AppointmentID: s.AppointmentID,
		TherapyID:     s.TherapyID,
		Therapy:       s.Therapy,
		Date:          s.Date,
		Status:        "Completed",
		Feedback:      in.Feedback,
		Rating:        in.Rating,
		RecordedAt:    t.now().UTC(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.progress {
		if t.progress[i].AppointmentID == s.AppointmentID {
			t.progress[i] = entry
			return entry, nil
		}
	}
	t.progress = append(t.progress, entry)
	return entry, nil
}

func check(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
