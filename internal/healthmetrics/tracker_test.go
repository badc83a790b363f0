package healthmetrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2025, 12, 2, 9, 0, 0, 0, time.UTC) }
}

func TestNewTrackerDefaults(t *testing.T) {
	tr := NewTracker(fixedClock())

	metrics := tr.Metrics()
	require.Len(t, metrics, 4)
	assert.Equal(t, "energy", metrics[0].ID)
	assert.Equal(t, 6, metrics[0].Value)
	assert.Equal(t, "stress", metrics[3].ID)
	assert.True(t, metrics[3].LowerIsBetter)
	assert.Empty(t, tr.Progress())
	assert.Len(t, WellnessTips(), 4)

	metrics[0].Value = 0
	assert.Equal(t, 6, tr.Metrics()[0].Value, "Metrics returns a copy")
}

func TestTrackerUpdate(t *testing.T) {
	tr := NewTracker(fixedClock())

	m, err := tr.Update("sleep", 8)
	require.NoError(t, err)
	assert.Equal(t, 8, m.Value)
	assert.Equal(t, 8, tr.Metrics()[2].Value)

	_, err = tr.Update("sleep", 11)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = tr.Update("sleep", -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = tr.Update("mood", 5)
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestTrackerAddCustom(t *testing.T) {
	tr := NewTracker(fixedClock())

	m, err := tr.AddCustom(CustomMetric{Name: "  Headache frequency ", Value: 3})
	require.NoError(t, err)
	assert.Equal(t, "headache-frequency", m.ID)
	assert.Equal(t, "Headache frequency", m.Name)
	assert.True(t, m.Custom)
	assert.Len(t, tr.Metrics(), 5)

	_, err = tr.AddCustom(CustomMetric{Name: "headache  FREQUENCY", Value: 4})
	assert.ErrorIs(t, err, ErrDuplicateMetric)

	_, err = tr.AddCustom(CustomMetric{Name: "Energy", Value: 4})
	assert.ErrorIs(t, err, ErrDuplicateMetric)

	_, err = tr.AddCustom(CustomMetric{Name: "", Value: 4})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = tr.AddCustom(CustomMetric{Name: "!!!", Value: 4})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = tr.AddCustom(CustomMetric{Name: "Appetite", Value: 12})
	assert.ErrorIs(t, err, ErrInvalidInput)

	m, err = tr.AddCustom(CustomMetric{Name: "Appetite", Value: 10})
	require.NoError(t, err)
	_, err = tr.Update(m.ID, 2)
	assert.NoError(t, err)
}

func TestTrackerRecord(t *testing.T) {
	tr := NewTracker(fixedClock())
	nasya := Session{AppointmentID: "apt-1", TherapyID: "nasya", Therapy: "Nasya", Date: "2025-11-15"}
	virechana := Session{AppointmentID: "apt-2", TherapyID: "virechana", Therapy: "Virechana", Date: "2025-11-20"}

	_, err := tr.Record(nasya, Feedback{Feedback: "Sinuses cleared.", Rating: 4.8})
	require.NoError(t, err)
	entry, err := tr.Record(virechana, Feedback{Feedback: "Felt lighter.", Rating: 4.5})
	require.NoError(t, err)
	assert.Equal(t, "Completed", entry.Status)
	assert.Equal(t, "Virechana", entry.Therapy)

	progress := tr.Progress()
	require.Len(t, progress, 2)
	assert.Equal(t, "apt-2", progress[0].AppointmentID, "newest session first")

	_, err = tr.Record(nasya, Feedback{Feedback: "Even better a week later.", Rating: 5})
	require.NoError(t, err)
	progress = tr.Progress()
	require.Len(t, progress, 2)
	assert.Equal(t, "Even better a week later.", progress[1].Feedback)

	_, err = tr.Record(nasya, Feedback{Feedback: " ", Rating: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = tr.Record(nasya, Feedback{Feedback: "ok", Rating: 5.5})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = tr.Record(Session{}, Feedback{Feedback: "ok", Rating: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "mood", slug("Mood"))
	assert.Equal(t, "joint-pain-am", slug("Joint pain (AM)"))
	assert.Equal(t, "", slug("--"))
}
