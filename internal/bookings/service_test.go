package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

type stubChecker struct {
	slots []string
	err   error
}

func (s stubChecker) Check(context.Context, string, string) ([]string, error) {
	return s.slots, s.err
}

type recordingInvalidator struct {
	mu    sync.Mutex
	dates []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, date)
	return nil
}

type recordingNotifier struct {
	sent []string
	err  error
}

func (r *recordingNotifier) AppointmentConfirmed(_ context.Context, apt Appointment, email, name string) error {
	r.sent = append(r.sent, apt.ID+"|"+email+"|"+name)
	return r.err
}

type recordingMetrics struct {
	results []string
}

func (r *recordingMetrics) ObserveBooking(result string) {
	r.results = append(r.results, result)
}

var fixedNow = time.Date(2025, 11, 20, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*Service, *InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(repo, therapies.NewStaticCatalog(), logging.Discard(), opts...), repo
}

func TestServiceSubmitCopiesCatalogFields(t *testing.T) {
	svc, repo := newTestService(t, WithPractitioner("Dr. Rao"))

	apt, err := svc.Submit(context.Background(), Request{
		PatientID: "p-1",
		TherapyID: "virechana",
		Date:      "2025-12-01",
		Time:      "10:30",
		Notes:     "prefers morning",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, "virechana", apt.TherapyID)
	assert.Equal(t, "Virechana", apt.TherapyTitle)
	assert.Equal(t, float64(180), apt.Price)
	assert.Equal(t, "2025-12-01", apt.Date)
	assert.Equal(t, "10:30", apt.Time)
	assert.Equal(t, "prefers morning", apt.Notes)
	assert.Equal(t, StatusConfirmed, apt.Status)
	assert.Equal(t, "Dr. Rao", apt.PractitionerName)
	assert.Equal(t, fixedNow, apt.CreatedAt)

	stored, err := repo.GetByID(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, *apt, *stored)
}

func TestServiceSubmitAssignsUniqueIDs(t *testing.T) {
	svc, _ := newTestService(t)
	seen := map[string]bool{}
	for _, slot := range []string{"09:00", "10:30", "14:00", "15:30", "16:45"} {
		apt, err := svc.Submit(context.Background(), Request{PatientID: "p-1", TherapyID: "nasya", Date: "2025-12-01", Time: slot})
		require.NoError(t, err)
		assert.False(t, seen[apt.ID], "duplicate id %s", apt.ID)
		seen[apt.ID] = true
	}
}

func TestServiceSubmitRejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, Request{PatientID: "p-1", TherapyID: "shirodhara", Date: "2025-12-01", Time: "10:30"})
	assert.ErrorIs(t, err, ErrUnknownTherapy)

	_, err = svc.Submit(ctx, Request{PatientID: "p-1", TherapyID: "nasya", Date: "", Time: "10:30"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Submit(ctx, Request{PatientID: "p-1", TherapyID: "nasya", Date: "2025-12-01", Time: "10:30"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, Request{PatientID: "p-2", TherapyID: "basti", Date: "2025-12-01", Time: "10:30"})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestServiceSubmitChecksAvailability(t *testing.T) {
	metrics := &recordingMetrics{}
	svc, _ := newTestService(t, WithChecker(stubChecker{slots: []string{"09:00"}}), WithMetrics(metrics))

	_, err := svc.Submit(context.Background(), Request{PatientID: "p-1", TherapyID: "nasya", Date: "2025-12-01", Time: "10:30"})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = svc.Submit(context.Background(), Request{PatientID: "p-1", TherapyID: "nasya", Date: "2025-12-01", Time: "09:00"})
	assert.NoError(t, err)
	assert.Equal(t, []string{ResultConflict, ResultConfirmed}, metrics.results)
}

func TestServiceSubmitCheckerFailure(t *testing.T) {
	metrics := &recordingMetrics{}
	svc, _ := newTestService(t, WithChecker(stubChecker{err: errors.New("schedule offline")}), WithMetrics(metrics))

	_, err := svc.Submit(context.Background(), Request{PatientID: "p-1", TherapyID: "nasya", Date: "2025-12-01", Time: "09:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule offline")
	assert.Equal(t, []string{ResultError}, metrics.results)
}

func TestServiceSubmitInvalidatesAndNotifies(t *testing.T) {
	invalidator := &recordingInvalidator{}
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc, _ := newTestService(t, WithInvalidator(invalidator), WithNotifier(notifier))

	apt, err := svc.Submit(context.Background(), Request{
		PatientID:    "p-1",
		TherapyID:    "basti",
		Date:         "2025-12-02",
		Time:         "14:00",
		PatientEmail: "asha@example.com",
		PatientName:  "Asha",
	})
	require.NoError(t, err, "notification failures must not fail the booking")
	assert.Equal(t, []string{"2025-12-02"}, invalidator.dates)
	assert.Equal(t, []string{apt.ID + "|asha@example.com|Asha"}, notifier.sent)

	_, err = svc.Submit(context.Background(), Request{PatientID: "p-1", TherapyID: "basti", Date: "2025-12-02", Time: "15:30"})
	require.NoError(t, err)
	assert.Len(t, notifier.sent, 1, "no email means no notification")
}

func TestServiceCancel(t *testing.T) {
	invalidator := &recordingInvalidator{}
	svc, _ := newTestService(t, WithInvalidator(invalidator))
	ctx := context.Background()

	apt, err := svc.Submit(ctx, Request{PatientID: "p-1", TherapyID: "nasya", Date: "2025-12-01", Time: "09:00"})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, []string{"2025-12-01", "2025-12-01"}, invalidator.dates)

	_, err = svc.Cancel(ctx, apt.ID)
	assert.NoError(t, err)

	_, err = svc.Cancel(ctx, "missing")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	list, err := svc.ListForPatient(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusCancelled, list[0].Status)

	day, err := svc.ListForDate(ctx, "2025-12-01")
	require.NoError(t, err)
	assert.Len(t, day, 1)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, therapies.NewStaticCatalog(), nil) })
	assert.Panics(t, func() { NewService(NewInMemoryRepository(), nil, nil) })
}
