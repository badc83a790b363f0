package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appointmentRowColumns = []string{
	"id", "patient_id", "therapy_id", "therapy_title", "subtitle", "duration",
	"appointment_date", "appointment_time", "price", "notes", "status",
	"practitioner_name", "created_at", "cancelled_at",
}

// insertArgs matches the thirteen INSERT parameters.
func insertArgs() []any {
	args := make([]any, 13)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	apt := confirmed("apt-1", "p-1", "2025-12-01", "10:30")
	apt.CreatedAt = time.Date(2025, 11, 20, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs("apt-1", "p-1", "nasya", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			"2025-12-01", "10:30", float64(120), "", "confirmed", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepository(mock)
	stored, err := repo.Create(context.Background(), apt)
	require.NoError(t, err)
	assert.Equal(t, "apt-1", stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreateMapsUniqueViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(insertArgs()...).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	_, err = NewPostgresRepository(mock).Create(context.Background(), confirmed("apt-1", "p-1", "2025-12-01", "10:30"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreateWrapsOtherErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO appointments").WithArgs(insertArgs()...).WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresRepository(mock).Create(context.Background(), confirmed("apt-1", "p-1", "2025-12-01", "10:30"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotUnavailable)
	assert.Contains(t, err.Error(), "bookings: insert failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2025, 11, 20, 8, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(appointmentRowColumns).
		AddRow("apt-1", "p-1", "virechana", "Virechana", "Therapeutic Purgation", "30-45 mins",
			"2025-12-01", "10:30", float64(180), "first visit", "confirmed", "Dr. Sharma", created, nil)
	mock.ExpectQuery("FROM appointments WHERE id").WithArgs("apt-1").WillReturnRows(rows)

	apt, err := NewPostgresRepository(mock).GetByID(context.Background(), "apt-1")
	require.NoError(t, err)
	assert.Equal(t, "virechana", apt.TherapyID)
	assert.Equal(t, "10:30", apt.Time)
	assert.Equal(t, StatusConfirmed, apt.Status)
	assert.Equal(t, created, apt.CreatedAt)
	assert.Nil(t, apt.CancelledAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM appointments WHERE id").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err = NewPostgresRepository(mock).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestPostgresRepositoryCancel(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	at := time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(appointmentRowColumns).
		AddRow("apt-1", "p-1", "nasya", "Nasya", "Nasal Administration", "20-30 mins",
			"2025-12-01", "09:00", float64(120), "", "cancelled", "Dr. Sharma", at.Add(-time.Hour), at)
	mock.ExpectQuery("UPDATE appointments").WithArgs("apt-1", pgxmock.AnyArg()).WillReturnRows(rows)

	apt, err := NewPostgresRepository(mock).Cancel(context.Background(), "apt-1", at)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, apt.Status)
	require.NotNil(t, apt.CancelledAt)
	assert.Equal(t, at, *apt.CancelledAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCancelNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("UPDATE appointments").WithArgs("missing", pgxmock.AnyArg()).WillReturnError(pgx.ErrNoRows)

	_, err = NewPostgresRepository(mock).Cancel(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryListByPatient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2025, 11, 20, 8, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(appointmentRowColumns).
		AddRow("apt-1", "p-1", "nasya", "Nasya", "", "", "2025-12-01", "09:00", float64(120), "", "confirmed", "Dr. Sharma", created, nil).
		AddRow("apt-2", "p-1", "basti", "Basti", "", "", "2025-12-03", "14:00", float64(160), "", "confirmed", "Dr. Sharma", created, nil)
	mock.ExpectQuery("WHERE patient_id").WithArgs("p-1").WillReturnRows(rows)

	items, err := NewPostgresRepository(mock).ListByPatient(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "apt-2", items[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryTakenSlots(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"to_char"}).AddRow("09:00").AddRow("15:30")
	mock.ExpectQuery("status = 'confirmed'").WithArgs("2025-12-01").WillReturnRows(rows)

	slots, err := NewPostgresRepository(mock).TakenSlots(context.Background(), "2025-12-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "15:30"}, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresRepositoryRequiresPool(t *testing.T) {
	assert.Panics(t, func() { NewPostgresRepository(nil) })
}
