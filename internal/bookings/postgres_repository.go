package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const uniqueViolation = "23505"

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool db) *PostgresRepository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

const appointmentColumns = `id, patient_id, therapy_id, therapy_title, subtitle, duration,
		to_char(appointment_date, 'YYYY-MM-DD'), to_char(appointment_time, 'HH24:MI'),
		price, notes, status, practitioner_name, created_at, cancelled_at`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, apt Appointment) (*Appointment, error) {
	query := `
		INSERT INTO appointments (id, patient_id, therapy_id, therapy_title, subtitle, duration,
			appointment_date, appointment_time, price, notes, status, practitioner_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8::time, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.TherapyID,
		apt.TherapyTitle,
		apt.Subtitle,
		apt.Duration,
		apt.Date,
		apt.Time,
		apt.Price,
		apt.Notes,
		string(apt.Status),
		apt.PractitionerName,
		toPGTime(apt.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("bookings: insert failed: %w", err)
	}
	out := apt
	return &out, nil
}

// GetByID fetches a single appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	apt, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	return apt, nil
}

// ListByPatient returns the patient's appointments in booking order.
func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE patient_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, patientID)
}

// ListByDate returns the day's appointments ordered by time.
func (r *PostgresRepository) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE appointment_date = $1::date ORDER BY appointment_time, created_at`
	return r.list(ctx, query, date)
}

// Cancel marks the appointment cancelled, keeping the first cancellation time.
func (r *PostgresRepository) Cancel(ctx context.Context, id string, at time.Time) (*Appointment, error) {
	query := `
		UPDATE appointments
		SET status = 'cancelled', cancelled_at = COALESCE(cancelled_at, $2)
		WHERE id = $1
		RETURNING ` + appointmentColumns
	apt, err := scanAppointment(r.db.QueryRow(ctx, query, id, toPGTime(at)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("bookings: cancel failed: %w", err)
	}
	return apt, nil
}

// TakenSlots lists times held by confirmed appointments on date.
func (r *PostgresRepository) TakenSlots(ctx context.Context, date string) ([]string, error) {
	query := `
		SELECT to_char(appointment_time, 'HH24:MI')
		FROM appointments
		WHERE appointment_date = $1::date AND status = 'confirmed'
		ORDER BY appointment_time
	`
	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("bookings: taken slots failed: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("bookings: scan slot failed: %w", err)
		}
		out = append(out, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: taken slots failed: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	defer rows.Close()

	out := []Appointment{}
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("bookings: scan failed: %w", err)
		}
		out = append(out, *apt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	return out, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		apt         Appointment
		status      string
		createdAt   pgtype.Timestamptz
		cancelledAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&apt.ID,
		&apt.PatientID,
		&apt.TherapyID,
		&apt.TherapyTitle,
		&apt.Subtitle,
		&apt.Duration,
		&apt.Date,
		&apt.Time,
		&apt.Price,
		&apt.Notes,
		&status,
		&apt.PractitionerName,
		&createdAt,
		&cancelledAt,
	); err != nil {
		return nil, err
	}
	apt.Status = Status(status)
	if createdAt.Valid {
		apt.CreatedAt = createdAt.Time.UTC()
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time.UTC()
		apt.CancelledAt = &t
	}
	return &apt, nil
}

func toPGTime(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{
		Time:  t,
		Valid: true,
	}
}
