// Package storage is the PostgreSQL implementation of the scheduling store. Every
// appointment write records its domain event in the outbox within the same transaction.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apimastery/appointments/libs/db"
	"github.com/apimastery/appointments/services/booking-service/internal/availability"
	"github.com/apimastery/appointments/services/booking-service/internal/model"
	"github.com/apimastery/appointments/services/booking-service/internal/outbox"
	"github.com/apimastery/appointments/services/booking-service/internal/scheduling"
	"github.com/jackc/pgx/v5"
)

const appointmentColumns = `
	a.id::text, a.business_id::text, a.service_id::text,
	COALESCE(a.user_id, ''), COALESCE(a.guest_name, ''), COALESCE(a.guest_phone, ''),
	a.start_time, a.end_time, a.status, a.cancelled_at, a.created_at, a.updated_at`

type Repository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

var _ scheduling.Store = (*Repository)(nil)

// NewRepository returns the store. With a nil outboxRepo appointment writes record no
// events, which is how the service runs without a broker.
func NewRepository(pool *db.Pool, outboxRepo *outbox.Repository) *Repository {
	return &Repository{pool: pool, outbox: outboxRepo}
}

func (r *Repository) ListBlocking(ctx context.Context, businessID string, window availability.Interval) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		WHERE a.business_id = $1
			AND a.status = ANY($2)
			AND a.start_time < $4
			AND a.end_time > $3
		ORDER BY a.start_time ASC
	`, businessID, statusNames(model.BlockingStatuses), window.Start, window.End)
	if err != nil {
		return nil, translate(err, "business "+businessID)
	}
	return collectAppointments(rows)
}

func (r *Repository) Insert(ctx context.Context, appt model.Appointment) error {
	userID, guestName, guestPhone := subjectColumns(appt.Subject)
	return r.pool.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO appointments
				(id, business_id, service_id, user_id, guest_name, guest_phone, start_time, end_time, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, appt.ID, appt.BusinessID, appt.ServiceID, userID, guestName, guestPhone,
			appt.StartTime, appt.EndTime, appt.Status.String(), appt.CreatedAt, appt.UpdatedAt)
		if err != nil {
			return translate(err, "appointment "+appt.ID)
		}
		return r.record(ctx, tx, outbox.TypeAppointmentCreated, appt, appt.CreatedAt)
	})
}

func (r *Repository) GetForUser(ctx context.Context, appointmentID, userID string) (model.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		WHERE a.id = $1 AND a.user_id = $2
	`, appointmentID, userID)
	appt, err := scanAppointment(row)
	if err != nil {
		return model.Appointment{}, translate(err, "appointment "+appointmentID)
	}
	return appt, nil
}

// CancelForUser cancels a PENDING or CONFIRMED appointment of userID. An appointment that
// was moved to a terminal state concurrently no longer matches and is reported not found.
func (r *Repository) CancelForUser(ctx context.Context, appointmentID, userID string, at time.Time) (model.Appointment, error) {
	var appt model.Appointment
	err := r.pool.InTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			UPDATE appointments a
			SET status = 'CANCELLED',
				cancelled_at = $3,
				updated_at = $3
			WHERE a.id = $1
				AND a.user_id = $2
				AND a.status IN ('PENDING', 'CONFIRMED')
			RETURNING `+appointmentColumns,
			appointmentID, userID, at)
		var err error
		if appt, err = scanAppointment(row); err != nil {
			return translate(err, "appointment "+appointmentID)
		}
		return r.record(ctx, tx, outbox.TypeAppointmentCancelled, appt, at)
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

// SetStatusForOwner writes any status as long as the appointment belongs to the business
// and the business belongs to the owner. Reopening a cancelled appointment can collide with
// a newer booking and fails with model.ErrConflict.
func (r *Repository) SetStatusForOwner(ctx context.Context, change scheduling.StatusChange, at time.Time) (model.Appointment, error) {
	var appt model.Appointment
	err := r.pool.InTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			UPDATE appointments a
			SET status = $4::text,
				updated_at = $5,
				cancelled_at = CASE WHEN $4::text = 'CANCELLED' THEN COALESCE(a.cancelled_at, $5) ELSE NULL END
			FROM businesses b
			WHERE a.id = $1
				AND a.business_id = $2
				AND b.id = a.business_id
				AND b.owner_id = $3
			RETURNING `+appointmentColumns,
			change.AppointmentID, change.BusinessID, change.OwnerID, change.Status.String(), at)
		var err error
		if appt, err = scanAppointment(row); err != nil {
			return translate(err, "appointment "+change.AppointmentID)
		}
		return r.record(ctx, tx, outbox.TypeAppointmentStatusChanged, appt, at)
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

func (r *Repository) ListByBusiness(ctx context.Context, businessID string, filter scheduling.Filter) ([]model.Appointment, error) {
	where := []string{"a.business_id = $1"}
	args := []any{businessID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if !filter.From.IsZero() {
		add("a.start_time >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("a.start_time < $%d", filter.To)
	}
	if len(filter.Statuses) > 0 {
		add("a.status = ANY($%d)", statusNames(filter.Statuses))
	}
	args = append(args, filter.Limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM appointments a
		WHERE %s
		ORDER BY a.start_time DESC
		LIMIT $%d
	`, appointmentColumns, strings.Join(where, " AND "), len(args)), args...)
	if err != nil {
		return nil, translate(err, "business "+businessID)
	}
	return collectAppointments(rows)
}

func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		WHERE a.user_id = $1
		ORDER BY a.start_time DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *Repository) Stats(ctx context.Context, businessID string, now time.Time) (scheduling.Dashboard, error) {
	d := scheduling.Dashboard{BusinessID: businessID, ByStatus: map[model.Status]int{}}

	rows, err := r.pool.Query(ctx, `
		SELECT a.status,
			count(*),
			count(*) FILTER (WHERE a.start_time >= $2 AND a.status IN ('PENDING', 'CONFIRMED'))
		FROM appointments a
		WHERE a.business_id = $1
		GROUP BY a.status
	`, businessID, now)
	if err != nil {
		return scheduling.Dashboard{}, translate(err, "business "+businessID)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count, upcoming int
		if err := rows.Scan(&status, &count, &upcoming); err != nil {
			return scheduling.Dashboard{}, err
		}
		d.ByStatus[model.Status(status)] = count
		d.Total += count
		d.Upcoming += upcoming
	}
	if err := rows.Err(); err != nil {
		return scheduling.Dashboard{}, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(sum(s.price), 0)::text
		FROM appointments a
		JOIN business_services s ON s.id = a.service_id
		WHERE a.business_id = $1 AND a.status = 'COMPLETED'
	`, businessID).Scan(&d.CompletedRevenue)
	if err != nil {
		return scheduling.Dashboard{}, translate(err, "business "+businessID)
	}
	return d, nil
}

func (r *Repository) record(ctx context.Context, tx pgx.Tx, eventType string, appt model.Appointment, at time.Time) error {
	if r.outbox == nil {
		return nil
	}
	evt, err := outbox.AppointmentEvent(eventType, appt, at)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	if err := r.outbox.Insert(ctx, tx, evt); err != nil {
		return fmt.Errorf("write outbox event: %w", err)
	}
	return nil
}

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var (
		appt                          model.Appointment
		userID, guestName, guestPhone string
		status                        string
	)
	err := row.Scan(
		&appt.ID,
		&appt.BusinessID,
		&appt.ServiceID,
		&userID,
		&guestName,
		&guestPhone,
		&appt.StartTime,
		&appt.EndTime,
		&status,
		&appt.CancelledAt,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return model.Appointment{}, err
	}
	appt.Status = model.Status(status)
	if appt.Subject, err = model.ResolveSubject(userID, guestName, guestPhone); err != nil {
		return model.Appointment{}, fmt.Errorf("appointment %s: %w", appt.ID, err)
	}
	return appt, nil
}

func collectAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Appointment, error) {
		return scanAppointment(row)
	})
}

// subjectColumns splits the subject into the nullable user and guest columns.
func subjectColumns(s model.Subject) (userID, guestName, guestPhone *string) {
	if id, ok := s.UserID(); ok {
		return &id, nil, nil
	}
	if g, ok := s.Guest(); ok {
		return nil, &g.Name, &g.Phone
	}
	return nil, nil, nil
}

func statusNames(statuses []model.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, st.String())
	}
	return out
}
