package appointments

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("appointments/postgres")

// Querier is the subset of pgxpool.Pool the repository needs. Tests inject
// a pgxmock pool through it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db Querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithQuerier initializes a repo over any Querier.
func NewPostgresRepositoryWithQuerier(db Querier) *PostgresRepository {
	if db == nil {
		panic("appointments: querier required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a pending appointment and returns it with the assigned id.
func (r *PostgresRepository) Create(ctx context.Context, userID, service, when string) (Appointment, error) {
	ctx, span := tracer.Start(ctx, "PostgresRepository.Create")
	defer span.End()

	query := `
		INSERT INTO appointments (user_id, service, scheduled_for, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	appt := Appointment{
		UserID:  userID,
		Service: service,
		When:    when,
		Status:  StatusPending,
	}
	if err := r.db.QueryRow(ctx, query, userID, service, when, StatusPending).
		Scan(&appt.ID, &appt.CreatedAt); err != nil {
		return Appointment{}, fmt.Errorf("appointments: insert failed: %w", err)
	}

	span.SetAttributes(attribute.Int64("appointment.id", appt.ID))
	return appt, nil
}

// Cancel marks an appointment cancelled. Returns false when no row matched.
func (r *PostgresRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "PostgresRepository.Cancel")
	defer span.End()

	tag, err := r.db.Exec(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, StatusCancelled, id)
	if err != nil {
		return false, fmt.Errorf("appointments: cancel failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Reschedule updates an appointment's time. Returns false when no row matched.
func (r *PostgresRepository) Reschedule(ctx context.Context, id int64, when string) (bool, error) {
	ctx, span := tracer.Start(ctx, "PostgresRepository.Reschedule")
	defer span.End()

	tag, err := r.db.Exec(ctx, `UPDATE appointments SET scheduled_for = $1 WHERE id = $2`, when, id)
	if err != nil {
		return false, fmt.Errorf("appointments: reschedule failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns a user's appointments ordered by id.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	ctx, span := tracer.Start(ctx, "PostgresRepository.ListByUser")
	defer span.End()

	query := `
		SELECT id, user_id, service, scheduled_for, status, created_at
		FROM appointments
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var appt Appointment
		if err := rows.Scan(&appt.ID, &appt.UserID, &appt.Service, &appt.When, &appt.Status, &appt.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows failed: %w", err)
	}

	span.SetAttributes(attribute.Int("appointments.count", len(out)))
	return out, nil
}
