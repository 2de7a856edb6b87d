package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/slotline/booking-api/internal/domain/entities"
	"github.com/slotline/booking-api/internal/domain/repositories"
	"github.com/slotline/booking-api/internal/infrastructure/clients/postgres"
	apperrors "github.com/slotline/booking-api/pkg/errors"
)

// uniqueViolation is the PostgreSQL error code raised when the partial
// unique index on (provider_id, slot) WHERE canceled_at IS NULL rejects a
// concurrent insert. That index, not the pre-check, is what makes the
// check-then-insert pair atomic.
const uniqueViolation = "23505"

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":          appointment.ID,
		"user_id":     appointment.UserID,
		"provider_id": appointment.ProviderID,
		"date":        appointment.Date,
		"slot":        appointment.Slot,
		"canceled_at": appointment.CanceledAt,
		"created_at":  appointment.CreatedAt,
		"updated_at":  appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.NewConflictError("appointment slot is already booked")
		}
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "provider_id", "date", "slot", "canceled_at",
		"created_at", "updated_at",
	).From("appointments").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := a.scanOne(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// GetActiveByProviderAndSlot retrieves the active appointment occupying the
// given provider slot, or nil when the slot is free.
func (a *AppointmentAdapter) GetActiveByProviderAndSlot(ctx context.Context, providerID string, slot time.Time) (*entities.Appointment, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "provider_id", "date", "slot", "canceled_at",
		"created_at", "updated_at",
	).From("appointments").
		Where(goqu.Ex{
			"provider_id": providerID,
			"slot":        slot,
			"canceled_at": nil,
		}).
		Limit(1).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := a.scanOne(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query provider slot", err)
	}

	return appointment, nil
}

// Cancel marks an appointment as canceled, freeing its slot
func (a *AppointmentAdapter) Cancel(ctx context.Context, id string) error {
	query, args, err := a.db.Update("appointments").
		Set(goqu.Record{
			"canceled_at": time.Now(),
			"updated_at":  time.Now(),
		}).
		Where(goqu.Ex{"id": id, "canceled_at": nil}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build cancel query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to cancel appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("active appointment with id %s not found", id))
	}

	return nil
}

// ListByUser retrieves appointments booked by a user, soonest first
func (a *AppointmentAdapter) ListByUser(ctx context.Context, userID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	ds := a.db.Select(
		"id", "user_id", "provider_id", "date", "slot", "canceled_at",
		"created_at", "updated_at",
	).From("appointments").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("date").Asc())

	if filter.ActiveOnly {
		ds = ds.Where(goqu.Ex{"canceled_at": nil})
	}
	if filter.From != nil {
		ds = ds.Where(goqu.C("date").Gte(*filter.From))
	}
	if filter.To != nil {
		ds = ds.Where(goqu.C("date").Lt(*filter.To))
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	var appointments []*entities.Appointment
	for rows.Next() {
		appointment := &entities.Appointment{}
		var canceledAt sql.NullTime
		if err := rows.Scan(
			&appointment.ID,
			&appointment.UserID,
			&appointment.ProviderID,
			&appointment.Date,
			&appointment.Slot,
			&canceledAt,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		if canceledAt.Valid {
			appointment.CanceledAt = &canceledAt.Time
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate appointments", err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *AppointmentAdapter) scanOne(row rowScanner) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	var canceledAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&appointment.UserID,
		&appointment.ProviderID,
		&appointment.Date,
		&appointment.Slot,
		&canceledAt,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if canceledAt.Valid {
		appointment.CanceledAt = &canceledAt.Time
	}

	return appointment, nil
}
