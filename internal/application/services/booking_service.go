package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slotline/booking-api/internal/domain/entities"
	"github.com/slotline/booking-api/internal/domain/providers"
	"github.com/slotline/booking-api/internal/domain/repositories"
	"github.com/slotline/booking-api/internal/infrastructure/observability"
	apperrors "github.com/slotline/booking-api/pkg/errors"
	"github.com/slotline/booking-api/pkg/retry"
)

// BookingService decides whether a requested appointment may be created and
// orchestrates the side effects of a successful booking. It is stateless;
// the appointment store owns slot uniqueness (partial unique index on
// (provider_id, slot) for active rows), so two racing bookings for the same
// provider hour cannot both commit even when both pass the pre-check.
type BookingService struct {
	users        repositories.UserRepository
	appointments repositories.AppointmentRepository
	notifier     providers.NotificationSink
	cache        providers.CacheProvider
	eventBus     providers.EventBus
	formatter    providers.SlotFormatter
	metrics      *observability.Metrics
}

// NewBookingService creates a new booking service. eventBus may be nil when
// no event fan-out is configured; cache and notifier may be nil in degraded
// deployments, in which case the corresponding side effect is skipped.
// metrics may be nil.
func NewBookingService(
	users repositories.UserRepository,
	appointments repositories.AppointmentRepository,
	notifier providers.NotificationSink,
	cache providers.CacheProvider,
	eventBus providers.EventBus,
	formatter providers.SlotFormatter,
	metrics *observability.Metrics,
) *BookingService {
	return &BookingService{
		users:        users,
		appointments: appointments,
		notifier:     notifier,
		cache:        cache,
		eventBus:     eventBus,
		formatter:    formatter,
		metrics:      metrics,
	}
}

// Book validates a booking request and, when every rule passes, persists the
// appointment and fires the notification and cache-invalidation side effects.
//
// Validation short-circuits on the first failed rule; nothing is written
// before all rules pass. Side-effect failures after the appointment has been
// committed are logged and never surfaced to the caller: a valid booking must
// not be lost because a notification write failed.
func (s *BookingService) Book(ctx context.Context, requesterID, providerID string, date time.Time) (*entities.Appointment, error) {
	if requesterID == providerID {
		return nil, apperrors.NewValidationError("cannot book an appointment with yourself as the provider")
	}

	if _, err := s.users.GetProvider(ctx, providerID); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewValidationError("appointments can only be booked with providers")
		}
		return nil, apperrors.NewInternalError("failed to look up provider", err)
	}

	slot := entities.SlotFor(date)

	if slot.Before(time.Now()) {
		return nil, apperrors.NewValidationError("past dates are not permitted")
	}

	existing, err := s.appointments.GetActiveByProviderAndSlot(ctx, providerID, slot)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to check slot availability", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("appointment slot is already booked")
	}

	now := time.Now()
	appointment := &entities.Appointment{
		ID:         uuid.New().String(),
		UserID:     requesterID,
		ProviderID: providerID,
		Date:       date,
		Slot:       slot,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// The store raises Conflict here when a concurrent booking won the slot
	// between the pre-check above and this insert.
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.runSideEffects(ctx, appointment)

	return appointment, nil
}

// runSideEffects fires the post-commit effects of a successful booking:
// notify the provider, invalidate the requester's cached appointment
// listings, and publish a booking event. Each effect is independent and
// best-effort; failures are logged and counted, never returned.
func (s *BookingService) runSideEffects(ctx context.Context, appointment *entities.Appointment) {
	logger := observability.LoggerFromContext(ctx)

	if s.notifier != nil {
		if err := s.notifyProvider(ctx, appointment); err != nil {
			s.recordSideEffectFailure(ctx, "notification")
			logger.Error().Err(err).
				Str("appointment_id", appointment.ID).
				Str("provider_id", appointment.ProviderID).
				Msg("failed to notify provider of new booking")
		}
	}

	if s.cache != nil {
		pattern := providers.UserAppointmentsPrefix(appointment.UserID) + "*"
		if err := retry.Do(ctx, retry.SideEffectConfig(), func() error {
			return s.cache.DeletePattern(ctx, pattern)
		}); err != nil {
			s.recordSideEffectFailure(ctx, "cache_invalidation")
			logger.Error().Err(err).
				Str("appointment_id", appointment.ID).
				Str("pattern", pattern).
				Msg("failed to invalidate appointment cache")
		}
	}

	if s.eventBus != nil {
		event := entities.NewBookingEvent(appointment, entities.BookingEventTypeCreated)
		if err := s.eventBus.Publish(ctx, providers.EventChannelBookings, event); err != nil {
			s.recordSideEffectFailure(ctx, "event_publish")
			logger.Warn().Err(err).
				Str("appointment_id", appointment.ID).
				Msg("failed to publish booking event")
		}
	}
}

func (s *BookingService) recordSideEffectFailure(ctx context.Context, effect string) {
	if s.metrics != nil {
		observability.RecordSideEffectFailure(ctx, s.metrics, effect)
	}
}

// notifyProvider writes a localized notification describing the new booking,
// addressed to the provider.
func (s *BookingService) notifyProvider(ctx context.Context, appointment *entities.Appointment) error {
	requester, err := s.users.GetByID(ctx, appointment.UserID)
	if err != nil {
		return fmt.Errorf("failed to load requester for notification: %w", err)
	}

	content := fmt.Sprintf("Novo agendamento de %s para dia %s",
		requester.Name, s.formatter.Format(appointment.Slot))

	if _, err := s.notifier.Create(ctx, content, appointment.ProviderID); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// Cancel marks an appointment as canceled, freeing its slot for rebooking,
// and invalidates the cached listings of the user who booked it.
func (s *BookingService) Cancel(ctx context.Context, appointmentID string) error {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}

	if err := s.appointments.Cancel(ctx, appointmentID); err != nil {
		return err
	}

	logger := observability.LoggerFromContext(ctx)

	if s.cache != nil {
		pattern := providers.UserAppointmentsPrefix(appointment.UserID) + "*"
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			s.recordSideEffectFailure(ctx, "cache_invalidation")
			logger.Error().Err(err).
				Str("appointment_id", appointmentID).
				Msg("failed to invalidate appointment cache after cancellation")
		}
	}

	if s.eventBus != nil {
		event := entities.NewBookingEvent(appointment, entities.BookingEventTypeCanceled)
		if err := s.eventBus.Publish(ctx, providers.EventChannelBookings, event); err != nil {
			s.recordSideEffectFailure(ctx, "event_publish")
			logger.Warn().Err(err).
				Str("appointment_id", appointmentID).
				Msg("failed to publish cancellation event")
		}
	}

	return nil
}
