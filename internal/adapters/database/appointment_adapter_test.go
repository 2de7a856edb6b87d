package database_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/slotline/booking-api/internal/domain/entities"
)

// Note: These tests would typically use a test database or mock
// This is a structure showing TDD approach

func TestAppointmentAdapter_Create(t *testing.T) {
	// This test would use a test database connection
	// For now, we'll skip the actual implementation as it requires a database
	t.Skip("Requires database connection")

	t.Run("successfully creates an appointment", func(t *testing.T) {
		// Arrange
		// ctx := context.Background()
		// adapter := database.NewAppointmentAdapter(testClient)

		// slot := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
		// appointment := &entities.Appointment{
		// 	ID:         uuid.New().String(),
		// 	UserID:     "test-user-1",
		// 	ProviderID: "test-provider-1",
		// 	Date:       slot.Add(25 * time.Minute),
		// 	Slot:       slot,
		// }

		// Act
		// err := adapter.Create(ctx, appointment)

		// Assert
		// require.NoError(t, err)
	})

	t.Run("returns conflict when the slot is already booked", func(t *testing.T) {
		// The partial unique index on (provider_id, slot) for active rows
		// rejects the second insert; the adapter maps code 23505.

		// Act
		// err := adapter.Create(ctx, duplicate)

		// Assert
		// require.Error(t, err)
		// assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})
}

func TestAppointmentAdapter_GetActiveByProviderAndSlot(t *testing.T) {
	t.Skip("Requires database connection")

	t.Run("returns nil when no active appointment holds the slot", func(t *testing.T) {
		// Act
		// appointment, err := adapter.GetActiveByProviderAndSlot(ctx, "test-provider-1", slot)

		// Assert
		// require.NoError(t, err)
		// assert.Nil(t, appointment)
	})

	t.Run("ignores canceled appointments on the same slot", func(t *testing.T) {
		// A canceled row frees the slot; the lookup filters canceled_at IS NULL.

		// Act
		// appointment, err := adapter.GetActiveByProviderAndSlot(ctx, "test-provider-1", slot)

		// Assert
		// require.NoError(t, err)
		// assert.Nil(t, appointment)
	})
}

func TestAppointmentAdapter_ListByUser(t *testing.T) {
	t.Skip("Requires database connection")

	t.Run("successfully lists appointments with filters", func(t *testing.T) {
		// Arrange
		// ctx := context.Background()
		// filter := repositories.AppointmentFilter{
		// 	ActiveOnly: true,
		// 	Limit:      10,
		// 	Offset:     0,
		// }

		// Act
		// appointments, err := adapter.ListByUser(ctx, "test-user-1", filter)

		// Assert
		// require.NoError(t, err)
		// assert.NotNil(t, appointments)
	})
}

// Example test that can run without database - testing slot derivation
func TestAppointmentSlotDerivation(t *testing.T) {
	t.Run("appointment keeps the requested time alongside its slot", func(t *testing.T) {
		requested := time.Date(2026, 9, 10, 14, 25, 42, 0, time.UTC)
		appointment := &entities.Appointment{
			ID:         "test-1",
			UserID:     "test-user-1",
			ProviderID: "test-provider-1",
			Date:       requested,
			Slot:       entities.SlotFor(requested),
		}

		assert.True(t, appointment.Date.Equal(requested))
		assert.True(t, appointment.Slot.Equal(time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)))
	})
}
