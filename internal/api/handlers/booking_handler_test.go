package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/slotline/booking-api/internal/api/handlers"
	"github.com/slotline/booking-api/internal/domain/entities"
	apperrors "github.com/slotline/booking-api/pkg/errors"
)

// MockBookingService defines the mock service
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Book(ctx context.Context, requesterID, providerID string, date time.Time) (*entities.Appointment, error) {
	args := m.Called(ctx, requesterID, providerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func newBookingRequest(t *testing.T, requesterID string, payload map[string]interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/appointments", bytes.NewBuffer(body))
	if requesterID != "" {
		req.Header.Set("X-User-ID", requesterID)
	}
	return req
}

func TestBookingHandler_BookAppointment(t *testing.T) {
	date := time.Date(2030, 6, 10, 10, 15, 0, 0, time.UTC)

	t.Run("successfully books an appointment", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := handlers.NewBookingHandler(mockService, nil)

		created := &entities.Appointment{
			ID:         "a-1",
			UserID:     "u-1",
			ProviderID: "p-1",
			Date:       date,
			Slot:       entities.SlotFor(date),
		}
		mockService.On("Book", mock.Anything, "u-1", "p-1", mock.MatchedBy(func(d time.Time) bool {
			return d.Equal(date)
		})).Return(created, nil)

		req := newBookingRequest(t, "u-1", map[string]interface{}{
			"provider_id": "p-1",
			"date":        date.Format(time.RFC3339),
		})
		w := httptest.NewRecorder()

		handler.BookAppointment(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got entities.Appointment
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "a-1", got.ID)
		assert.True(t, got.Date.Equal(date))
		mockService.AssertExpectations(t)
	})

	t.Run("returns bad request without requester identity", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := handlers.NewBookingHandler(mockService, nil)

		req := newBookingRequest(t, "", map[string]interface{}{
			"provider_id": "p-1",
			"date":        date.Format(time.RFC3339),
		})
		w := httptest.NewRecorder()

		handler.BookAppointment(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Book")
	})

	t.Run("returns bad request for invalid payload", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := handlers.NewBookingHandler(mockService, nil)

		req := httptest.NewRequest("POST", "/api/appointments", bytes.NewBufferString("invalid-json"))
		req.Header.Set("X-User-ID", "u-1")
		w := httptest.NewRecorder()

		handler.BookAppointment(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns bad request for malformed date", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := handlers.NewBookingHandler(mockService, nil)

		req := newBookingRequest(t, "u-1", map[string]interface{}{
			"provider_id": "p-1",
			"date":        "10/06/2030 10:00",
		})
		w := httptest.NewRecorder()

		handler.BookAppointment(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Book")
	})

	t.Run("maps validation errors to bad request", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := handlers.NewBookingHandler(mockService, nil)

		mockService.On("Book", mock.Anything, "u-1", "u-1", mock.Anything).
			Return(nil, apperrors.NewValidationError("cannot book an appointment with yourself as the provider"))

		req := newBookingRequest(t, "u-1", map[string]interface{}{
			"provider_id": "u-1",
			"date":        date.Format(time.RFC3339),
		})
		w := httptest.NewRecorder()

		handler.BookAppointment(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "yourself")
	})

	t.Run("maps conflict errors to 409", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := handlers.NewBookingHandler(mockService, nil)

		mockService.On("Book", mock.Anything, "u-1", "p-1", mock.Anything).
			Return(nil, apperrors.NewConflictError("appointment slot is already booked"))

		req := newBookingRequest(t, "u-1", map[string]interface{}{
			"provider_id": "p-1",
			"date":        date.Format(time.RFC3339),
		})
		w := httptest.NewRecorder()

		handler.BookAppointment(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("maps unknown errors to internal server error", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := handlers.NewBookingHandler(mockService, nil)

		mockService.On("Book", mock.Anything, "u-1", "p-1", mock.Anything).
			Return(nil, apperrors.NewInternalError("db down", nil))

		req := newBookingRequest(t, "u-1", map[string]interface{}{
			"provider_id": "p-1",
			"date":        date.Format(time.RFC3339),
		})
		w := httptest.NewRecorder()

		handler.BookAppointment(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
