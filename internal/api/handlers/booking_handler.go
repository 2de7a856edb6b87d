package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/slotline/booking-api/internal/domain/entities"
	"github.com/slotline/booking-api/internal/infrastructure/observability"
	apperrors "github.com/slotline/booking-api/pkg/errors"
)

// userIDHeader carries the authenticated requester's ID, set by the edge
// proxy that terminates authentication.
const userIDHeader = "X-User-ID"

// BookingService defines the interface for booking operations
type BookingService interface {
	Book(ctx context.Context, requesterID, providerID string, date time.Time) (*entities.Appointment, error)
}

// BookingHandler handles appointment booking requests
type BookingHandler struct {
	service BookingService
	metrics *observability.Metrics
}

// NewBookingHandler creates a new booking handler. metrics may be nil.
func NewBookingHandler(service BookingService, metrics *observability.Metrics) *BookingHandler {
	return &BookingHandler{
		service: service,
		metrics: metrics,
	}
}

type bookingRequest struct {
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`
}

// BookAppointment handles POST /api/appointments
func (h *BookingHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	requesterID := r.Header.Get(userIDHeader)
	if requesterID == "" {
		respondWithError(w, http.StatusBadRequest, "requester identity is required")
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.ProviderID == "" {
		respondWithError(w, http.StatusBadRequest, "provider_id is required")
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid date format (use RFC3339)")
		return
	}

	appointment, err := h.service.Book(r.Context(), requesterID, req.ProviderID, date)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			switch appErr.Type {
			case apperrors.ErrorTypeValidation:
				respondWithError(w, http.StatusBadRequest, appErr.Message)
				return
			case apperrors.ErrorTypeConflict:
				if h.metrics != nil {
					observability.RecordBookingConflict(r.Context(), h.metrics, req.ProviderID)
				}
				respondWithError(w, http.StatusConflict, appErr.Message)
				return
			case apperrors.ErrorTypeNotFound:
				respondWithError(w, http.StatusNotFound, appErr.Message)
				return
			default:
				respondWithError(w, http.StatusInternalServerError, appErr.Message)
				return
			}
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.metrics != nil {
		observability.RecordBooking(r.Context(), h.metrics, req.ProviderID)
	}

	respondWithJSON(w, http.StatusCreated, appointment)
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{"error": message})
}
