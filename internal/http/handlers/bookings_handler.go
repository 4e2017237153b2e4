package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/homebuddy/homebuddy-api/internal/domain"
	"github.com/homebuddy/homebuddy-api/internal/http/response"
	"github.com/homebuddy/homebuddy-api/internal/service"
	"github.com/homebuddy/homebuddy-api/pkg/logger"
)

type BookingHandler struct {
	Bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	booking, err := h.Bookings.CreateBooking(r.Context(), &in)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusCreated, booking)
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), "failed to create booking", "error", err)
		response.InternalError(w, "Failed to create booking")
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	dateRange := r.URL.Query().Get("dateRange")
	status := r.URL.Query().Get("status")

	bookings, err := h.Bookings.ListBookings(r.Context(), dateRange, status)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusOK, bookings)
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), "failed to list bookings", "error", err)
		response.InternalError(w, "Failed to list bookings")
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	booking, err := h.Bookings.GetBooking(r.Context(), id)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusOK, booking)
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "Booking not found")
	default:
		logger.ErrorContext(r.Context(), "failed to get booking", "error", err, "booking_id", id)
		response.InternalError(w, "Failed to get booking")
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		response.BadRequest(w, "status is required")
		return
	}

	booking, err := h.Bookings.UpdateBookingStatus(r.Context(), id, status)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusOK, booking)
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		// Surfaced as bad request on mutation paths.
		response.BadRequest(w, "Booking not found")
	default:
		logger.ErrorContext(r.Context(), "failed to update booking status", "error", err, "booking_id", id)
		response.InternalError(w, "Failed to update booking status")
	}
}
