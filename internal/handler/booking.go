package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/auth"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/service"
)

type BookingHandler struct {
	bookings *service.BookingService
	logger   *slog.Logger
}

func NewBookingHandler(bookings *service.BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

// Pointers distinguish "missing" from zero.
type createBookingRequest struct {
	SponsorID   *int64      `json:"sponsor_id"`
	BookingDate *model.Date `json:"booking_date"`
	FoodNote    *string     `json:"food_note"`
}

// HandleCreate handles POST /bookings.
func (h *BookingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.SponsorID == nil {
		writeError(w, apperror.ValidationFailed("sponsor_id", "sponsor_id is required"))
		return
	}
	if req.BookingDate == nil {
		writeError(w, apperror.ValidationFailed("booking_date", "booking_date is required"))
		return
	}

	booking, err := h.bookings.Create(r.Context(), *req.SponsorID, *req.BookingDate, req.FoodNote)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// HandleSchedule handles GET /bookings?month=M&year=Y.
func (h *BookingHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	month, err := requiredIntQuery(r, "month")
	if err != nil {
		writeError(w, err)
		return
	}
	year, err := requiredIntQuery(r, "year")
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.bookings.Schedule(r.Context(), month, year)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// HandleList handles GET /admin/bookings with optional month and year.
func (h *BookingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	month, err := optionalIntQuery(r, "month")
	if err != nil {
		writeError(w, err)
		return
	}
	year, err := optionalIntQuery(r, "year")
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.bookings.List(r.Context(), month, year)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// HandleCancel handles DELETE /admin/bookings/{id}. It sits behind
// auth.RequireAdmin.
func (h *BookingHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "booking id must be an integer"))
		return
	}

	if err := h.bookings.Cancel(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	if admin, ok := auth.AdminFromContext(r.Context()); ok {
		h.logger.Info("booking cancelled by admin",
			slog.Int64("booking_id", id),
			slog.String("admin", admin.Username),
		)
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: service.MsgBookingCancelled})
}

func requiredIntQuery(r *http.Request, name string) (int, error) {
	v, err := optionalIntQuery(r, name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, apperror.ValidationFailed(name, fmt.Sprintf("%s is required", name))
	}
	return *v, nil
}

func optionalIntQuery(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.ValidationFailed(name, fmt.Sprintf("%s must be an integer", name))
	}
	return &v, nil
}
