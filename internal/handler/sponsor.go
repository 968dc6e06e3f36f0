package handler

import (
	"log/slog"
	"net/http"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/service"
)

type SponsorHandler struct {
	sponsors *service.SponsorService
	logger   *slog.Logger
}

func NewSponsorHandler(sponsors *service.SponsorService, logger *slog.Logger) *SponsorHandler {
	return &SponsorHandler{sponsors: sponsors, logger: logger}
}

type createSponsorRequest struct {
	FullName string  `json:"full_name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email"`
}

// HandleCreate handles POST /sponsors.
func (h *SponsorHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSponsorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	sponsor, err := h.sponsors.Create(r.Context(), service.SponsorInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sponsor)
}
