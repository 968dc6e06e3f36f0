package handler

import (
	"log/slog"
	"net/http"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/service"
)

type AdminHandler struct {
	admins *service.AdminService
	logger *slog.Logger
}

func NewAdminHandler(admins *service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admins: admins, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

// HandleLogin handles POST /admin/login.
func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Username == "" {
		writeError(w, apperror.ValidationFailed("username", "username is required"))
		return
	}
	if req.Password == "" {
		writeError(w, apperror.ValidationFailed("password", "password is required"))
		return
	}

	res, err := h.admins.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:      res.AccessToken,
		TokenType:        res.TokenType,
		ExpiresInMinutes: res.ExpiresInMinutes,
	})
}
