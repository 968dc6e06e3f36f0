package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/errutil"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
)

// contextKey is unexported so no other package can collide with it.
type contextKey string

const adminKey contextKey = "admin"

// TokenValidator turns a bearer token into a subject. *TokenService
// implements it.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// AdminLookup resolves a token subject to an admin record.
type AdminLookup interface {
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
}

// RequireAdmin admits a request only if it carries a valid bearer token
// whose subject is an existing admin.
//
//	no header, bad scheme, bad or expired token  → 401
//	valid token, no such admin                   → 403
//	admin lookup fails for another reason        → 500
//
// On success the *model.Admin is available via AdminFromContext.
func RequireAdmin(tokens TokenValidator, admins AdminLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, apperror.ErrUnauthorized, "Invalid or expired token")
				return
			}

			username, err := tokens.Validate(token)
			if err != nil {
				logger.Debug("rejected token", slog.String("error", err.Error()))
				writeAuthError(w, http.StatusUnauthorized, apperror.ErrUnauthorized, "Invalid or expired token")
				return
			}

			admin, err := admins.GetAdminByUsername(r.Context(), username)
			if err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					logger.Warn("token for unknown admin", slog.String("username", username))
					writeAuthError(w, http.StatusForbidden, apperror.ErrForbidden, "Admin access required")
					return
				}
				errutil.LogError(logger, "looking up admin", err)
				writeAuthError(w, http.StatusInternalServerError, errors.New("Internal Server Error"), "An internal error occurred")
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext returns the admin stored by RequireAdmin.
func AdminFromContext(ctx context.Context) (*model.Admin, bool) {
	admin, ok := ctx.Value(adminKey).(*model.Admin)
	return admin, ok && admin != nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, status int, kind error, message string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   kind.Error(),
		"message": message,
	})
}
