package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
)

func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO admins (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		admin.Username, admin.PasswordHash,
	).Scan(&admin.ID, &admin.CreatedAt)
	if isUniqueViolation(err) {
		return oops.Code("ADMIN_EXISTS").With("username", admin.Username).
			Wrap(apperror.Conflict(fmt.Sprintf("Admin '%s' already exists", admin.Username)))
	}
	if err != nil {
		return oops.Code("ADMIN_CREATE_FAILED").With("username", admin.Username).Wrap(err)
	}
	return nil
}

func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM admins
		 WHERE username = $1`,
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ADMIN_NOT_FOUND").With("username", username).Wrap(apperror.NotFound("Admin not found"))
	}
	if err != nil {
		return nil, oops.Code("ADMIN_QUERY_FAILED").With("username", username).Wrap(err)
	}
	return &a, nil
}
