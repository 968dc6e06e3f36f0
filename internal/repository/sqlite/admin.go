package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
)

// CreateAdmin inserts an admin. A taken username returns apperror.ErrConflict.
func (db *DB) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	admin.CreatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash, created_at)
		 VALUES (?, ?, ?)`,
		admin.Username,
		admin.PasswordHash,
		admin.CreatedAt,
	)
	if err != nil {
		if violated(err) == constraintUnique {
			return apperror.Conflict(fmt.Sprintf("Admin '%s' already exists", admin.Username))
		}
		return fmt.Errorf("sqlite: creating admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading admin id: %w", err)
	}
	admin.ID = id

	return nil
}

func (db *DB) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM admins
		 WHERE username = ?`,
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Admin not found")
		}
		return nil, fmt.Errorf("sqlite: getting admin %q: %w", username, err)
	}

	return &a, nil
}
