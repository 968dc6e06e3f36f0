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

// CreateSponsor inserts a sponsor and fills in its ID and CreatedAt.
func (db *DB) CreateSponsor(ctx context.Context, sponsor *model.Sponsor) error {
	sponsor.CreatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO sponsors (full_name, phone, email, created_at)
		 VALUES (?, ?, ?, ?)`,
		sponsor.FullName,
		sponsor.Phone,
		sponsor.Email,
		sponsor.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating sponsor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading sponsor id: %w", err)
	}
	sponsor.ID = id

	return nil
}

func (db *DB) GetSponsorByID(ctx context.Context, id int64) (*model.Sponsor, error) {
	var s model.Sponsor
	var email sql.NullString

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, full_name, phone, email, created_at
		 FROM sponsors
		 WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.FullName, &s.Phone, &email, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Sponsor not found")
		}
		return nil, fmt.Errorf("sqlite: getting sponsor %d: %w", id, err)
	}

	s.Email = nullString(email)
	return &s, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
