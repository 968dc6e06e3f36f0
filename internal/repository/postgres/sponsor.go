package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
)

func (s *Store) CreateSponsor(ctx context.Context, sponsor *model.Sponsor) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sponsors (full_name, phone, email)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		sponsor.FullName, sponsor.Phone, sponsor.Email,
	).Scan(&sponsor.ID, &sponsor.CreatedAt)
	if err != nil {
		return oops.Code("SPONSOR_CREATE_FAILED").With("phone", sponsor.Phone).Wrap(err)
	}
	return nil
}

func (s *Store) GetSponsorByID(ctx context.Context, id int64) (*model.Sponsor, error) {
	var sp model.Sponsor
	err := s.pool.QueryRow(ctx,
		`SELECT id, full_name, phone, email, created_at
		 FROM sponsors
		 WHERE id = $1`,
		id,
	).Scan(&sp.ID, &sp.FullName, &sp.Phone, &sp.Email, &sp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SPONSOR_NOT_FOUND").With("sponsor_id", id).Wrap(apperror.NotFound("Sponsor not found"))
	}
	if err != nil {
		return nil, oops.Code("SPONSOR_QUERY_FAILED").With("sponsor_id", id).Wrap(err)
	}
	return &sp, nil
}
