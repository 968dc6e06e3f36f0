// Package service holds the booking rules. Handlers call services; services
// call repositories. Nothing in here knows about HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/errutil"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/repository"
)

const (
	MaxFullNameLength = 150
	MaxPhoneLength    = 20
	MaxEmailLength    = 150
)

// validate is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// SponsorInput is what a caller supplies to register a sponsor.
type SponsorInput struct {
	FullName string
	Phone    string
	Email    *string
}

type SponsorService struct {
	repo   repository.SponsorRepository
	logger *slog.Logger
}

func NewSponsorService(repo repository.SponsorRepository, logger *slog.Logger) *SponsorService {
	return &SponsorService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and stores a new sponsor. Surrounding whitespace is
// trimmed; an empty email is treated as absent.
func (s *SponsorService) Create(ctx context.Context, in SponsorInput) (*model.Sponsor, error) {
	sponsor, err := validateSponsor(in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateSponsor(ctx, sponsor); err != nil {
		errutil.LogError(s.logger, "failed to create sponsor", err)
		return nil, fmt.Errorf("creating sponsor: %w", err)
	}

	s.logger.Info("sponsor created",
		slog.Int64("id", sponsor.ID),
		slog.String("full_name", sponsor.FullName),
	)

	return sponsor, nil
}

func validateSponsor(in SponsorInput) (*model.Sponsor, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, apperror.ValidationFailed("full_name", "full_name is required")
	}
	if utf8.RuneCountInString(name) > MaxFullNameLength {
		return nil, apperror.ValidationFailed("full_name",
			fmt.Sprintf("full_name must be %d characters or less", MaxFullNameLength))
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return nil, apperror.ValidationFailed("phone", "phone is required")
	}
	if utf8.RuneCountInString(phone) > MaxPhoneLength {
		return nil, apperror.ValidationFailed("phone",
			fmt.Sprintf("phone must be %d characters or less", MaxPhoneLength))
	}

	sponsor := &model.Sponsor{FullName: name, Phone: phone}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != "" {
			if utf8.RuneCountInString(email) > MaxEmailLength {
				return nil, apperror.ValidationFailed("email",
					fmt.Sprintf("email must be %d characters or less", MaxEmailLength))
			}
			// bare address with a dotted domain; "Name <addr>" and "x@localhost" fail
			if err := validate.Var(email, "email"); err != nil {
				return nil, apperror.ValidationFailed("email", "email is not a valid address")
			}
			sponsor.Email = &email
		}
	}

	return sponsor, nil
}
