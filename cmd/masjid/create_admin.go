package main

import (
	"errors"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/auth"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/service"
)

// NewCreateAdminCmd creates the create-admin subcommand.
func NewCreateAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long: `Create an admin who can log in to the API and cancel bookings.
An existing username is reported and left untouched.`,
		RunE: runCreateAdmin,
	}
	cmd.Flags().String("username", "", "admin username")
	cmd.Flags().String("password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL())
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	admins := service.NewAdminService(store, tokens, auth.NewPasswordService(), logger)

	admin, err := admins.CreateAdmin(cmd.Context(), username, password)
	switch {
	case errors.Is(err, apperror.ErrConflict):
		cmd.Printf("Admin '%s' already exists\n", username)
		return nil
	case err != nil:
		return oops.Code("ADMIN_CREATE_FAILED").With("username", username).Wrap(err)
	}

	cmd.Printf("Admin '%s' created successfully\n", admin.Username)
	return nil
}
