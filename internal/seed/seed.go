package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/KrithikaHS/The-Student-360/internal/app/models"
	appRepos "github.com/KrithikaHS/The-Student-360/internal/app/repositories"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/auth"
)

const defaultAdminEmail = "admin@student360.app"

// CreateDefaultData creates the default admin account if it doesn't exist.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default admin account...")

	exists, err := userRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	password := os.Getenv("ADMIN_INITIAL_PASSWORD")
	if password == "" {
		// Development fallback; rotate immediately in real deployments
		password = "ChangeMe@123"
		lgr.Warn().Msg("ADMIN_INITIAL_PASSWORD not set, using development default")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return errors.Join(errors.New("failed to hash admin password"), err)
	}

	admin := &appModels.User{
		Email:     defaultAdminEmail,
		Password:  passwordHash,
		FirstName: "System",
		LastName:  "Admin",
		RoleType:  appModels.RoleAdmin,
		IsActive:  true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Int64("userID", admin.ID).Str("email", defaultAdminEmail).Msg("Default admin account created")
	return nil
}
