package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/logger"
)

// PasswordTokenRepository handles one-time password-set tokens used for
// mentor account activation.
type PasswordTokenRepository struct {
	db *pgxpool.Pool
}

// NewPasswordTokenRepository creates a new PasswordTokenRepository
func NewPasswordTokenRepository(db *pgxpool.Pool) *PasswordTokenRepository {
	return &PasswordTokenRepository{db: db}
}

// CreateToken stores a password-set token for the given email
func (r *PasswordTokenRepository) CreateToken(ctx context.Context, token, email string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO password_set_tokens (token, email, expires_at, used, created_at)
		 VALUES ($1, $2, $3, FALSE, NOW())`,
		token, email, expiresAt)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error creating password set token")
		return fmt.Errorf("error creating password set token: %w", err)
	}
	return nil
}

// ConsumeToken validates the token and marks it as used, returning the
// email it was issued for. Used and expired tokens are rejected.
func (r *PasswordTokenRepository) ConsumeToken(ctx context.Context, token string) (string, error) {
	var email string
	var expiresAt time.Time
	var used bool

	err := r.db.QueryRow(ctx,
		`SELECT email, expires_at, used FROM password_set_tokens WHERE token = $1`,
		token).Scan(&email, &expiresAt, &used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrInvalidPasswordSetToken
		}
		return "", fmt.Errorf("error retrieving password set token: %w", err)
	}

	if used {
		return "", apperrors.ErrPasswordSetTokenUsed
	}
	if expiresAt.Before(time.Now()) {
		return "", apperrors.ErrInvalidPasswordSetToken
	}

	_, err = r.db.Exec(ctx, `UPDATE password_set_tokens SET used = TRUE WHERE token = $1`, token)
	if err != nil {
		return "", fmt.Errorf("error consuming password set token: %w", err)
	}

	return email, nil
}

// InvalidateTokensForEmail marks all outstanding tokens for an email as used
func (r *PasswordTokenRepository) InvalidateTokensForEmail(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE password_set_tokens SET used = TRUE WHERE email = $1 AND used = FALSE`, email)
	if err != nil {
		return fmt.Errorf("error invalidating password set tokens: %w", err)
	}
	return nil
}
