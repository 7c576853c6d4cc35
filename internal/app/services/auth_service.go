package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/app/models/dto"
	"github.com/KrithikaHS/The-Student-360/internal/app/repositories"
	"github.com/KrithikaHS/The-Student-360/internal/db"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	pkgAuth "github.com/KrithikaHS/The-Student-360/internal/pkg/auth"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/validation"
)

// AuthService handles authentication and student registration
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	SetPassword(ctx context.Context, token, password string) error
}

type authService struct {
	userRepo      *repositories.UserRepository
	studentRepo   *repositories.StudentRepository
	placementRepo *repositories.PlacementRepository
	tokenRepo     *repositories.TokenRepository
	passTokenRepo *repositories.PasswordTokenRepository
	jwtService    *pkgAuth.JWTService
	database      *db.PostgresDB
	logger        zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repos *repositories.Repositories,
	jwtService *pkgAuth.JWTService,
	database *db.PostgresDB,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:      repos.UserRepository,
		studentRepo:   repos.StudentRepository,
		placementRepo: repos.PlacementRepository,
		tokenRepo:     repos.TokenRepository,
		passTokenRepo: repos.PasswordTokenRepository,
		jwtService:    jwtService,
		database:      database,
		logger:        logger,
	}
}

// Register creates a student account. Signup is gated on an existing
// placement record matching the submitted (name, dob); the record is
// linked to the new profile in the same transaction.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsValidEmail(email) {
		return nil, apperrors.ErrInvalidEmail
	}
	if !validation.IsValidPassword(req.Password) {
		return nil, apperrors.ErrInvalidPassword
	}

	dob, err := validation.ParseDOB(req.DOB)
	if err != nil {
		return nil, apperrors.NewBadRequestError("dob must be in YYYY-MM-DD format")
	}

	fullName := strings.TrimSpace(req.FirstName + " " + req.LastName)
	record, err := s.placementRepo.GetByNameDOB(ctx, fullName, dob)
	if err != nil {
		if err == apperrors.ErrPlacementRecordNotFound {
			return nil, apperrors.ErrNoMatchingRecord
		}
		return nil, fmt.Errorf("failed to look up placement record: %w", err)
	}
	if record.StudentID != nil {
		return nil, apperrors.ErrRecordAlreadyLinked
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	passwordHash, err := pkgAuth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Password:  passwordHash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		RoleType:  models.RoleStudent,
		IsActive:  true,
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}

	// User, profile and record link commit together
	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.CreateTx(ctx, tx, user); err != nil {
			return err
		}

		student := &models.Student{
			UserID: user.ID,
			Phone:  phone,
			Branch: req.Branch,
			DOB:    &dob,
		}
		if err := s.studentRepo.CreateTx(ctx, tx, student); err != nil {
			return err
		}

		return s.placementRepo.LinkStudentTx(ctx, tx, record.ID, student.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Int64("recordID", record.ID).Msg("Student registered and linked to placement record")

	return s.issueTokens(ctx, user)
}

// Login authenticates a user. The requested role must match the stored
// role; logging in as the wrong role is treated as bad credentials.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if err == apperrors.ErrUserNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if !pkgAuth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.RoleType != req.Role {
		return nil, apperrors.ErrRoleMismatch
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is informational
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// The old refresh token is revoked (rotation).
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &resp.Token, nil
}

// Logout revokes the presented refresh token
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// SetPassword completes mentor activation: consumes the one-time token
// and sets the account password.
func (s *authService) SetPassword(ctx context.Context, token, password string) error {
	if !validation.IsValidPassword(password) {
		return apperrors.ErrInvalidPassword
	}

	email, err := s.passTokenRepo.ConsumeToken(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	passwordHash, err := pkgAuth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}

	// Force re-login everywhere after a password change
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to revoke tokens after password set")
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Password set and account activated")
	return nil
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             int64(expiresIn),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: int64(refreshExpiresIn),
		},
		User: dto.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      string(user.RoleType),
		},
	}, nil
}
