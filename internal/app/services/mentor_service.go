package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/app/models/dto"
	"github.com/KrithikaHS/The-Student-360/internal/app/repositories"
	"github.com/KrithikaHS/The-Student-360/internal/db"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	pkgAuth "github.com/KrithikaHS/The-Student-360/internal/pkg/auth"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/email"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/spreadsheet"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/validation"
)

// passwordSetTokenTTL bounds how long a mentor activation link stays valid
const passwordSetTokenTTL = 48 * time.Hour

// MentorService handles mentor registration and mentor-facing queries
type MentorService interface {
	Register(ctx context.Context, req *dto.RegisterMentorRequest) (*dto.MentorResponse, error)
	BulkImport(ctx context.Context, file io.Reader) (*dto.BulkUploadResult, error)
	List(ctx context.Context) ([]*dto.MentorResponse, error)
	MyStudents(ctx context.Context, userID int64) ([]*dto.MentorStudentResponse, error)
	ResendActivation(ctx context.Context, mentorID int64) error
}

type mentorService struct {
	mentorRepo    *repositories.MentorRepository
	userRepo      *repositories.UserRepository
	placementRepo *repositories.PlacementRepository
	passTokenRepo *repositories.PasswordTokenRepository
	emailService  email.EmailService
	database      *db.PostgresDB
	logger        zerolog.Logger
}

// NewMentorService creates a new MentorService
func NewMentorService(
	repos *repositories.Repositories,
	emailService email.EmailService,
	database *db.PostgresDB,
	logger zerolog.Logger,
) MentorService {
	return &mentorService{
		mentorRepo:    repos.MentorRepository,
		userRepo:      repos.UserRepository,
		placementRepo: repos.PlacementRepository,
		passTokenRepo: repos.PasswordTokenRepository,
		emailService:  emailService,
		database:      database,
		logger:        logger,
	}
}

// Register creates a mentor row together with an inactive MENTOR user
// account, then emails the one-time password-set link. The account stays
// unusable until the mentor sets a password through that link.
func (s *mentorService) Register(ctx context.Context, req *dto.RegisterMentorRequest) (*dto.MentorResponse, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsValidEmail(emailAddr) {
		return nil, apperrors.ErrInvalidEmail
	}

	exists, err := s.userRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	mentor := &models.Mentor{
		Name:        strings.TrimSpace(req.Name),
		Email:       emailAddr,
		Phone:       req.Phone,
		Department:  req.Department,
		MaxStudents: req.MaxStudents,
	}

	// An unguessable placeholder until the mentor sets a real password
	tempPassword, err := email.GeneratePasswordSetToken()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Weak randomness while generating temp password")
	}
	passwordHash, err := pkgAuth.HashPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash temp password: %w", err)
	}

	firstName, lastName := splitName(mentor.Name)
	user := &models.User{
		Email:     emailAddr,
		Password:  passwordHash,
		FirstName: firstName,
		LastName:  lastName,
		RoleType:  models.RoleMentor,
		IsActive:  false,
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.mentorRepo.CreateTx(ctx, tx, mentor); err != nil {
			return err
		}
		return s.userRepo.CreateTx(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	if err := s.sendActivation(ctx, mentor); err != nil {
		// The account exists; activation can be resent later
		s.logger.Error().Err(err).Str("email", emailAddr).Msg("Failed to send activation email")
	}

	s.logger.Info().Int64("mentorID", mentor.ID).Str("email", emailAddr).Msg("Mentor registered")
	return mentorToResponse(mentor), nil
}

// BulkImport registers mentors from an xlsx sheet. Rows are processed
// best-effort: a bad row is tallied and skipped, the rest still import.
func (s *mentorService) BulkImport(ctx context.Context, file io.Reader) (*dto.BulkUploadResult, error) {
	rows, err := spreadsheet.Parse(file)
	if err != nil {
		return nil, apperrors.NewBadRequestError("could not read spreadsheet: " + err.Error())
	}

	result := &dto.BulkUploadResult{}
	for i, row := range rows {
		req := &dto.RegisterMentorRequest{
			Name:  row.Pick("name", "mentor_name", "full_name"),
			Email: row.Pick("email", "email_id", "mail"),
		}
		if phone := row.Pick("phone", "phone_number", "mobile"); phone != "" {
			req.Phone = &phone
		}
		if dept := row.Pick("department", "dept", "branch"); dept != "" {
			req.Department = &dept
		}
		if max, ok := row.PickInt("max_students", "max", "capacity"); ok {
			req.MaxStudents = max
		}

		if req.Name == "" || req.Email == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: name and email are required", i+2))
			continue
		}

		if _, err := s.Register(ctx, req); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): %v", i+2, req.Email, err))
			continue
		}
		result.Saved++
	}

	s.logger.Info().Int("saved", result.Saved).Int("skipped", result.Skipped).Msg("Mentor bulk import finished")
	return result, nil
}

// List returns all mentors with live assignment counts
func (s *mentorService) List(ctx context.Context) ([]*dto.MentorResponse, error) {
	mentors, err := s.mentorRepo.ListWithLiveCounts(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.MentorResponse, 0, len(mentors))
	for _, mentor := range mentors {
		responses = append(responses, mentorToResponse(mentor))
	}
	return responses, nil
}

// MyStudents lists the placement records assigned to the authenticated mentor
func (s *mentorService) MyStudents(ctx context.Context, userID int64) ([]*dto.MentorStudentResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	mentor, err := s.mentorRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	records, emails, err := s.placementRepo.ListByMentor(ctx, mentor.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.MentorStudentResponse, 0, len(records))
	for _, rec := range records {
		resp := &dto.MentorStudentResponse{
			RecordID:   rec.ID,
			StudentID:  rec.StudentID,
			Name:       rec.Name,
			Branch:     rec.Branch,
			BatchYear:  rec.BatchYear,
			OfferCount: rec.OfferCount,
		}
		if mail, ok := emails[rec.ID]; ok {
			resp.Email = &mail
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// ResendActivation issues a fresh password-set token for a mentor whose
// account has not been activated yet.
func (s *mentorService) ResendActivation(ctx context.Context, mentorID int64) error {
	mentor, err := s.mentorRepo.GetByID(ctx, mentorID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, mentor.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrMentorNotFound
		}
		return err
	}
	if user.IsActive {
		return apperrors.NewConflictError("mentor account is already active")
	}

	return s.sendActivation(ctx, mentor)
}

// sendActivation invalidates outstanding tokens, stores a fresh one and
// emails the link.
func (s *mentorService) sendActivation(ctx context.Context, mentor *models.Mentor) error {
	if err := s.passTokenRepo.InvalidateTokensForEmail(ctx, mentor.Email); err != nil {
		return err
	}

	token, err := email.GeneratePasswordSetToken()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Weak randomness while generating activation token")
	}
	if err := s.passTokenRepo.CreateToken(ctx, token, mentor.Email, time.Now().Add(passwordSetTokenTTL)); err != nil {
		return err
	}

	return s.emailService.SendPasswordSetEmail(mentor.Email, mentor.Name, token)
}

func mentorToResponse(mentor *models.Mentor) *dto.MentorResponse {
	return &dto.MentorResponse{
		ID:                  mentor.ID,
		Name:                mentor.Name,
		Email:               mentor.Email,
		Phone:               mentor.Phone,
		Department:          mentor.Department,
		MaxStudents:         mentor.MaxStudents,
		CurrentStudentCount: mentor.CurrentStudentCount,
	}
}

// splitName splits a display name into first and last parts on the last space
func splitName(name string) (string, string) {
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}
