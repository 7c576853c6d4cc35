package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/app/models/dto"
	"github.com/KrithikaHS/The-Student-360/internal/app/repositories"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/filestorage"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/spreadsheet"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/validation"
)

// CompanyService handles company drives and student applications
type CompanyService interface {
	Register(ctx context.Context, req *dto.RegisterCompanyRequest, jdFile *multipart.FileHeader) (*dto.CompanyResponse, error)
	ListForStudent(ctx context.Context, userID int64) ([]*dto.CompanyResponse, error)
	List(ctx context.Context) ([]*dto.CompanyResponse, error)
	Apply(ctx context.Context, userID, companyID int64) error
	ExportRegistrations(ctx context.Context, companyID int64) (*bytes.Buffer, error)
}

type companyService struct {
	companyRepo *repositories.CompanyRepository
	studentRepo *repositories.StudentRepository
	storage     filestorage.FileStorage
	logger      zerolog.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	repos *repositories.Repositories,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) CompanyService {
	return &companyService{
		companyRepo: repos.CompanyRepository,
		studentRepo: repos.StudentRepository,
		storage:     storage,
		logger:      logger,
	}
}

// Register creates a company drive, storing the JD file when provided
func (s *companyService) Register(ctx context.Context, req *dto.RegisterCompanyRequest, jdFile *multipart.FileHeader) (*dto.CompanyResponse, error) {
	company := &models.Company{
		CompanyName:      req.CompanyName,
		EligibleBatches:  req.EligibleBatches,
		EligibleBranches: req.EligibleBranches,
		MinCGPA:          req.MinCGPA,
		Min10th:          req.Min10th,
		Min12th:          req.Min12th,
		JDText:           req.JDText,
		AdditionalInfo:   req.AdditionalInfo,
	}

	if req.RegistrationDeadline != nil && *req.RegistrationDeadline != "" {
		deadline, err := validation.ParseDOB(*req.RegistrationDeadline)
		if err != nil {
			return nil, apperrors.NewBadRequestError("registrationDeadline must be in YYYY-MM-DD format")
		}
		// Applications close at the end of the deadline day
		endOfDay := deadline.Add(24*time.Hour - time.Second)
		company.RegistrationDeadline = &endOfDay
	}

	if jdFile != nil {
		fileURL, err := s.storage.SaveFileWithPath(jdFile, "jd")
		if err != nil {
			return nil, err
		}
		company.JDFileURL = &fileURL
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		if company.JDFileURL != nil {
			if delErr := s.storage.DeleteFile(*company.JDFileURL); delErr != nil {
				s.logger.Warn().Err(delErr).Msg("Failed to clean up orphaned JD file")
			}
		}
		return nil, err
	}

	s.logger.Info().Int64("companyID", company.ID).Str("name", company.CompanyName).Msg("Company registered")
	return companyToResponse(company, false), nil
}

// ListForStudent lists all drives annotated with the student's own
// application state and whether the deadline has passed.
func (s *companyService) ListForStudent(ctx context.Context, userID int64) ([]*dto.CompanyResponse, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	companies, err := s.companyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	applied, err := s.companyRepo.AppliedCompanyIDs(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CompanyResponse, 0, len(companies))
	for _, company := range companies {
		responses = append(responses, companyToResponse(company, applied[company.ID]))
	}
	return responses, nil
}

// List lists all drives without per-student annotation
func (s *companyService) List(ctx context.Context) ([]*dto.CompanyResponse, error) {
	companies, err := s.companyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CompanyResponse, 0, len(companies))
	for _, company := range companies {
		responses = append(responses, companyToResponse(company, false))
	}
	return responses, nil
}

// Apply registers the student for a drive. Applications after the
// deadline are rejected; duplicates surface as a conflict.
func (s *companyService) Apply(ctx context.Context, userID, companyID int64) error {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}

	if company.RegistrationDeadline != nil && time.Now().After(*company.RegistrationDeadline) {
		return apperrors.ErrDeadlineCrossed
	}

	if err := s.companyRepo.CreateApplication(ctx, student.ID, companyID); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", student.ID).Int64("companyID", companyID).Msg("Student applied to company")
	return nil
}

// ExportRegistrations renders a drive's registrations as an xlsx workbook
func (s *companyService) ExportRegistrations(ctx context.Context, companyID int64) (*bytes.Buffer, error) {
	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		return nil, err
	}

	rows, err := s.companyRepo.Registrations(ctx, companyID)
	if err != nil {
		return nil, err
	}

	headers := []string{"Student ID", "Name", "Email", "Branch", "CGPA", "Applied At"}
	data := make([][]any, 0, len(rows))
	for _, row := range rows {
		cgpa := any("")
		if row.CGPA != nil {
			cgpa = *row.CGPA
		}
		data = append(data, []any{row.StudentID, row.Name, row.Email, row.Branch, cgpa, row.AppliedAt})
	}

	buf, err := spreadsheet.Write(headers, data)
	if err != nil {
		return nil, fmt.Errorf("failed to build registrations workbook: %w", err)
	}
	return buf, nil
}

func companyToResponse(company *models.Company, applied bool) *dto.CompanyResponse {
	resp := &dto.CompanyResponse{
		ID:               company.ID,
		CompanyName:      company.CompanyName,
		EligibleBatches:  company.EligibleBatches,
		EligibleBranches: company.EligibleBranches,
		MinCGPA:          company.MinCGPA,
		Min10th:          company.Min10th,
		Min12th:          company.Min12th,
		JDFileURL:        company.JDFileURL,
		JDText:           company.JDText,
		AdditionalInfo:   company.AdditionalInfo,
		Applied:          applied,
	}
	if company.RegistrationDeadline != nil {
		deadline := company.RegistrationDeadline.Format(time.RFC3339)
		resp.RegistrationDeadline = &deadline
		resp.DeadlineCrossed = time.Now().After(*company.RegistrationDeadline)
	}
	return resp
}
