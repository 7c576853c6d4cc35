package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/app/models/dto"
	"github.com/KrithikaHS/The-Student-360/internal/app/repositories"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/helpers"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/spreadsheet"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/validation"
)

// StudentService handles student profile and report operations
type StudentService interface {
	GetProfileByUserID(ctx context.Context, userID int64) (*dto.StudentResponse, error)
	GetByID(ctx context.Context, studentID int64) (*dto.StudentResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	List(ctx context.Context, params *dto.StudentListParams) ([]*dto.StudentResponse, dto.PaginationInfo, error)
	Search(ctx context.Context, term string) ([]*dto.StudentResponse, error)
	FilteredReport(ctx context.Context, req *dto.ReportFilterRequest) ([]repositories.ReportRow, error)
	ExportReport(ctx context.Context, req *dto.ReportFilterRequest) (*bytes.Buffer, error)
}

type studentService struct {
	studentRepo   *repositories.StudentRepository
	userRepo      *repositories.UserRepository
	placementRepo *repositories.PlacementRepository
	mentorRepo    *repositories.MentorRepository
	logger        zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(repos *repositories.Repositories, logger zerolog.Logger) StudentService {
	return &studentService{
		studentRepo:   repos.StudentRepository,
		userRepo:      repos.UserRepository,
		placementRepo: repos.PlacementRepository,
		mentorRepo:    repos.MentorRepository,
		logger:        logger,
	}
}

// GetProfileByUserID returns the profile of the authenticated student
func (s *studentService) GetProfileByUserID(ctx context.Context, userID int64) (*dto.StudentResponse, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, student), nil
}

// GetByID returns a student profile by profile ID
func (s *studentService) GetByID(ctx context.Context, studentID int64) (*dto.StudentResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, student), nil
}

// UpdateProfile updates the authenticated student's own profile
func (s *studentService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !validation.IsValidName(req.FirstName) || !validation.IsValidName(req.LastName) {
		return nil, apperrors.ErrValidationFailed
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, req.FirstName, req.LastName); err != nil {
		return nil, err
	}
	if err := s.studentRepo.UpdateProfile(ctx, student.ID, req.Phone, req.Semester, req.CGPA); err != nil {
		return nil, err
	}

	updated, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, updated), nil
}

// List returns student profiles filtered by branch and batch year
func (s *studentService) List(ctx context.Context, params *dto.StudentListParams) ([]*dto.StudentResponse, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.PageSize)

	students, total, err := s.studentRepo.List(ctx, params.Branch, params.BatchYear, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	responses := make([]*dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, s.toResponse(ctx, student))
	}

	return responses, helpers.NewPaginationInfo(total, params.Page, limit), nil
}

// Search finds students by name, branch or numeric profile ID
func (s *studentService) Search(ctx context.Context, term string) ([]*dto.StudentResponse, error) {
	if term == "" {
		return []*dto.StudentResponse{}, nil
	}

	students, err := s.studentRepo.Search(ctx, term, helpers.MaxPageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, s.toResponse(ctx, student))
	}
	return responses, nil
}

// FilteredReport returns report rows matching the filter
func (s *studentService) FilteredReport(ctx context.Context, req *dto.ReportFilterRequest) ([]repositories.ReportRow, error) {
	return s.studentRepo.FilteredReport(ctx, req.Branches, req.MinCGPA, req.MaxCGPA, req.Keyword)
}

// ExportReport renders the filtered report as an xlsx workbook
func (s *studentService) ExportReport(ctx context.Context, req *dto.ReportFilterRequest) (*bytes.Buffer, error) {
	rows, err := s.studentRepo.FilteredReport(ctx, req.Branches, req.MinCGPA, req.MaxCGPA, req.Keyword)
	if err != nil {
		return nil, err
	}

	headers := []string{"Student ID", "Name", "Email", "Branch", "CGPA", "Batch Year"}
	data := make([][]any, 0, len(rows))
	for _, row := range rows {
		cgpa := any("")
		if row.CGPA != nil {
			cgpa = *row.CGPA
		}
		batch := any("")
		if row.BatchYear != nil {
			batch = *row.BatchYear
		}
		data = append(data, []any{row.StudentID, row.Name, row.Email, row.Branch, cgpa, batch})
	}

	buf, err := spreadsheet.Write(headers, data)
	if err != nil {
		return nil, fmt.Errorf("failed to build report workbook: %w", err)
	}
	return buf, nil
}

// toResponse assembles the profile response, attaching the linked
// placement record and mentor name when they exist. A missing record is
// normal for students created before their batch's data upload.
func (s *studentService) toResponse(ctx context.Context, student *models.Student) *dto.StudentResponse {
	resp := &dto.StudentResponse{
		ID:       student.ID,
		UserID:   student.UserID,
		Phone:    student.Phone,
		Branch:   student.Branch,
		Semester: student.Semester,
		CGPA:     student.CGPA,
	}
	if student.User != nil {
		resp.FirstName = student.User.FirstName
		resp.LastName = student.User.LastName
		resp.Email = student.User.Email
	}
	if student.DOB != nil {
		dob := student.DOB.Format(time.DateOnly)
		resp.DOB = &dob
	}

	record, err := s.placementRepo.GetByStudentID(ctx, student.ID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrPlacementRecordNotFound) {
			s.logger.Warn().Err(err).Int64("studentID", student.ID).Msg("Failed to load placement record")
		}
		return resp
	}
	resp.Placement = record

	if record.AssignedMentorID != nil {
		mentor, err := s.mentorRepo.GetByID(ctx, *record.AssignedMentorID)
		if err == nil {
			resp.MentorName = &mentor.Name
		}
	}
	return resp
}
