package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/app/models/dto"
	"github.com/KrithikaHS/The-Student-360/internal/app/repositories"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/filestorage"
)

// documentMetadataKeys whitelists the metadata fields each document type
// may carry. Unknown keys in the upload form are dropped, not rejected.
var documentMetadataKeys = map[string][]string{
	"marksheet_10":   {"percentage10", "board", "year"},
	"marksheet_12":   {"percentage12", "board", "year"},
	"semester_sheet": {"semester", "sgpa", "year"},
	"internship":     {"company", "domain", "start", "end"},
	"certification":  {"course_title", "provider", "weeks", "domain"},
	"resume":         {"version"},
}

// DocumentService handles document upload and mentor review
type DocumentService interface {
	Upload(ctx context.Context, userID int64, docType string, metadata map[string]string, file *multipart.FileHeader) (*dto.DocumentResponse, error)
	ListOwn(ctx context.Context, userID int64) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, userID, documentID int64) error
	ListPending(ctx context.Context, mentorUserID int64) ([]*dto.DocumentResponse, error)
	Approve(ctx context.Context, mentorUserID, documentID int64) error
	Reject(ctx context.Context, mentorUserID, documentID int64, reason string) error
}

type documentService struct {
	documentRepo *repositories.DocumentRepository
	studentRepo  *repositories.StudentRepository
	mentorRepo   *repositories.MentorRepository
	userRepo     *repositories.UserRepository
	storage      filestorage.FileStorage
	logger       zerolog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	repos *repositories.Repositories,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) DocumentService {
	return &documentService{
		documentRepo: repos.DocumentRepository,
		studentRepo:  repos.StudentRepository,
		mentorRepo:   repos.MentorRepository,
		userRepo:     repos.UserRepository,
		storage:      storage,
		logger:       logger,
	}
}

// Upload stores the file and creates a pending document for review.
// Metadata keys outside the type's whitelist are dropped.
func (s *documentService) Upload(ctx context.Context, userID int64, docType string, metadata map[string]string, file *multipart.FileHeader) (*dto.DocumentResponse, error) {
	docType = strings.ToLower(strings.TrimSpace(docType))
	allowedKeys, ok := documentMetadataKeys[docType]
	if !ok {
		return nil, apperrors.NewBadRequestError("unsupported document type: " + docType)
	}

	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := make(map[string]any)
	for _, key := range allowedKeys {
		if value, ok := metadata[key]; ok && value != "" {
			filtered[key] = value
		}
	}

	fileURL, err := s.storage.SaveFileWithPath(file, "documents")
	if err != nil {
		return nil, err
	}

	doc := &models.StudentDocument{
		StudentID:    student.ID,
		DocumentType: docType,
		FileURL:      fileURL,
		Status:       models.DocumentStatusPending,
		Metadata:     filtered,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		// Leave no orphaned file behind
		if delErr := s.storage.DeleteFile(fileURL); delErr != nil {
			s.logger.Warn().Err(delErr).Str("fileURL", fileURL).Msg("Failed to clean up orphaned upload")
		}
		return nil, err
	}

	s.logger.Info().Int64("documentID", doc.ID).Int64("studentID", student.ID).
		Str("type", docType).Msg("Document uploaded")
	return documentToResponse(doc), nil
}

// ListOwn lists the authenticated student's documents
func (s *documentService) ListOwn(ctx context.Context, userID int64) ([]*dto.DocumentResponse, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return documentsToResponses(docs), nil
}

// Delete removes one of the student's own documents along with its file
func (s *documentService) Delete(ctx context.Context, userID, documentID int64) error {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.StudentID != student.ID {
		return apperrors.ErrPermissionDenied
	}

	if err := s.documentRepo.Delete(ctx, documentID); err != nil {
		return err
	}

	if err := s.storage.DeleteFile(doc.FileURL); err != nil {
		s.logger.Warn().Err(err).Str("fileURL", doc.FileURL).Msg("Failed to delete document file")
	}
	return nil
}

// ListPending lists pending documents of the mentor's assigned students
func (s *documentService) ListPending(ctx context.Context, mentorUserID int64) ([]*dto.DocumentResponse, error) {
	mentor, err := s.mentorForUser(ctx, mentorUserID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.ListPendingByMentor(ctx, mentor.ID)
	if err != nil {
		return nil, err
	}
	return documentsToResponses(docs), nil
}

// Approve marks a document approved. Mentors may only review documents
// of students assigned to them.
func (s *documentService) Approve(ctx context.Context, mentorUserID, documentID int64) error {
	doc, err := s.reviewableDocument(ctx, mentorUserID, documentID)
	if err != nil {
		return err
	}
	return s.documentRepo.UpdateStatus(ctx, doc.ID, models.DocumentStatusApproved, nil)
}

// Reject marks a document rejected with a mandatory reason
func (s *documentService) Reject(ctx context.Context, mentorUserID, documentID int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.NewBadRequestError("rejection reason is required")
	}

	doc, err := s.reviewableDocument(ctx, mentorUserID, documentID)
	if err != nil {
		return err
	}
	return s.documentRepo.UpdateStatus(ctx, doc.ID, models.DocumentStatusRejected, &reason)
}

// reviewableDocument loads the document and verifies its student is
// assigned to the calling mentor.
func (s *documentService) reviewableDocument(ctx context.Context, mentorUserID, documentID int64) (*models.StudentDocument, error) {
	mentor, err := s.mentorForUser(ctx, mentorUserID)
	if err != nil {
		return nil, err
	}

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	assigned, err := s.documentRepo.IsStudentAssignedToMentor(ctx, doc.StudentID, mentor.ID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, apperrors.ErrNotAssignedToMentor
	}
	return doc, nil
}

func (s *documentService) mentorForUser(ctx context.Context, userID int64) (*models.Mentor, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.mentorRepo.GetByEmail(ctx, user.Email)
}

func documentToResponse(doc *models.StudentDocument) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:              doc.ID,
		StudentID:       doc.StudentID,
		DocumentType:    doc.DocumentType,
		FileURL:         doc.FileURL,
		Status:          doc.Status,
		Metadata:        doc.Metadata,
		RejectionReason: doc.RejectionReason,
		UploadedAt:      doc.UploadedAt.Format(time.RFC3339),
	}
}

func documentsToResponses(docs []*models.StudentDocument) []*dto.DocumentResponse {
	responses := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, documentToResponse(doc))
	}
	return responses
}
