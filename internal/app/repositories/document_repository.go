package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/logger"
)

// DocumentRepository handles student document database operations
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, student_id, document_type, file_url, status, metadata, rejection_reason, uploaded_at`

func scanDocument(row pgx.Row) (*models.StudentDocument, error) {
	var doc models.StudentDocument
	err := row.Scan(
		&doc.ID,
		&doc.StudentID,
		&doc.DocumentType,
		&doc.FileURL,
		&doc.Status,
		&doc.Metadata,
		&doc.RejectionReason,
		&doc.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error scanning document row: %w", err)
	}
	return &doc, nil
}

// Create inserts a new document and sets its generated ID
func (r *DocumentRepository) Create(ctx context.Context, doc *models.StudentDocument) error {
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}

	query := `
		INSERT INTO student_documents (student_id, document_type, file_url, status, metadata, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		doc.StudentID,
		doc.DocumentType,
		doc.FileURL,
		doc.Status,
		doc.Metadata,
	).Scan(&doc.ID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", doc.StudentID).Msg("Error creating document")
		return fmt.Errorf("error creating document: %w", err)
	}
	return nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*models.StudentDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM student_documents WHERE id = $1`
	return scanDocument(r.db.QueryRow(ctx, query, id))
}

// ListByStudent retrieves all documents of one student
func (r *DocumentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM student_documents WHERE student_id = $1 ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.StudentDocument, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ListPendingByMentor retrieves pending documents of all students
// assigned to the given mentor.
func (r *DocumentRepository) ListPendingByMentor(ctx context.Context, mentorID int64) ([]*models.StudentDocument, error) {
	query := `
		SELECT sd.id, sd.student_id, sd.document_type, sd.file_url, sd.status, sd.metadata, sd.rejection_reason, sd.uploaded_at
		FROM student_documents sd
		JOIN placement_records pr ON pr.student_id = sd.student_id
		WHERE pr.assigned_mentor_id = $1 AND sd.status = 'pending'
		ORDER BY sd.uploaded_at ASC`

	rows, err := r.db.Query(ctx, query, mentorID)
	if err != nil {
		return nil, fmt.Errorf("error listing pending documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.StudentDocument, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateStatus sets the review status and optional rejection reason
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id int64, status models.DocumentStatus, reason *string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE student_documents SET status = $1, rejection_reason = $2 WHERE id = $3`,
		status, reason, id)
	if err != nil {
		return fmt.Errorf("error updating document status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

// Delete removes a document row
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM student_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

// IsStudentAssignedToMentor reports whether the student's placement
// record is assigned to the given mentor.
func (r *DocumentRepository) IsStudentAssignedToMentor(ctx context.Context, studentID, mentorID int64) (bool, error) {
	var assigned bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM placement_records WHERE student_id = $1 AND assigned_mentor_id = $2)`,
		studentID, mentorID).Scan(&assigned)
	if err != nil {
		return false, fmt.Errorf("error checking mentor assignment: %w", err)
	}
	return assigned, nil
}
