package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/dberrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/logger"
)

// MentorRepository handles mentor database operations
type MentorRepository struct {
	db *pgxpool.Pool
}

// NewMentorRepository creates a new MentorRepository
func NewMentorRepository(db *pgxpool.Pool) *MentorRepository {
	return &MentorRepository{db: db}
}

const mentorColumns = `id, name, email, phone, department, max_students, current_student_count, created_at`

func scanMentor(row pgx.Row) (*models.Mentor, error) {
	var m models.Mentor
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Department, &m.MaxStudents, &m.CurrentStudentCount, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMentorNotFound
		}
		return nil, fmt.Errorf("error scanning mentor row: %w", err)
	}
	return &m, nil
}

// Create inserts a new mentor and sets its generated ID
func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	query := `
		INSERT INTO mentors (name, email, phone, department, max_students, current_student_count, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW())
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		mentor.Name,
		mentor.Email,
		mentor.Phone,
		mentor.Department,
		mentor.MaxStudents,
	).Scan(&mentor.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "mentors_email_key") {
			return apperrors.ErrMentorEmailExists
		}
		logger.Error().Err(err).Str("email", mentor.Email).Msg("Error creating mentor")
		return fmt.Errorf("error creating mentor: %w", err)
	}
	return nil
}

// CreateTx inserts a mentor within an existing transaction
func (r *MentorRepository) CreateTx(ctx context.Context, tx pgx.Tx, mentor *models.Mentor) error {
	query := `
		INSERT INTO mentors (name, email, phone, department, max_students, current_student_count, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW())
		RETURNING id`

	err := tx.QueryRow(ctx, query,
		mentor.Name,
		mentor.Email,
		mentor.Phone,
		mentor.Department,
		mentor.MaxStudents,
	).Scan(&mentor.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "mentors_email_key") {
			return apperrors.ErrMentorEmailExists
		}
		return fmt.Errorf("error creating mentor: %w", err)
	}
	return nil
}

// GetByID retrieves a mentor by ID
func (r *MentorRepository) GetByID(ctx context.Context, id int64) (*models.Mentor, error) {
	query := `SELECT ` + mentorColumns + ` FROM mentors WHERE id = $1`
	return scanMentor(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a mentor by email
func (r *MentorRepository) GetByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	query := `SELECT ` + mentorColumns + ` FROM mentors WHERE email = $1`
	return scanMentor(r.db.QueryRow(ctx, query, email))
}

// EmailExists checks if a mentor email already exists
func (r *MentorRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM mentors WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking mentor email existence: %w", err)
	}
	return exists, nil
}

// ListWithLiveCounts retrieves all mentors with the assignment count
// recomputed from placement links. The cached current_student_count
// column is for the allocator's own bookkeeping, not for display.
func (r *MentorRepository) ListWithLiveCounts(ctx context.Context) ([]*models.Mentor, error) {
	query := `
		SELECT m.id, m.name, m.email, m.phone, m.department, m.max_students,
		       COUNT(pr.id) AS live_count, m.created_at
		FROM mentors m
		LEFT JOIN placement_records pr ON pr.assigned_mentor_id = m.id
		GROUP BY m.id
		ORDER BY m.id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing mentors: %w", err)
	}
	defer rows.Close()

	mentors := make([]*models.Mentor, 0)
	for rows.Next() {
		mentor, err := scanMentor(rows)
		if err != nil {
			return nil, err
		}
		mentors = append(mentors, mentor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mentor rows: %w", err)
	}

	return mentors, nil
}
