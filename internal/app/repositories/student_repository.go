package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/logger"
)

// StudentRepository handles student profile database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateTx inserts a student profile within an existing transaction
func (r *StudentRepository) CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	query := `
		INSERT INTO students (user_id, phone, branch, semester, cgpa, dob)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := tx.QueryRow(ctx, query,
		student.UserID,
		student.Phone,
		student.Branch,
		student.Semester,
		student.CGPA,
		student.DOB,
	).Scan(&student.ID)
	if err != nil {
		return fmt.Errorf("error creating student profile: %w", err)
	}
	return nil
}

const studentJoinColumns = `
	s.id, s.user_id, s.phone, s.branch, s.semester, s.cgpa, s.dob,
	u.id, u.email, u.first_name, u.last_name, u.role_type, u.is_active, u.created_at, u.updated_at`

func scanStudentWithUser(row pgx.Row) (*models.Student, error) {
	var student models.Student
	var user models.User
	err := row.Scan(
		&student.ID,
		&student.UserID,
		&student.Phone,
		&student.Branch,
		&student.Semester,
		&student.CGPA,
		&student.DOB,
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.RoleType,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error scanning student row: %w", err)
	}
	student.User = &user
	return &student, nil
}

// GetByID retrieves a student profile with its user by profile ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT ` + studentJoinColumns + ` FROM students s JOIN users u ON u.id = s.user_id WHERE s.id = $1`
	return scanStudentWithUser(r.db.QueryRow(ctx, query, id))
}

// GetByUserID retrieves a student profile by the owning user's ID
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	query := `SELECT ` + studentJoinColumns + ` FROM students s JOIN users u ON u.id = s.user_id WHERE s.user_id = $1`
	return scanStudentWithUser(r.db.QueryRow(ctx, query, userID))
}

// GetByEmail retrieves a student profile by the owning user's email
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := `SELECT ` + studentJoinColumns + ` FROM students s JOIN users u ON u.id = s.user_id WHERE u.email = $1`
	return scanStudentWithUser(r.db.QueryRow(ctx, query, email))
}

// UpdateProfile updates the mutable profile fields of a student
func (r *StudentRepository) UpdateProfile(ctx context.Context, studentID int64, phone *string, semester *int, cgpa *float64) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE students SET phone = $1, semester = $2, cgpa = $3 WHERE id = $4`,
		phone, semester, cgpa, studentID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error updating student profile")
		return fmt.Errorf("error updating student profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// List retrieves student profiles filtered by branch and batch year with
// pagination. Batch year filtering goes through the linked placement record.
func (r *StudentRepository) List(ctx context.Context, branch string, batchYear int, offset uint64, limit int) ([]*models.Student, int64, error) {
	base := r.sb.Select().
		From("students s").
		Join("users u ON u.id = s.user_id").
		LeftJoin("placement_records pr ON pr.student_id = s.id")

	if branch != "" {
		base = base.Where(squirrel.Eq{"s.branch": branch})
	}
	if batchYear > 0 {
		base = base.Where(squirrel.Eq{"pr.batch_year": batchYear})
	}

	countSQL, countArgs, err := base.Column("COUNT(DISTINCT s.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build student count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	listSQL, listArgs, err := base.
		Column("DISTINCT " + studentJoinColumns).
		OrderBy("s.id ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build student list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudentWithUser(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, total, nil
}

// Search finds students whose name or branch matches the term. A purely
// numeric term is additionally matched against the profile ID.
func (r *StudentRepository) Search(ctx context.Context, term string, limit int) ([]*models.Student, error) {
	pattern := "%" + term + "%"

	conditions := squirrel.Or{
		squirrel.ILike{"u.first_name || ' ' || u.last_name": pattern},
		squirrel.ILike{"s.branch": pattern},
	}
	if id, err := strconv.ParseInt(term, 10, 64); err == nil {
		conditions = append(conditions, squirrel.Eq{"s.id": id})
	}

	sql, args, err := r.sb.Select(studentJoinColumns).
		From("students s").
		Join("users u ON u.id = s.user_id").
		Where(conditions).
		OrderBy("s.id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student search query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error searching students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudentWithUser(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search rows: %w", err)
	}

	return students, nil
}

// ReportRow is one line of the filtered student report
type ReportRow struct {
	StudentID int64
	Name      string
	Email     string
	Branch    string
	CGPA      *float64
	BatchYear *int
}

// FilteredReport selects students by branch whitelist, inclusive CGPA
// bounds and a keyword matched against document metadata values.
func (r *StudentRepository) FilteredReport(ctx context.Context, branches []string, minCGPA, maxCGPA *float64, keyword string) ([]ReportRow, error) {
	base := r.sb.Select(
		"DISTINCT s.id",
		"u.first_name || ' ' || u.last_name AS name",
		"u.email",
		"s.branch",
		"s.cgpa",
		"pr.batch_year",
	).
		From("students s").
		Join("users u ON u.id = s.user_id").
		LeftJoin("placement_records pr ON pr.student_id = s.id")

	if len(branches) > 0 {
		base = base.Where(squirrel.Eq{"s.branch": branches})
	}
	if minCGPA != nil {
		base = base.Where(squirrel.GtOrEq{"s.cgpa": *minCGPA})
	}
	if maxCGPA != nil {
		base = base.Where(squirrel.LtOrEq{"s.cgpa": *maxCGPA})
	}
	if keyword != "" {
		base = base.
			Join("student_documents sd ON sd.student_id = s.id").
			Where(squirrel.ILike{"sd.metadata::text": "%" + keyword + "%"})
	}

	sql, args, err := base.OrderBy("s.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build report query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error running report query: %w", err)
	}
	defer rows.Close()

	result := make([]ReportRow, 0)
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(&row.StudentID, &row.Name, &row.Email, &row.Branch, &row.CGPA, &row.BatchYear); err != nil {
			return nil, fmt.Errorf("error scanning report row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return result, nil
}
