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

// CompanyRepository handles company and application database operations
type CompanyRepository struct {
	db *pgxpool.Pool
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{db: db}
}

const companyColumns = `id, company_name, eligible_batches, eligible_branches, min_cgpa, min_10th, min_12th,
	jd_file_url, jd_text, additional_info, registration_deadline, created_at`

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.ID,
		&c.CompanyName,
		&c.EligibleBatches,
		&c.EligibleBranches,
		&c.MinCGPA,
		&c.Min10th,
		&c.Min12th,
		&c.JDFileURL,
		&c.JDText,
		&c.AdditionalInfo,
		&c.RegistrationDeadline,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("error scanning company row: %w", err)
	}
	return &c, nil
}

// Create inserts a new company and sets its generated ID
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	if company.EligibleBatches == nil {
		company.EligibleBatches = []int{}
	}
	if company.EligibleBranches == nil {
		company.EligibleBranches = []string{}
	}

	query := `
		INSERT INTO companies (company_name, eligible_batches, eligible_branches, min_cgpa, min_10th, min_12th,
			jd_file_url, jd_text, additional_info, registration_deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		company.CompanyName,
		company.EligibleBatches,
		company.EligibleBranches,
		company.MinCGPA,
		company.Min10th,
		company.Min12th,
		company.JDFileURL,
		company.JDText,
		company.AdditionalInfo,
		company.RegistrationDeadline,
	).Scan(&company.ID)
	if err != nil {
		logger.Error().Err(err).Str("companyName", company.CompanyName).Msg("Error creating company")
		return fmt.Errorf("error creating company: %w", err)
	}
	return nil
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.db.QueryRow(ctx, query, id))
}

// List retrieves all companies, newest first
func (r *CompanyRepository) List(ctx context.Context) ([]*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*models.Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

// CreateApplication records a student's registration against a company
func (r *CompanyRepository) CreateApplication(ctx context.Context, studentID, companyID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO company_applications (student_id, company_id, applied, applied_at)
		 VALUES ($1, $2, TRUE, NOW())`,
		studentID, companyID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "company_applications_student_company_key") {
			return apperrors.ErrAlreadyApplied
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCompanyNotFound
		}
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

// AppliedCompanyIDs returns the set of company IDs a student applied to
func (r *CompanyRepository) AppliedCompanyIDs(ctx context.Context, studentID int64) (map[int64]bool, error) {
	rows, err := r.db.Query(ctx,
		`SELECT company_id FROM company_applications WHERE student_id = $1 AND applied = TRUE`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]bool)
	for rows.Next() {
		var companyID int64
		if err := rows.Scan(&companyID); err != nil {
			return nil, fmt.Errorf("error scanning application: %w", err)
		}
		applied[companyID] = true
	}
	return applied, rows.Err()
}

// RegistrationRow is one line of a company's registration export
type RegistrationRow struct {
	StudentID int64
	Name      string
	Email     string
	Branch    string
	CGPA      *float64
	AppliedAt string
}

// Registrations lists all students registered for a company drive
func (r *CompanyRepository) Registrations(ctx context.Context, companyID int64) ([]RegistrationRow, error) {
	query := `
		SELECT s.id, u.first_name || ' ' || u.last_name, u.email, s.branch, s.cgpa,
		       to_char(ca.applied_at, 'YYYY-MM-DD HH24:MI')
		FROM company_applications ca
		JOIN students s ON s.id = ca.student_id
		JOIN users u ON u.id = s.user_id
		WHERE ca.company_id = $1 AND ca.applied = TRUE
		ORDER BY ca.applied_at ASC`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	defer rows.Close()

	result := make([]RegistrationRow, 0)
	for rows.Next() {
		var row RegistrationRow
		if err := rows.Scan(&row.StudentID, &row.Name, &row.Email, &row.Branch, &row.CGPA, &row.AppliedAt); err != nil {
			return nil, fmt.Errorf("error scanning registration row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
