package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/dberrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/logger"
)

// PlacementRepository handles placement record database operations
type PlacementRepository struct {
	db *pgxpool.Pool
}

// NewPlacementRepository creates a new PlacementRepository
func NewPlacementRepository(db *pgxpool.Pool) *PlacementRepository {
	return &PlacementRepository{db: db}
}

const placementColumns = `id, student_id, name, dob, branch, batch_year, percentage10, percentage12,
	assigned_mentor_id, product, service, dream, offer_count, created_at`

func scanPlacementRecord(row pgx.Row) (*models.PlacementRecord, error) {
	var rec models.PlacementRecord
	err := row.Scan(
		&rec.ID,
		&rec.StudentID,
		&rec.Name,
		&rec.DOB,
		&rec.Branch,
		&rec.BatchYear,
		&rec.Percentage10,
		&rec.Percentage12,
		&rec.AssignedMentorID,
		&rec.Product,
		&rec.Service,
		&rec.Dream,
		&rec.OfferCount,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPlacementRecordNotFound
		}
		return nil, fmt.Errorf("error scanning placement record: %w", err)
	}
	return &rec, nil
}

// Create inserts a new placement record and sets its generated ID
func (r *PlacementRepository) Create(ctx context.Context, rec *models.PlacementRecord) error {
	if rec.Product == nil {
		rec.Product = []models.Offer{}
	}
	if rec.Service == nil {
		rec.Service = []models.Offer{}
	}
	if rec.Dream == nil {
		rec.Dream = []models.Offer{}
	}

	query := `
		INSERT INTO placement_records (student_id, name, dob, branch, batch_year, percentage10, percentage12, product, service, dream, offer_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		rec.StudentID,
		rec.Name,
		rec.DOB,
		rec.Branch,
		rec.BatchYear,
		rec.Percentage10,
		rec.Percentage12,
		rec.Product,
		rec.Service,
		rec.Dream,
		rec.OfferCount,
	).Scan(&rec.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "placement_records_name_dob_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Str("name", rec.Name).Msg("Error creating placement record")
		return fmt.Errorf("error creating placement record: %w", err)
	}
	return nil
}

// GetByID retrieves a placement record by ID
func (r *PlacementRepository) GetByID(ctx context.Context, id int64) (*models.PlacementRecord, error) {
	query := `SELECT ` + placementColumns + ` FROM placement_records WHERE id = $1`
	return scanPlacementRecord(r.db.QueryRow(ctx, query, id))
}

// GetByStudentID retrieves the placement record linked to a student profile
func (r *PlacementRepository) GetByStudentID(ctx context.Context, studentID int64) (*models.PlacementRecord, error) {
	query := `SELECT ` + placementColumns + ` FROM placement_records WHERE student_id = $1`
	return scanPlacementRecord(r.db.QueryRow(ctx, query, studentID))
}

// GetByNameDOB retrieves a placement record by the (name, dob) natural key
func (r *PlacementRepository) GetByNameDOB(ctx context.Context, name string, dob time.Time) (*models.PlacementRecord, error) {
	query := `SELECT ` + placementColumns + ` FROM placement_records WHERE LOWER(name) = LOWER($1) AND dob = $2`
	return scanPlacementRecord(r.db.QueryRow(ctx, query, name, dob))
}

// LinkStudentTx attaches a student profile to a placement record within a transaction
func (r *PlacementRepository) LinkStudentTx(ctx context.Context, tx pgx.Tx, recordID, studentID int64) error {
	cmdTag, err := tx.Exec(ctx,
		`UPDATE placement_records SET student_id = $1 WHERE id = $2 AND student_id IS NULL`,
		studentID, recordID)
	if err != nil {
		return fmt.Errorf("error linking placement record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRecordAlreadyLinked
	}
	return nil
}

// GetForUpdateTx loads a placement record with a row lock inside the
// given transaction. Concurrent offer writes for the same record queue
// up behind the lock; different records proceed in parallel.
func (r *PlacementRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id int64) (*models.PlacementRecord, error) {
	query := `SELECT ` + placementColumns + ` FROM placement_records WHERE id = $1 FOR UPDATE`
	return scanPlacementRecord(tx.QueryRow(ctx, query, id))
}

// UpdateOffersTx persists the offer slots and the recomputed offer count
func (r *PlacementRepository) UpdateOffersTx(ctx context.Context, tx pgx.Tx, rec *models.PlacementRecord) error {
	cmdTag, err := tx.Exec(ctx,
		`UPDATE placement_records SET product = $1, service = $2, dream = $3, offer_count = $4 WHERE id = $5`,
		rec.Product, rec.Service, rec.Dream, rec.OfferCount, rec.ID)
	if err != nil {
		return fmt.Errorf("error updating offers: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPlacementRecordNotFound
	}
	return nil
}

// FindIDByNameTx resolves a record ID by case-insensitive name match
// inside a transaction. Used by bulk offer uploads when no USN is given.
func (r *PlacementRepository) FindIDByNameTx(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`SELECT id FROM placement_records WHERE LOWER(name) = LOWER($1) ORDER BY id LIMIT 1`,
		name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrPlacementRecordNotFound
		}
		return 0, fmt.Errorf("error resolving record by name: %w", err)
	}
	return id, nil
}

// FindIDByStudentTx resolves the record linked to a student profile,
// inside a transaction.
func (r *PlacementRepository) FindIDByStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`SELECT id FROM placement_records WHERE student_id = $1`, studentID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrPlacementRecordNotFound
		}
		return 0, fmt.Errorf("error resolving record by student: %w", err)
	}
	return id, nil
}

// GetOrCreateForStudentTx resolves the record linked to a student
// profile, creating one from the profile's own data when none exists
// yet. Returns ErrStudentNotFound when the profile itself is missing.
func (r *PlacementRepository) GetOrCreateForStudentTx(ctx context.Context, tx pgx.Tx, studentID int64) (int64, error) {
	id, err := r.FindIDByStudentTx(ctx, tx, studentID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, apperrors.ErrPlacementRecordNotFound) {
		return 0, err
	}

	var (
		firstName, lastName string
		branch              string
		dob                 *time.Time
	)
	err = tx.QueryRow(ctx,
		`SELECT u.first_name, u.last_name, s.branch, s.dob
		 FROM students s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.id = $1`, studentID).Scan(&firstName, &lastName, &branch, &dob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrStudentNotFound
		}
		return 0, fmt.Errorf("error loading student profile: %w", err)
	}

	name := strings.TrimSpace(firstName + " " + lastName)
	if branch == "" {
		branch = "Unknown"
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO placement_records (student_id, name, dob, branch)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`, studentID, name, dob, branch).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating placement record: %w", err)
	}
	return id, nil
}

// FindStudentIDByNameTx resolves a student profile by the linked user's
// full name, case-insensitively, inside a transaction.
func (r *PlacementRepository) FindStudentIDByNameTx(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`SELECT s.id
		 FROM students s
		 JOIN users u ON u.id = s.user_id
		 WHERE LOWER(TRIM(u.first_name || ' ' || u.last_name)) = LOWER(TRIM($1))
		 ORDER BY s.id LIMIT 1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrStudentNotFound
		}
		return 0, fmt.Errorf("error resolving student by name: %w", err)
	}
	return id, nil
}

// ExistsTx reports whether a record ID exists, inside a transaction
func (r *PlacementRepository) ExistsTx(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM placement_records WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking record existence: %w", err)
	}
	return exists, nil
}

// ListByMentor retrieves all placement records assigned to a mentor,
// joined with the linked user's email when the student has signed up.
func (r *PlacementRepository) ListByMentor(ctx context.Context, mentorID int64) ([]*models.PlacementRecord, map[int64]string, error) {
	query := `
		SELECT ` + prefixedPlacementColumns("pr") + `, u.email
		FROM placement_records pr
		LEFT JOIN students s ON s.id = pr.student_id
		LEFT JOIN users u ON u.id = s.user_id
		WHERE pr.assigned_mentor_id = $1
		ORDER BY pr.id ASC`

	rows, err := r.db.Query(ctx, query, mentorID)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing mentor students: %w", err)
	}
	defer rows.Close()

	records := make([]*models.PlacementRecord, 0)
	emails := make(map[int64]string)
	for rows.Next() {
		var rec models.PlacementRecord
		var email *string
		err := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.Name, &rec.DOB, &rec.Branch, &rec.BatchYear,
			&rec.Percentage10, &rec.Percentage12, &rec.AssignedMentorID,
			&rec.Product, &rec.Service, &rec.Dream, &rec.OfferCount, &rec.CreatedAt,
			&email,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning mentor student row: %w", err)
		}
		if email != nil {
			emails[rec.ID] = *email
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating mentor student rows: %w", err)
	}

	return records, emails, nil
}

// PlacedStudents retrieves all records holding at least one offer
func (r *PlacementRepository) PlacedStudents(ctx context.Context) ([]*models.PlacementRecord, error) {
	query := `SELECT ` + placementColumns + ` FROM placement_records WHERE offer_count > 0 ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing placed students: %w", err)
	}
	defer rows.Close()

	records := make([]*models.PlacementRecord, 0)
	for rows.Next() {
		rec, err := scanPlacementRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating placed student rows: %w", err)
	}

	return records, nil
}

// DistinctBatches returns all distinct batch years, newest first
func (r *PlacementRepository) DistinctBatches(ctx context.Context) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT batch_year FROM placement_records WHERE batch_year IS NOT NULL ORDER BY batch_year DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing batches: %w", err)
	}
	defer rows.Close()

	batches := make([]int, 0)
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("error scanning batch year: %w", err)
		}
		batches = append(batches, year)
	}
	return batches, rows.Err()
}

// DistinctBranches returns all distinct branches in alphabetical order
func (r *PlacementRepository) DistinctBranches(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT branch FROM placement_records ORDER BY branch ASC`)
	if err != nil {
		return nil, fmt.Errorf("error listing branches: %w", err)
	}
	defer rows.Close()

	branches := make([]string, 0)
	for rows.Next() {
		var branch string
		if err := rows.Scan(&branch); err != nil {
			return nil, fmt.Errorf("error scanning branch: %w", err)
		}
		branches = append(branches, branch)
	}
	return branches, rows.Err()
}

func prefixedPlacementColumns(alias string) string {
	return alias + `.id, ` + alias + `.student_id, ` + alias + `.name, ` + alias + `.dob, ` +
		alias + `.branch, ` + alias + `.batch_year, ` + alias + `.percentage10, ` + alias + `.percentage12, ` +
		alias + `.assigned_mentor_id, ` + alias + `.product, ` + alias + `.service, ` + alias + `.dream, ` +
		alias + `.offer_count, ` + alias + `.created_at`
}
