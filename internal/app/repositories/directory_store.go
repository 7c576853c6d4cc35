package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
)

// PlacementDirectory exposes the queries and writes the mentor
// allocation pass needs, bound to a single transaction so the whole
// pass commits or rolls back as one unit.
type PlacementDirectory struct {
	tx pgx.Tx
}

// NewPlacementDirectory wraps a transaction in a PlacementDirectory
func NewPlacementDirectory(tx pgx.Tx) *PlacementDirectory {
	return &PlacementDirectory{tx: tx}
}

// Departments lists the distinct mentor departments. Departments are
// derived from mentors, not from students: a branch with no mentors is
// never visited.
func (d *PlacementDirectory) Departments(ctx context.Context) ([]string, error) {
	rows, err := d.tx.Query(ctx,
		`SELECT DISTINCT department FROM mentors WHERE department IS NOT NULL ORDER BY department ASC`)
	if err != nil {
		return nil, fmt.Errorf("error listing mentor departments: %w", err)
	}
	defer rows.Close()

	departments := make([]string, 0)
	for rows.Next() {
		var dept string
		if err := rows.Scan(&dept); err != nil {
			return nil, fmt.Errorf("error scanning department: %w", err)
		}
		departments = append(departments, dept)
	}
	return departments, rows.Err()
}

// MentorsByDepartment lists a department's mentors in creation order
func (d *PlacementDirectory) MentorsByDepartment(ctx context.Context, department string) ([]models.Mentor, error) {
	rows, err := d.tx.Query(ctx,
		`SELECT id, name, email, phone, department, max_students, current_student_count, created_at
		 FROM mentors WHERE department = $1 ORDER BY id ASC`, department)
	if err != nil {
		return nil, fmt.Errorf("error listing mentors: %w", err)
	}
	defer rows.Close()

	mentors := make([]models.Mentor, 0)
	for rows.Next() {
		var m models.Mentor
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Department, &m.MaxStudents, &m.CurrentStudentCount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning mentor: %w", err)
		}
		mentors = append(mentors, m)
	}
	return mentors, rows.Err()
}

// UnassignedStudents lists the IDs of unassigned placement records whose
// branch exactly matches the department, in record ID order.
func (d *PlacementDirectory) UnassignedStudents(ctx context.Context, department string) ([]int64, error) {
	rows, err := d.tx.Query(ctx,
		`SELECT id FROM placement_records WHERE assigned_mentor_id IS NULL AND branch = $1 ORDER BY id ASC`,
		department)
	if err != nil {
		return nil, fmt.Errorf("error listing unassigned students: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning record id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountAssignments returns the mentor's current assignment count from a
// fresh query, never the cached column.
func (d *PlacementDirectory) CountAssignments(ctx context.Context, mentorID int64) (int, error) {
	var count int
	err := d.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM placement_records WHERE assigned_mentor_id = $1`, mentorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting assignments: %w", err)
	}
	return count, nil
}

// Assign links a placement record to a mentor
func (d *PlacementDirectory) Assign(ctx context.Context, recordID, mentorID int64) error {
	_, err := d.tx.Exec(ctx,
		`UPDATE placement_records SET assigned_mentor_id = $1 WHERE id = $2`, mentorID, recordID)
	if err != nil {
		return fmt.Errorf("error assigning record %d to mentor %d: %w", recordID, mentorID, err)
	}
	return nil
}

// SetMentorCount writes the cached assignment count back to the mentor row
func (d *PlacementDirectory) SetMentorCount(ctx context.Context, mentorID int64, count int) error {
	_, err := d.tx.Exec(ctx,
		`UPDATE mentors SET current_student_count = $1 WHERE id = $2`, count, mentorID)
	if err != nil {
		return fmt.Errorf("error updating mentor count: %w", err)
	}
	return nil
}
