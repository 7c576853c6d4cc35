package models

import "time"

// Mentor defines the mentor model based on the 'mentors' table
type Mentor struct {
	ID         int64     `json:"id" db:"id" example:"1"`                          // Unique identifier for the mentor
	Name       string    `json:"name" db:"name" example:"Dr. Rao"`                // Mentor's display name
	Email      string    `json:"email" db:"email" example:"rao@college.edu"`      // Mentor's email address (unique)
	Phone      *string   `json:"phone,omitempty" db:"phone"`                      // Contact phone number (nullable)
	Department *string   `json:"department,omitempty" db:"department"`            // Department the mentor serves (nullable)
	MaxStudents int      `json:"maxStudents" db:"max_students" example:"10"`      // Capacity ceiling; 0 means unlimited
	CurrentStudentCount int `json:"currentStudentCount" db:"current_student_count"` // Cached assignment count, recomputed after each pass
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`                       // Timestamp when the mentor was registered
}

// Unlimited reports whether the mentor has no capacity ceiling.
func (m *Mentor) Unlimited() bool {
	return m.MaxStudents <= 0
}
