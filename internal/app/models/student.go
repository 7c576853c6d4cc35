package models

import "time"

// Student defines the student profile model based on the 'students' table.
// The placement side of a student (offers, mentor assignment) lives in
// PlacementRecord; the two are linked during signup by matching name and
// date of birth.
type Student struct {
	ID       int64      `json:"id" db:"id" example:"1"`           // Unique identifier for the student profile
	UserID   int64      `json:"userId" db:"user_id" example:"5"`  // ID of the associated user account
	Phone    *string    `json:"phone,omitempty" db:"phone"`       // Contact phone number (nullable)
	Branch   string     `json:"branch" db:"branch" example:"CSE"` // Academic branch/department
	Semester *int       `json:"semester,omitempty" db:"semester"` // Current semester (nullable)
	CGPA     *float64   `json:"cgpa,omitempty" db:"cgpa"`         // Cumulative grade point average (nullable)
	DOB      *time.Time `json:"dob,omitempty" db:"dob"`           // Date of birth, used for record linking

	// Relations (populated when needed)
	User *User `json:"user,omitempty"` // Associated user information
}
