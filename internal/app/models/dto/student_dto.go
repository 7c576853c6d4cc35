package dto

import "github.com/KrithikaHS/The-Student-360/internal/app/models"

// StudentResponse represents a student profile joined with the linked
// placement record (offer slots included when a record exists).
type StudentResponse struct {
	ID           int64                   `json:"id"`
	UserID       int64                   `json:"userId"`
	FirstName    string                  `json:"firstName"`
	LastName     string                  `json:"lastName"`
	Email        string                  `json:"email"`
	Phone        *string                 `json:"phone,omitempty"`
	Branch       string                  `json:"branch"`
	Semester     *int                    `json:"semester,omitempty"`
	CGPA         *float64                `json:"cgpa,omitempty"`
	DOB          *string                 `json:"dob,omitempty"`
	Placement    *models.PlacementRecord `json:"placement,omitempty"`
	MentorName   *string                 `json:"mentorName,omitempty"`
}

// UpdateStudentRequest represents a student updating their own profile
type UpdateStudentRequest struct {
	FirstName string   `json:"firstName" binding:"required"`
	LastName  string   `json:"lastName" binding:"required"`
	Phone     *string  `json:"phone"`
	Semester  *int     `json:"semester" binding:"omitempty,min=1,max=12"`
	CGPA      *float64 `json:"cgpa" binding:"omitempty,min=0,max=10"`
}

// StudentListParams captures the filter query of the student list endpoint
type StudentListParams struct {
	Branch    string `form:"branch"`
	BatchYear int    `form:"batchYear"`
	Page      int    `form:"page,default=1"`
	PageSize  int    `form:"pageSize,default=10"`
}

// ReportFilterRequest selects students for the filtered report.
// Branches is a whitelist (empty means all); CGPA bounds are inclusive;
// Keyword matches against document metadata values.
type ReportFilterRequest struct {
	Branches []string `json:"branches"`
	MinCGPA  *float64 `json:"minCgpa"`
	MaxCGPA  *float64 `json:"maxCgpa"`
	Keyword  string   `json:"keyword"`
	Download bool     `json:"download"`
}

// BulkUploadResult is the per-row tally of a best-effort spreadsheet import
type BulkUploadResult struct {
	Saved   int      `json:"saved"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
