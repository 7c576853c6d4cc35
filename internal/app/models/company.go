package models

import "time"

// Company defines a recruiting company based on the 'companies' table
type Company struct {
	ID                   int64      `json:"id" db:"id"`
	CompanyName          string     `json:"companyName" db:"company_name"`
	EligibleBatches      []int      `json:"eligibleBatches" db:"eligible_batches"`   // Batch years allowed to apply
	EligibleBranches     []string   `json:"eligibleBranches" db:"eligible_branches"` // Branches allowed to apply
	MinCGPA              *float64   `json:"minCgpa,omitempty" db:"min_cgpa"`
	Min10th              *float64   `json:"min10th,omitempty" db:"min_10th"`
	Min12th              *float64   `json:"min12th,omitempty" db:"min_12th"`
	JDFileURL            *string    `json:"jdFileUrl,omitempty" db:"jd_file_url"` // Uploaded job description file
	JDText               *string    `json:"jdText,omitempty" db:"jd_text"`
	AdditionalInfo       *string    `json:"additionalInfo,omitempty" db:"additional_info"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty" db:"registration_deadline"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
}

// CompanyApplication records a student's registration against a company drive
type CompanyApplication struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	CompanyID int64     `json:"companyId" db:"company_id"`
	Applied   bool      `json:"applied" db:"applied"`
	AppliedAt time.Time `json:"appliedAt" db:"applied_at"`
}
