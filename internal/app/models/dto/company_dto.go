package dto

// RegisterCompanyRequest carries the multipart form fields of company
// registration; the JD file arrives as a separate form file.
type RegisterCompanyRequest struct {
	CompanyName          string   `form:"companyName" binding:"required"`
	EligibleBatches      []int    `form:"eligibleBatches"`
	EligibleBranches     []string `form:"eligibleBranches"`
	MinCGPA              *float64 `form:"minCgpa"`
	Min10th              *float64 `form:"min10th"`
	Min12th              *float64 `form:"min12th"`
	JDText               *string  `form:"jdText"`
	AdditionalInfo       *string  `form:"additionalInfo"`
	RegistrationDeadline *string  `form:"registrationDeadline"` // YYYY-MM-DD
}

// CompanyResponse represents a company drive from a student's perspective
type CompanyResponse struct {
	ID                   int64    `json:"id"`
	CompanyName          string   `json:"companyName"`
	EligibleBatches      []int    `json:"eligibleBatches"`
	EligibleBranches     []string `json:"eligibleBranches"`
	MinCGPA              *float64 `json:"minCgpa,omitempty"`
	Min10th              *float64 `json:"min10th,omitempty"`
	Min12th              *float64 `json:"min12th,omitempty"`
	JDFileURL            *string  `json:"jdFileUrl,omitempty"`
	JDText               *string  `json:"jdText,omitempty"`
	AdditionalInfo       *string  `json:"additionalInfo,omitempty"`
	RegistrationDeadline *string  `json:"registrationDeadline,omitempty"`
	Applied              bool     `json:"applied"`
	DeadlineCrossed      bool     `json:"deadlineCrossed"`
}
