package dto

// RegisterMentorRequest creates a mentor row plus a MENTOR user account.
// The account is activated through the emailed password-set link.
type RegisterMentorRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       *string `json:"phone"`
	Department  *string `json:"department"`
	MaxStudents int     `json:"maxStudents" binding:"omitempty,min=0"`
}

// MentorResponse represents a mentor with the assignment count recomputed
// from live placement links rather than the cached column.
type MentorResponse struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	Phone               *string `json:"phone,omitempty"`
	Department          *string `json:"department,omitempty"`
	MaxStudents         int     `json:"maxStudents"`
	CurrentStudentCount int     `json:"currentStudentCount"`
}

// MentorStudentResponse is one row of a mentor's own student list
type MentorStudentResponse struct {
	RecordID   int64   `json:"recordId"`
	StudentID  *int64  `json:"studentId,omitempty"`
	Name       string  `json:"name"`
	Branch     string  `json:"branch"`
	BatchYear  *int    `json:"batchYear,omitempty"`
	OfferCount int     `json:"offerCount"`
	Email      *string `json:"email,omitempty"`
}

// ContactRequest is the public contact-us message payload
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}
