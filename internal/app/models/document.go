package models

import "time"

// StudentDocument defines an uploaded document based on the
// 'student_documents' table. Metadata keys are whitelisted per document
// type at the service layer before insert.
type StudentDocument struct {
	ID              int64          `json:"id" db:"id"`
	StudentID       int64          `json:"studentId" db:"student_id"`
	DocumentType    string         `json:"documentType" db:"document_type" example:"marksheet_10"`
	FileURL         string         `json:"fileUrl" db:"file_url"`
	Status          DocumentStatus `json:"status" db:"status" example:"pending"`
	Metadata        map[string]any `json:"metadata,omitempty" db:"metadata"`
	RejectionReason *string        `json:"rejectionReason,omitempty" db:"rejection_reason"`
	UploadedAt      time.Time      `json:"uploadedAt" db:"uploaded_at"`
}
