package dto

import "github.com/KrithikaHS/The-Student-360/internal/app/models"

// DocumentResponse represents an uploaded student document
type DocumentResponse struct {
	ID              int64                 `json:"id"`
	StudentID       int64                 `json:"studentId"`
	DocumentType    string                `json:"documentType"`
	FileURL         string                `json:"fileUrl"`
	Status          models.DocumentStatus `json:"status"`
	Metadata        map[string]any        `json:"metadata,omitempty"`
	RejectionReason *string               `json:"rejectionReason,omitempty"`
	UploadedAt      string                `json:"uploadedAt"`
}

// RejectDocumentRequest carries the mandatory rejection reason
type RejectDocumentRequest struct {
	Reason string `json:"reason" binding:"required"`
}
