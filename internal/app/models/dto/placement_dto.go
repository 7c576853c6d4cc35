package dto

import "github.com/shopspring/decimal"

// RecordOfferRequest adds a single offer to one placement record
type RecordOfferRequest struct {
	Company  string          `json:"company" binding:"required"`
	Category string          `json:"category" binding:"required"`
	CTC      decimal.Decimal `json:"ctc" binding:"required"`
}

// ManualAssignRequest assigns one company's offer to a selected set of
// students in a single transaction. PerStudentCTC overrides the default
// CTC for individual students; a student with neither fails the batch.
type ManualAssignRequest struct {
	Company       string                    `json:"company" binding:"required"`
	Category      string                    `json:"category" binding:"required"`
	DefaultCTC    *decimal.Decimal          `json:"defaultCtc"`
	StudentIDs    []int64                   `json:"studentIds" binding:"required,min=1"`
	PerStudentCTC map[int64]decimal.Decimal `json:"perStudentCtc"`
}

// BulkOfferDefaults carries the form fields accompanying a bulk offer
// spreadsheet upload.
type BulkOfferDefaults struct {
	Company    string           `form:"company" binding:"required"`
	Category   string           `form:"category" binding:"required"`
	DefaultCTC *decimal.Decimal `form:"defaultCtc"`
}

// OfferBatchResult summarizes an all-or-nothing offer batch
type OfferBatchResult struct {
	Applied int      `json:"applied"`
	Skipped []string `json:"skipped,omitempty"` // Unmatched students, not errors
}

// AssignmentSummary is the result of one auto-assignment pass
type AssignmentSummary struct {
	Assigned int `json:"assigned"`
}
