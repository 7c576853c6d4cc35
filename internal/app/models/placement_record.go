package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OfferCategory is the closed set of offer slots a placement record carries.
// Values arriving from the outside world (API payloads, spreadsheet cells)
// must go through ParseOfferCategory before they reach the ledger.
type OfferCategory string

const (
	OfferCategoryProduct OfferCategory = "product"
	OfferCategoryService OfferCategory = "service"
	OfferCategoryDream   OfferCategory = "dream"
)

// ParseOfferCategory maps a raw string onto an OfferCategory.
// The second return value is false for anything outside the closed set.
func ParseOfferCategory(raw string) (OfferCategory, bool) {
	switch OfferCategory(strings.ToLower(strings.TrimSpace(raw))) {
	case OfferCategoryProduct:
		return OfferCategoryProduct, true
	case OfferCategoryService:
		return OfferCategoryService, true
	case OfferCategoryDream:
		return OfferCategoryDream, true
	default:
		return "", false
	}
}

// Offer is a single placement offer held in one of the category slots.
type Offer struct {
	Company string          `json:"company" example:"Acme Corp"` // Offering company name
	CTC     decimal.Decimal `json:"ctc" example:"12.5"`          // Annual compensation in LPA
}

// PlacementRecord defines the placement ledger row based on the
// 'placement_records' table. Records are created from bulk uploads before
// the student has an account; StudentID is linked at signup by matching
// (Name, DOB).
type PlacementRecord struct {
	ID               int64      `json:"id" db:"id"`
	StudentID        *int64     `json:"studentId,omitempty" db:"student_id"`               // Linked student profile (nullable until signup)
	Name             string     `json:"name" db:"name"`                                    // Student name as uploaded; unique together with DOB
	DOB              *time.Time `json:"dob,omitempty" db:"dob"`                            // Date of birth as uploaded
	Branch           string     `json:"branch" db:"branch" example:"CSE"`                  // Branch used for mentor allocation
	BatchYear        *int       `json:"batchYear,omitempty" db:"batch_year"`               // Graduation batch year
	Percentage10     *float64   `json:"percentage10,omitempty" db:"percentage10"`          // 10th grade percentage
	Percentage12     *float64   `json:"percentage12,omitempty" db:"percentage12"`          // 12th grade percentage
	AssignedMentorID *int64     `json:"assignedMentorId,omitempty" db:"assigned_mentor_id"` // Allocated mentor (nullable)
	Product          []Offer    `json:"product" db:"product"`                              // Product-company offer slot
	Service          []Offer    `json:"service" db:"service"`                              // Service-company offer slot
	Dream            []Offer    `json:"dream" db:"dream"`                                  // Dream-company offer slot
	OfferCount       int        `json:"offerCount" db:"offer_count"`                       // Derived; always recomputed from the slots
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Mentor *Mentor `json:"mentor,omitempty"`
}
