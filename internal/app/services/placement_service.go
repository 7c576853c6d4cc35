package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/KrithikaHS/The-Student-360/internal/app/models"
	"github.com/KrithikaHS/The-Student-360/internal/app/models/dto"
	"github.com/KrithikaHS/The-Student-360/internal/app/repositories"
	"github.com/KrithikaHS/The-Student-360/internal/db"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/apperrors"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/spreadsheet"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/validation"
)

// PlacementService handles placement record ingestion and offer writes
type PlacementService interface {
	RecordOffer(ctx context.Context, recordID int64, req *dto.RecordOfferRequest) (*models.PlacementRecord, error)
	ManualAssign(ctx context.Context, req *dto.ManualAssignRequest) (*dto.OfferBatchResult, error)
	BulkOfferUpload(ctx context.Context, file io.Reader, defaults *dto.BulkOfferDefaults) (*dto.OfferBatchResult, error)
	BulkStudentImport(ctx context.Context, file io.Reader, batchYear int) (*dto.BulkUploadResult, error)
	GetRecord(ctx context.Context, recordID int64) (*models.PlacementRecord, error)
	PlacedStudents(ctx context.Context) ([]*models.PlacementRecord, error)
	ExportPlacedStudents(ctx context.Context) (*bytes.Buffer, error)
	Batches(ctx context.Context) ([]int, error)
	Branches(ctx context.Context) ([]string, error)
}

type placementService struct {
	placementRepo    *repositories.PlacementRepository
	database         *db.PostgresDB
	strictCategories bool
	logger           zerolog.Logger
}

// NewPlacementService creates a new PlacementService
func NewPlacementService(
	repos *repositories.Repositories,
	database *db.PostgresDB,
	strictCategories bool,
	logger zerolog.Logger,
) PlacementService {
	return &placementService{
		placementRepo:    repos.PlacementRepository,
		database:         database,
		strictCategories: strictCategories,
		logger:           logger,
	}
}

// RecordOffer applies a single offer to one record. The record is read
// under a row lock so concurrent writes to the same record serialize.
// An unknown category is skipped without touching the record, unless
// strict mode is on, in which case it is rejected.
func (s *placementService) RecordOffer(ctx context.Context, recordID int64, req *dto.RecordOfferRequest) (*models.PlacementRecord, error) {
	var result *models.PlacementRecord

	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		rec, err := s.placementRepo.GetForUpdateTx(ctx, tx, recordID)
		if err != nil {
			return err
		}

		category, ok := models.ParseOfferCategory(req.Category)
		if !ok {
			if s.strictCategories {
				return apperrors.ErrUnknownOfferCategory
			}
			s.logger.Warn().Str("category", req.Category).Int64("recordID", recordID).
				Msg("Unknown offer category skipped")
			result = rec
			return nil
		}

		offer := models.Offer{Company: strings.TrimSpace(req.Company), CTC: req.CTC}
		ApplyOffer(rec, offer, category)

		if err := s.placementRepo.UpdateOffersTx(ctx, tx, rec); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ManualAssign applies one company's offer to a selected set of students
// in a single transaction. A student whose profile has no placement
// record yet gets one created on the spot; an unknown student ID is
// skipped; a student with no usable CTC fails the whole batch.
func (s *placementService) ManualAssign(ctx context.Context, req *dto.ManualAssignRequest) (*dto.OfferBatchResult, error) {
	category, ok := models.ParseOfferCategory(req.Category)
	if !ok {
		return nil, apperrors.ErrUnknownOfferCategory
	}
	company := strings.TrimSpace(req.Company)

	result := &dto.OfferBatchResult{}
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, studentID := range req.StudentIDs {
			ctc, ok := req.PerStudentCTC[studentID]
			if !ok {
				if req.DefaultCTC == nil {
					return apperrors.ErrMissingCTC
				}
				ctc = *req.DefaultCTC
			}

			recordID, err := s.placementRepo.GetOrCreateForStudentTx(ctx, tx, studentID)
			if err != nil {
				if err == apperrors.ErrStudentNotFound {
					result.Skipped = append(result.Skipped, fmt.Sprintf("student %d not found", studentID))
					continue
				}
				return err
			}

			if err := s.applyOfferTx(ctx, tx, recordID, models.Offer{Company: company, CTC: ctc}, category); err != nil {
				return err
			}
			result.Applied++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("applied", result.Applied).Int("skipped", len(result.Skipped)).
		Str("company", company).Msg("Manual offer assignment completed")
	return result, nil
}

// BulkOfferUpload ingests an offer spreadsheet as one transaction. Rows
// are matched to records by ID first, then by name; unmatched rows are
// reported as skipped, but any malformed row aborts the whole batch.
func (s *placementService) BulkOfferUpload(ctx context.Context, file io.Reader, defaults *dto.BulkOfferDefaults) (*dto.OfferBatchResult, error) {
	rows, err := spreadsheet.Parse(file)
	if err != nil {
		return nil, apperrors.NewBadRequestError("could not read spreadsheet: " + err.Error())
	}

	result := &dto.OfferBatchResult{}
	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i, row := range rows {
			rowNum := i + 2

			recordID, matched, err := s.matchRecordTx(ctx, tx, row)
			if err != nil {
				return err
			}
			if !matched {
				result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: no matching record", rowNum))
				continue
			}

			company := row.Pick("company", "company_name", "employer")
			if company == "" {
				company = defaults.Company
			}
			if company == "" {
				return apperrors.NewBadRequestError(fmt.Sprintf("row %d: company is required", rowNum))
			}

			rawCategory := row.Pick("category", "offer_category", "type")
			if rawCategory == "" {
				rawCategory = defaults.Category
			}
			category, ok := models.ParseOfferCategory(rawCategory)
			if !ok {
				if s.strictCategories {
					return apperrors.ErrUnknownOfferCategory
				}
				s.logger.Warn().Str("category", rawCategory).Int("row", rowNum).
					Msg("Unknown offer category skipped")
				continue
			}

			ctc, err := s.rowCTC(row, defaults.DefaultCTC)
			if err != nil {
				return err
			}

			if err := s.applyOfferTx(ctx, tx, recordID, models.Offer{Company: company, CTC: ctc}, category); err != nil {
				return err
			}
			result.Applied++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("applied", result.Applied).Int("skipped", len(result.Skipped)).
		Msg("Bulk offer upload completed")
	return result, nil
}

// BulkStudentImport creates placement records for one batch year from an
// xlsx sheet. Rows are processed best-effort: a bad or duplicate row is
// tallied and skipped, the rest still import.
func (s *placementService) BulkStudentImport(ctx context.Context, file io.Reader, batchYear int) (*dto.BulkUploadResult, error) {
	rows, err := spreadsheet.Parse(file)
	if err != nil {
		return nil, apperrors.NewBadRequestError("could not read spreadsheet: " + err.Error())
	}

	result := &dto.BulkUploadResult{}
	for i, row := range rows {
		rowNum := i + 2

		name := row.Pick("name", "student_name", "full_name")
		if name == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: name is required", rowNum))
			continue
		}

		rec := &models.PlacementRecord{
			Name:   name,
			Branch: "Unknown",
		}
		if branch := row.Pick("branch", "department", "dept"); branch != "" {
			rec.Branch = branch
		}
		if rawDOB := row.Pick("dob", "date_of_birth", "birth_date"); rawDOB != "" {
			dob, err := parseSheetDate(rawDOB)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad dob %q", rowNum, rawDOB))
				continue
			}
			rec.DOB = &dob
		}
		if batchYear > 0 {
			rec.BatchYear = &batchYear
		} else if year, ok := row.PickInt("batch_year", "batch", "year"); ok {
			rec.BatchYear = &year
		}
		if p10, ok := row.PickFloat("percentage10", "10th_percentage", "tenth"); ok {
			rec.Percentage10 = &p10
		}
		if p12, ok := row.PickFloat("percentage12", "12th_percentage", "twelfth"); ok {
			rec.Percentage12 = &p12
		}

		if err := s.placementRepo.Create(ctx, rec); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): %v", rowNum, name, err))
			continue
		}
		result.Saved++
	}

	s.logger.Info().Int("saved", result.Saved).Int("skipped", result.Skipped).
		Int("batchYear", batchYear).Msg("Student bulk import finished")
	return result, nil
}

// GetRecord retrieves a placement record by ID
func (s *placementService) GetRecord(ctx context.Context, recordID int64) (*models.PlacementRecord, error) {
	return s.placementRepo.GetByID(ctx, recordID)
}

// PlacedStudents returns all records holding at least one offer
func (s *placementService) PlacedStudents(ctx context.Context) ([]*models.PlacementRecord, error) {
	return s.placementRepo.PlacedStudents(ctx)
}

// ExportPlacedStudents renders placed students as an xlsx workbook with
// each category's offers flattened to "Company (ctc LPA)" strings.
func (s *placementService) ExportPlacedStudents(ctx context.Context) (*bytes.Buffer, error) {
	records, err := s.placementRepo.PlacedStudents(ctx)
	if err != nil {
		return nil, err
	}

	headers := []string{"Record ID", "Name", "Branch", "Batch Year", "Product", "Service", "Dream", "Offer Count"}
	data := make([][]any, 0, len(records))
	for _, rec := range records {
		batch := any("")
		if rec.BatchYear != nil {
			batch = *rec.BatchYear
		}
		data = append(data, []any{
			rec.ID,
			rec.Name,
			rec.Branch,
			batch,
			flattenOffers(rec.Product),
			flattenOffers(rec.Service),
			flattenOffers(rec.Dream),
			rec.OfferCount,
		})
	}

	buf, err := spreadsheet.Write(headers, data)
	if err != nil {
		return nil, fmt.Errorf("failed to build placement workbook: %w", err)
	}
	return buf, nil
}

// Batches returns all distinct batch years, newest first
func (s *placementService) Batches(ctx context.Context) ([]int, error) {
	return s.placementRepo.DistinctBatches(ctx)
}

// Branches returns all distinct branches
func (s *placementService) Branches(ctx context.Context) ([]string, error) {
	return s.placementRepo.DistinctBranches(ctx)
}

// applyOfferTx locks a record, applies the offer and persists the slots
func (s *placementService) applyOfferTx(ctx context.Context, tx pgx.Tx, recordID int64, offer models.Offer, category models.OfferCategory) error {
	rec, err := s.placementRepo.GetForUpdateTx(ctx, tx, recordID)
	if err != nil {
		return err
	}
	ApplyOffer(rec, offer, category)
	return s.placementRepo.UpdateOffersTx(ctx, tx, rec)
}

// matchRecordTx resolves a spreadsheet row to a record ID: an explicit
// ID column wins, otherwise the name is matched case-insensitively. A
// row that matches a registered student profile with no record yet gets
// a record created from the profile. Rows matching nothing are skipped
// by the caller.
func (s *placementService) matchRecordTx(ctx context.Context, tx pgx.Tx, row spreadsheet.Row) (int64, bool, error) {
	if id, ok := row.PickInt("record_id", "usn", "id"); ok {
		exists, err := s.placementRepo.ExistsTx(ctx, tx, int64(id))
		if err != nil {
			return 0, false, err
		}
		if exists {
			return int64(id), true, nil
		}
		return s.recordForProfileTx(ctx, tx, int64(id))
	}

	name := row.Pick("name", "student_name", "full_name")
	if name == "" {
		return 0, false, nil
	}
	id, err := s.placementRepo.FindIDByNameTx(ctx, tx, name)
	if err == nil {
		return id, true, nil
	}
	if err != apperrors.ErrPlacementRecordNotFound {
		return 0, false, err
	}

	studentID, err := s.placementRepo.FindStudentIDByNameTx(ctx, tx, name)
	if err != nil {
		if err == apperrors.ErrStudentNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	return s.recordForProfileTx(ctx, tx, studentID)
}

// recordForProfileTx gets or lazily creates the record for a student
// profile; a missing profile is a non-match, not an error.
func (s *placementService) recordForProfileTx(ctx context.Context, tx pgx.Tx, studentID int64) (int64, bool, error) {
	recordID, err := s.placementRepo.GetOrCreateForStudentTx(ctx, tx, studentID)
	if err != nil {
		if err == apperrors.ErrStudentNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	return recordID, true, nil
}

// rowCTC reads the CTC column, falling back to the batch default.
// A row with neither aborts the batch.
func (s *placementService) rowCTC(row spreadsheet.Row, defaultCTC *decimal.Decimal) (decimal.Decimal, error) {
	raw := row.Pick("ctc", "ctc_lpa", "package", "salary")
	if raw == "" {
		if defaultCTC == nil {
			return decimal.Decimal{}, apperrors.ErrMissingCTC
		}
		return *defaultCTC, nil
	}

	ctc, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, apperrors.ErrMissingCTC
	}
	return ctc, nil
}

// flattenOffers renders a slot as "Company (ctc LPA)" entries
func flattenOffers(offers []models.Offer) string {
	if len(offers) == 0 {
		return ""
	}
	parts := make([]string, 0, len(offers))
	for _, offer := range offers {
		parts = append(parts, fmt.Sprintf("%s (%s LPA)", offer.Company, offer.CTC.String()))
	}
	return strings.Join(parts, ", ")
}

// parseSheetDate accepts the date formats that show up in uploads
func parseSheetDate(raw string) (time.Time, error) {
	layouts := []string{validation.DOBLayout, "02-01-2006", "02/01/2006", "2006/01/02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
