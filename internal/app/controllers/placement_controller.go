package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/KrithikaHS/The-Student-360/internal/app/models/dto"
	"github.com/KrithikaHS/The-Student-360/internal/app/services"
	"github.com/KrithikaHS/The-Student-360/internal/middleware"
)

// PlacementController handles placement records and offer endpoints
type PlacementController struct {
	placementService services.PlacementService
	logger           zerolog.Logger
}

// NewPlacementController creates a new PlacementController
func NewPlacementController(placementService services.PlacementService, logger zerolog.Logger) *PlacementController {
	return &PlacementController{
		placementService: placementService,
		logger:           logger,
	}
}

// GetRecord returns a placement record with its offer slots
// @Summary Get a placement record
// @Tags placements
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} dto.APIResponse{data=models.PlacementRecord} "Record"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /placements/{id} [get]
// @Security BearerAuth
func (c *PlacementController) GetRecord(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid record ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	record, err := c.placementService.GetRecord(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record, ""))
}

// RecordOffer applies a single offer to a record
// @Summary Record an offer
// @Description Applies an offer to one record. Product and dream offers replace the slot; service offers append and collapse to the single highest CTC once a product offer exists.
// @Tags placements
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param request body dto.RecordOfferRequest true "Offer"
// @Success 200 {object} dto.APIResponse{data=models.PlacementRecord} "Updated record"
// @Failure 400 {object} dto.ErrorResponse "Unknown category (strict mode)"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /placements/{id}/offers [post]
// @Security BearerAuth
func (c *PlacementController) RecordOffer(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid record ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.RecordOfferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	record, err := c.placementService.RecordOffer(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record, "Offer recorded"))
}

// ManualAssign applies one offer to a selected set of students
// @Summary Manually assign an offer to students
// @Description Applies one company's offer to the selected students in a single transaction. Students without a placement record are skipped; a student with no usable CTC fails the whole batch.
// @Tags placements
// @Accept json
// @Produce json
// @Param request body dto.ManualAssignRequest true "Assignment"
// @Success 200 {object} dto.APIResponse{data=dto.OfferBatchResult} "Batch summary"
// @Failure 400 {object} dto.ErrorResponse "Unknown category or missing CTC"
// @Router /placements/offers/assign [post]
// @Security BearerAuth
func (c *PlacementController) ManualAssign(ctx *gin.Context) {
	var req dto.ManualAssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.placementService.ManualAssign(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, "Offers assigned"))
}

// BulkOfferUpload ingests an offer spreadsheet
// @Summary Bulk upload offers
// @Description Applies offers from an xlsx sheet in one transaction. Unmatched rows are reported as skipped; any malformed row aborts the whole batch.
// @Tags placements
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Offer spreadsheet (xlsx)"
// @Param company formData string true "Default company"
// @Param category formData string true "Default category"
// @Param defaultCtc formData number false "Default CTC in LPA"
// @Success 200 {object} dto.APIResponse{data=dto.OfferBatchResult} "Batch summary"
// @Failure 400 {object} dto.ErrorResponse "Unreadable file or malformed row"
// @Router /placements/offers/bulk [post]
// @Security BearerAuth
func (c *PlacementController) BulkOfferUpload(ctx *gin.Context) {
	var defaults dto.BulkOfferDefaults
	if err := ctx.ShouldBind(&defaults); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "could not open uploaded file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	defer file.Close()

	result, err := c.placementService.BulkOfferUpload(ctx.Request.Context(), file, &defaults)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, "Offer upload finished"))
}

// BulkStudentImport creates placement records from a spreadsheet
// @Summary Bulk import student placement records
// @Description Creates placement records for a batch year from an xlsx sheet. Rows are processed best-effort.
// @Tags placements
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Student spreadsheet (xlsx)"
// @Param batchYear formData int false "Batch year applied to every row"
// @Success 200 {object} dto.APIResponse{data=dto.BulkUploadResult} "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Missing or unreadable file"
// @Router /placements/students/bulk [post]
// @Security BearerAuth
func (c *PlacementController) BulkStudentImport(ctx *gin.Context) {
	batchYear, _ := strconv.Atoi(ctx.PostForm("batchYear"))

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "could not open uploaded file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	defer file.Close()

	result, err := c.placementService.BulkStudentImport(ctx.Request.Context(), file, batchYear)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, "Student import finished"))
}

// PlacedStudents lists records holding at least one offer
// @Summary List placed students
// @Tags placements
// @Produce json
// @Param download query bool false "Download as xlsx"
// @Success 200 {object} dto.APIResponse{data=[]models.PlacementRecord} "Placed students"
// @Router /placements/placed [get]
// @Security BearerAuth
func (c *PlacementController) PlacedStudents(ctx *gin.Context) {
	if ctx.Query("download") == "true" {
		buf, err := c.placementService.ExportPlacedStudents(ctx.Request.Context())
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		serveWorkbook(ctx, "placed_students.xlsx", buf)
		return
	}

	records, err := c.placementService.PlacedStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(records, ""))
}

// Batches lists distinct batch years
// @Summary List batch years
// @Tags placements
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]int} "Batch years, newest first"
// @Router /placements/batches [get]
// @Security BearerAuth
func (c *PlacementController) Batches(ctx *gin.Context) {
	batches, err := c.placementService.Batches(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(batches, ""))
}

// Branches lists distinct branches
// @Summary List branches
// @Tags placements
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string} "Branches"
// @Router /placements/branches [get]
// @Security BearerAuth
func (c *PlacementController) Branches(ctx *gin.Context) {
	branches, err := c.placementService.Branches(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(branches, ""))
}
