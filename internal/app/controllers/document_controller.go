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

// DocumentController handles document upload and mentor review endpoints
type DocumentController struct {
	documentService services.DocumentService
	logger          zerolog.Logger
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService, logger zerolog.Logger) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		logger:          logger,
	}
}

// Upload stores a document for mentor review
// @Summary Upload a document
// @Description Uploads a document file with type-specific metadata fields. The document starts in pending status.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Param documentType formData string true "Document type (marksheet_10, marksheet_12, semester_sheet, internship, certification, resume)"
// @Success 201 {object} dto.APIResponse{data=dto.DocumentResponse} "Document uploaded"
// @Failure 400 {object} dto.ErrorResponse "Missing file or unsupported type"
// @Router /documents [post]
// @Security BearerAuth
func (c *DocumentController) Upload(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	docType := ctx.PostForm("documentType")

	// Remaining form fields become candidate metadata; the service
	// filters them against the type's whitelist.
	metadata := make(map[string]string)
	if form, err := ctx.MultipartForm(); err == nil {
		for key, values := range form.Value {
			if key == "documentType" || len(values) == 0 {
				continue
			}
			metadata[key] = values[0]
		}
	}

	doc, err := c.documentService.Upload(ctx.Request.Context(), userID, docType, metadata, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(doc, "Document uploaded"))
}

// ListOwn lists the authenticated student's documents
// @Summary List own documents
// @Tags documents
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.DocumentResponse} "Documents"
// @Router /documents [get]
// @Security BearerAuth
func (c *DocumentController) ListOwn(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	docs, err := c.documentService.ListOwn(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(docs, ""))
}

// Delete removes one of the student's own documents
// @Summary Delete own document
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} dto.APIResponse "Document deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the document owner"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id} [delete]
// @Security BearerAuth
func (c *DocumentController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid document ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.documentService.Delete(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Document deleted"))
}

// ListPending lists pending documents of the mentor's students
// @Summary List pending documents for review
// @Tags documents
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.DocumentResponse} "Pending documents"
// @Router /documents/pending [get]
// @Security BearerAuth
func (c *DocumentController) ListPending(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	docs, err := c.documentService.ListPending(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(docs, ""))
}

// Approve marks a document approved
// @Summary Approve a document
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} dto.APIResponse "Document approved"
// @Failure 403 {object} dto.ErrorResponse "Student not assigned to this mentor"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id}/approve [put]
// @Security BearerAuth
func (c *DocumentController) Approve(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid document ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.documentService.Approve(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Document approved"))
}

// Reject marks a document rejected with a reason
// @Summary Reject a document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param request body dto.RejectDocumentRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse "Document rejected"
// @Failure 400 {object} dto.ErrorResponse "Reason missing"
// @Failure 403 {object} dto.ErrorResponse "Student not assigned to this mentor"
// @Router /documents/{id}/reject [put]
// @Security BearerAuth
func (c *DocumentController) Reject(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid document ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.RejectDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.documentService.Reject(ctx.Request.Context(), userID, id, req.Reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Document rejected"))
}
