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

// MentorController handles mentor registration and mentor-facing endpoints
type MentorController struct {
	mentorService    services.MentorService
	allocatorService services.AllocatorService
	logger           zerolog.Logger
}

// NewMentorController creates a new MentorController
func NewMentorController(
	mentorService services.MentorService,
	allocatorService services.AllocatorService,
	logger zerolog.Logger,
) *MentorController {
	return &MentorController{
		mentorService:    mentorService,
		allocatorService: allocatorService,
		logger:           logger,
	}
}

// Register creates a mentor with an inactive user account
// @Summary Register a mentor
// @Description Creates a mentor row plus an inactive MENTOR user account and emails the one-time password-set link.
// @Tags mentors
// @Accept json
// @Produce json
// @Param request body dto.RegisterMentorRequest true "Mentor information"
// @Success 201 {object} dto.APIResponse{data=dto.MentorResponse} "Mentor registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /mentors [post]
// @Security BearerAuth
func (c *MentorController) Register(ctx *gin.Context) {
	var req dto.RegisterMentorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	mentor, err := c.mentorService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(mentor, "Mentor registered, activation email sent"))
}

// BulkImport registers mentors from an uploaded xlsx sheet
// @Summary Bulk import mentors
// @Description Imports mentors from an xlsx file. Rows are processed best-effort; the response tallies saved and skipped rows.
// @Tags mentors
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Mentor spreadsheet (xlsx)"
// @Success 200 {object} dto.APIResponse{data=dto.BulkUploadResult} "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Missing or unreadable file"
// @Router /mentors/bulk [post]
// @Security BearerAuth
func (c *MentorController) BulkImport(ctx *gin.Context) {
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

	result, err := c.mentorService.BulkImport(ctx.Request.Context(), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, "Mentor import finished"))
}

// List returns all mentors with live assignment counts
// @Summary List mentors
// @Tags mentors
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.MentorResponse} "Mentors"
// @Router /mentors [get]
// @Security BearerAuth
func (c *MentorController) List(ctx *gin.Context) {
	mentors, err := c.mentorService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(mentors, ""))
}

// MyStudents lists the authenticated mentor's assigned students
// @Summary List own assigned students
// @Tags mentors
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.MentorStudentResponse} "Assigned students"
// @Router /mentors/my-students [get]
// @Security BearerAuth
func (c *MentorController) MyStudents(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	students, err := c.mentorService.MyStudents(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students, ""))
}

// ResendActivation re-sends a mentor's password-set link
// @Summary Resend mentor activation email
// @Tags mentors
// @Produce json
// @Param id path int true "Mentor ID"
// @Success 200 {object} dto.APIResponse "Activation email sent"
// @Failure 404 {object} dto.ErrorResponse "Mentor not found"
// @Failure 409 {object} dto.ErrorResponse "Account already active"
// @Router /mentors/{id}/resend-activation [post]
// @Security BearerAuth
func (c *MentorController) ResendActivation(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid mentor ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.mentorService.ResendActivation(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Activation email sent"))
}

// AutoAssign runs one mentor allocation pass
// @Summary Auto-assign unassigned students to mentors
// @Description Distributes unassigned placement records across mentors per department. The pass is all-or-nothing: any failure rolls every assignment back.
// @Tags mentors
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentSummary} "Assignment summary"
// @Failure 500 {object} dto.ErrorResponse "Allocation pass failed"
// @Router /mentors/auto-assign [post]
// @Security BearerAuth
func (c *MentorController) AutoAssign(ctx *gin.Context) {
	assigned, err := c.allocatorService.AutoAssign(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AssignmentSummary{Assigned: assigned}, "Auto-assignment completed"))
}
