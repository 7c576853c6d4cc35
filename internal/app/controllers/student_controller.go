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

// StudentController handles student profile and report operations
type StudentController struct {
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// GetMyProfile returns the authenticated student's own profile
// @Summary Get own profile
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Profile"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /students/me [get]
// @Security BearerAuth
func (c *StudentController) GetMyProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	profile, err := c.studentService.GetProfileByUserID(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, ""))
}

// UpdateMyProfile updates the authenticated student's own profile
// @Summary Update own profile
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.UpdateStudentRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /students/me [put]
// @Security BearerAuth
func (c *StudentController) UpdateMyProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.studentService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, "Profile updated"))
}

// GetStudent returns a student profile by ID
// @Summary Get a student by ID
// @Tags students
// @Produce json
// @Param id path int true "Student profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Profile"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
// @Security BearerAuth
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.studentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, ""))
}

// ListStudents lists student profiles with filters and pagination
// @Summary List students
// @Tags students
// @Produce json
// @Param branch query string false "Branch filter"
// @Param batchYear query int false "Batch year filter"
// @Param page query int false "Page (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Students"
// @Router /students [get]
// @Security BearerAuth
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var params dto.StudentListParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	students, pagination, err := c.studentService.List(ctx.Request.Context(), &params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      students,
		Pagination: pagination,
	}, ""))
}

// SearchStudents searches students by name, branch or ID
// @Summary Search students
// @Tags students
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse} "Matches"
// @Router /students/search [get]
// @Security BearerAuth
func (c *StudentController) SearchStudents(ctx *gin.Context) {
	term := ctx.Query("q")

	students, err := c.studentService.Search(ctx.Request.Context(), term)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students, ""))
}

// FilteredReport builds the filtered student report, optionally as a
// downloadable workbook.
// @Summary Filtered student report
// @Description Selects students by branch whitelist, inclusive CGPA bounds and a keyword matched against document metadata. Set download=true for an xlsx file.
// @Tags students
// @Accept json
// @Produce json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body dto.ReportFilterRequest true "Report filter"
// @Success 200 {object} dto.APIResponse "Report rows"
// @Router /students/report [post]
// @Security BearerAuth
func (c *StudentController) FilteredReport(ctx *gin.Context) {
	var req dto.ReportFilterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if req.Download {
		buf, err := c.studentService.ExportReport(ctx.Request.Context(), &req)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		serveWorkbook(ctx, "student_report.xlsx", buf)
		return
	}

	rows, err := c.studentService.FilteredReport(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rows, ""))
}
