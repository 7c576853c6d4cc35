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

// CompanyController handles company drive and application endpoints
type CompanyController struct {
	companyService services.CompanyService
	logger         zerolog.Logger
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(companyService services.CompanyService, logger zerolog.Logger) *CompanyController {
	return &CompanyController{
		companyService: companyService,
		logger:         logger,
	}
}

// Register creates a company drive
// @Summary Register a company drive
// @Tags companies
// @Accept multipart/form-data
// @Produce json
// @Param companyName formData string true "Company name"
// @Param eligibleBatches formData []int false "Eligible batch years" collectionFormat(multi)
// @Param eligibleBranches formData []string false "Eligible branches" collectionFormat(multi)
// @Param minCgpa formData number false "Minimum CGPA"
// @Param registrationDeadline formData string false "Deadline (YYYY-MM-DD)"
// @Param jdFile formData file false "Job description file"
// @Success 201 {object} dto.APIResponse{data=dto.CompanyResponse} "Company registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /companies [post]
// @Security BearerAuth
func (c *CompanyController) Register(ctx *gin.Context) {
	var req dto.RegisterCompanyRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	// JD file is optional
	jdFile, err := ctx.FormFile("jdFile")
	if err != nil {
		jdFile = nil
	}

	company, err := c.companyService.Register(ctx.Request.Context(), &req, jdFile)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(company, "Company registered"))
}

// List lists company drives. For students the rows carry their own
// application state and deadline status.
// @Summary List company drives
// @Tags companies
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CompanyResponse} "Companies"
// @Router /companies [get]
// @Security BearerAuth
func (c *CompanyController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	role, _ := ctx.Get("roleType")
	var (
		companies []*dto.CompanyResponse
		err       error
	)
	if role == "STUDENT" {
		companies, err = c.companyService.ListForStudent(ctx.Request.Context(), userID)
	} else {
		companies, err = c.companyService.List(ctx.Request.Context())
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(companies, ""))
}

// Apply registers the authenticated student for a drive
// @Summary Apply to a company drive
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse "Application recorded"
// @Failure 400 {object} dto.ErrorResponse "Registration deadline has passed"
// @Failure 409 {object} dto.ErrorResponse "Already applied"
// @Router /companies/{id}/apply [post]
// @Security BearerAuth
func (c *CompanyController) Apply(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid company ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.companyService.Apply(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Application recorded"))
}

// ExportRegistrations downloads a drive's registrations as xlsx
// @Summary Export company registrations
// @Tags companies
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Company ID"
// @Success 200 {file} file "Registrations workbook"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /companies/{id}/registrations [get]
// @Security BearerAuth
func (c *CompanyController) ExportRegistrations(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid company ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	buf, err := c.companyService.ExportRegistrations(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	serveWorkbook(ctx, "registrations.xlsx", buf)
}
