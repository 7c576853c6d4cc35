package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/KrithikaHS/The-Student-360/internal/app/models/dto"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/email"
)

// ContactController handles the public contact-us endpoint
type ContactController struct {
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewContactController creates a new ContactController
func NewContactController(emailService email.EmailService, logger zerolog.Logger) *ContactController {
	return &ContactController{
		emailService: emailService,
		logger:       logger,
	}
}

// Send forwards a contact message to the configured inbox
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Contact message"
// @Success 200 {object} dto.APIResponse "Message sent"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /contact [post]
func (c *ContactController) Send(ctx *gin.Context) {
	var req dto.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.emailService.SendContactEmail(req.Name, req.Email, req.Subject, req.Message); err != nil {
		c.logger.Error().Err(err).Str("from", req.Email).Msg("Failed to forward contact message")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Could not send message")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Message sent"))
}
