package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/response"
)

type inquiryService interface {
	Contact(ctx context.Context, req models.ContactRequest) (*models.InquiryResult, error)
	Enroll(ctx context.Context, req models.EnrollInquiryRequest) (*models.InquiryResult, error)
}

// InquiryHandler serves the public contact and enrollment forms.
type InquiryHandler struct {
	inquiries inquiryService
}

// NewInquiryHandler constructs InquiryHandler.
func NewInquiryHandler(inquiries inquiryService) *InquiryHandler {
	return &InquiryHandler{inquiries: inquiries}
}

// Contact godoc
// @Summary Send a contact message
// @Tags Forms
// @Accept json
// @Produce json
// @Param payload body models.ContactRequest true "Contact form"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /contact [post]
func (h *InquiryHandler) Contact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing required fields"))
		return
	}
	result, err := h.inquiries.Contact(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Message sent successfully", result)
}

// Enroll godoc
// @Summary Submit an enrollment request
// @Tags Forms
// @Accept json
// @Produce json
// @Param payload body models.EnrollInquiryRequest true "Enrollment form"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /enroll [post]
func (h *InquiryHandler) Enroll(c *gin.Context) {
	var req models.EnrollInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing required fields"))
		return
	}
	result, err := h.inquiries.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Enrollment request submitted successfully", result)
}
