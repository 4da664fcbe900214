package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	"github.com/Shreekavinmr/masterminds-backend/internal/service"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/response"
)

type studentService interface {
	Enroll(ctx context.Context, req models.EnrollStudentRequest) (*models.EnrollResult, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, filter models.StudentFilter, format string) (*service.ExportFile, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// Enroll godoc
// @Summary Enroll a student
// @Description Creates the student login and enrollment record, then emails the initial credentials
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.EnrollStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/enroll-student [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	var req models.EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	result, err := h.students.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Student enrolled successfully and welcome email sent"
	if !result.WelcomeEmailSent {
		message = "Student enrolled successfully but the welcome email could not be sent"
	}
	response.Created(c, message, result)
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Search by name or email"
// @Param class query string false "Filter by class"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /auth/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, pagination, err := h.students.List(c.Request.Context(), studentFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Update godoc
// @Summary Update student
// @Description Partial update; omitted fields keep their stored values
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req models.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Student details updated successfully", student)
}

// Delete godoc
// @Summary Delete student
// @Description Removes the student and its login
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Student and associated user deleted successfully", nil)
}

// Export godoc
// @Summary Export the student roster
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param search query string false "Search by name or email"
// @Param class query string false "Filter by class"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /auth/students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	file, err := h.students.Export(c.Request.Context(), studentFilter(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func studentFilter(c *gin.Context) models.StudentFilter {
	return models.StudentFilter{
		Search:   c.Query("search"),
		Class:    c.Query("class"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "limit", 20),
	}
}
