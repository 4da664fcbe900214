package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/response"
)

type syllabusService interface {
	List(ctx context.Context) ([]models.Syllabus, error)
	Create(ctx context.Context, actorID string, req models.CreateSyllabusRequest) (*models.Syllabus, error)
	Update(ctx context.Context, actorID, id string, req models.UpdateSyllabusRequest) (*models.Syllabus, error)
	Delete(ctx context.Context, actorID, id string) error
}

type noteService interface {
	List(ctx context.Context) ([]models.Note, error)
	ListForStudent(ctx context.Context, userID string) ([]models.Note, error)
	Create(ctx context.Context, actorID string, req models.CreateNoteRequest) (*models.Note, error)
	Update(ctx context.Context, actorID, id string, req models.UpdateNoteRequest) (*models.Note, error)
	Delete(ctx context.Context, actorID, id string) error
}

// SyllabusHandler exposes the syllabus catalog.
type SyllabusHandler struct {
	syllabi syllabusService
}

// NewSyllabusHandler constructs SyllabusHandler.
func NewSyllabusHandler(syllabi syllabusService) *SyllabusHandler {
	return &SyllabusHandler{syllabi: syllabi}
}

// List godoc
// @Summary List syllabi
// @Tags Syllabi
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/syllabi [get]
func (h *SyllabusHandler) List(c *gin.Context) {
	syllabi, err := h.syllabi.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(syllabi) == 0 {
		response.Message(c, http.StatusOK, "No syllabi found", []models.Syllabus{})
		return
	}
	response.JSON(c, http.StatusOK, syllabi, nil)
}

// Create godoc
// @Summary Add a syllabus
// @Tags Syllabi
// @Accept json
// @Produce json
// @Param payload body models.CreateSyllabusRequest true "Syllabus payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/syllabus [post]
func (h *SyllabusHandler) Create(c *gin.Context) {
	var req models.CreateSyllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid syllabus payload"))
		return
	}
	syllabus, err := h.syllabi.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Syllabus added successfully", gin.H{"syllabusId": syllabus.ID})
}

// Update godoc
// @Summary Update a syllabus
// @Description Only the creator may update an entry
// @Tags Syllabi
// @Accept json
// @Produce json
// @Param id path string true "Syllabus ID"
// @Param payload body models.UpdateSyllabusRequest true "Syllabus payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/syllabus/{id} [put]
func (h *SyllabusHandler) Update(c *gin.Context) {
	var req models.UpdateSyllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid syllabus payload"))
		return
	}
	syllabus, err := h.syllabi.Update(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Syllabus updated successfully", syllabus)
}

// Delete godoc
// @Summary Delete a syllabus
// @Description Only the creator may delete an entry
// @Tags Syllabi
// @Produce json
// @Param id path string true "Syllabus ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/syllabus/{id} [delete]
func (h *SyllabusHandler) Delete(c *gin.Context) {
	if err := h.syllabi.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Syllabus deleted successfully", nil)
}

// NoteHandler exposes study notes.
type NoteHandler struct {
	notes noteService
}

// NewNoteHandler constructs NoteHandler.
func NewNoteHandler(notes noteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// List godoc
// @Summary List all notes
// @Tags Notes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context())
	writeNotes(c, notes, err)
}

// ListForStudent godoc
// @Summary List notes for the signed in student
// @Description Notes matching the student's class, curricula and subjects, newest first
// @Tags Notes
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/student/notes [get]
func (h *NoteHandler) ListForStudent(c *gin.Context) {
	notes, err := h.notes.ListForStudent(c.Request.Context(), actorID(c))
	writeNotes(c, notes, err)
}

// Create godoc
// @Summary Add notes
// @Tags Notes
// @Accept json
// @Produce json
// @Param payload body models.CreateNoteRequest true "Notes payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req models.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notes payload"))
		return
	}
	note, err := h.notes.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Notes added successfully", gin.H{"notesId": note.ID})
}

// Update godoc
// @Summary Update notes
// @Description Only the creator may update notes
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path string true "Notes ID"
// @Param payload body models.UpdateNoteRequest true "Notes payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	var req models.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notes payload"))
		return
	}
	note, err := h.notes.Update(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Notes updated successfully", note)
}

// Delete godoc
// @Summary Delete notes
// @Description Only the creator may delete notes
// @Tags Notes
// @Produce json
// @Param id path string true "Notes ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.notes.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Notes deleted successfully", nil)
}

func writeNotes(c *gin.Context, notes []models.Note, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(notes) == 0 {
		response.Message(c, http.StatusOK, "No notes found", []models.Note{})
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}
