package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/validation"
)

type noteRepository interface {
	List(ctx context.Context) ([]models.Note, error)
	ListMatching(ctx context.Context, filter models.NoteFilter) ([]models.Note, error)
	FindByID(ctx context.Context, id string) (*models.Note, error)
	Create(ctx context.Context, note *models.Note) error
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id string) error
}

type studentProfileFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

// NoteService manages study notes and matches them to enrolled students.
type NoteService struct {
	repo      noteRepository
	students  studentProfileFinder
	validator *validation.Validator
	logger    *zap.Logger
}

// NewNoteService constructs a NoteService.
func NewNoteService(repo noteRepository, students studentProfileFinder, validate *validation.Validator, logger *zap.Logger) *NoteService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns every note.
func (s *NoteService) List(ctx context.Context) ([]models.Note, error) {
	notes, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list notes", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to list notes")
	}
	return notes, nil
}

// ListForStudent returns the notes matching the class, curricula and subjects of the student owned by userID.
func (s *NoteService) ListForStudent(ctx context.Context, userID string) ([]models.Note, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student profile not found")
		}
		s.logger.Error("failed to load student profile", zap.String("user_id", userID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load student profile")
	}

	notes, err := s.repo.ListMatching(ctx, models.NoteFilter{
		Class:     student.Class,
		Curricula: student.Curricula,
		Subjects:  student.Subjects,
	})
	if err != nil {
		s.logger.Error("failed to list student notes", zap.String("student_id", student.ID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to list notes")
	}
	return notes, nil
}

// Create stores new notes owned by actorID.
func (s *NoteService) Create(ctx context.Context, actorID string, req models.CreateNoteRequest) (*models.Note, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, s.validator.Describe(err))
	}
	note := &models.Note{
		Class:       req.Class,
		Curriculum:  req.Curriculum,
		Subject:     req.Subject,
		NotesLink:   req.NotesLink,
		CreatedByID: actorID,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		s.logger.Error("failed to create notes", zap.String("actor_id", actorID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to create notes")
	}
	return note, nil
}

// Update applies a partial update when actorID created the notes.
func (s *NoteService) Update(ctx context.Context, actorID, id string, req models.UpdateNoteRequest) (*models.Note, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, s.validator.Describe(err))
	}
	note, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actorID, note.CreatedByID, "update", "these notes"); err != nil {
		return nil, err
	}

	applyString(&note.Class, req.Class)
	applyString(&note.Curriculum, req.Curriculum)
	applyString(&note.Subject, req.Subject)
	applyString(&note.NotesLink, req.NotesLink)

	if err := s.repo.Update(ctx, note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Notes not found")
		}
		s.logger.Error("failed to update notes", zap.String("note_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to update notes")
	}
	return note, nil
}

// Delete removes notes when actorID created them.
func (s *NoteService) Delete(ctx context.Context, actorID, id string) error {
	note, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actorID, note.CreatedByID, "delete", "these notes"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Notes not found")
		}
		s.logger.Error("failed to delete notes", zap.String("note_id", id), zap.Error(err))
		return appErrors.Internal(err, "failed to delete notes")
	}
	return nil
}

func (s *NoteService) load(ctx context.Context, id string) (*models.Note, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Notes not found")
		}
		s.logger.Error("failed to load notes", zap.String("note_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load notes")
	}
	return note, nil
}
