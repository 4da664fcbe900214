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

type syllabusRepository interface {
	List(ctx context.Context) ([]models.Syllabus, error)
	FindByID(ctx context.Context, id string) (*models.Syllabus, error)
	Create(ctx context.Context, syllabus *models.Syllabus) error
	Update(ctx context.Context, syllabus *models.Syllabus) error
	Delete(ctx context.Context, id string) error
}

// SyllabusService manages the syllabus catalog. Only the creator may change an entry.
type SyllabusService struct {
	repo      syllabusRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewSyllabusService constructs a SyllabusService.
func NewSyllabusService(repo syllabusRepository, validate *validation.Validator, logger *zap.Logger) *SyllabusService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyllabusService{repo: repo, validator: validate, logger: logger}
}

// List returns the whole catalog.
func (s *SyllabusService) List(ctx context.Context) ([]models.Syllabus, error) {
	syllabi, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list syllabi", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to list syllabi")
	}
	return syllabi, nil
}

// Create stores a new syllabus owned by actorID.
func (s *SyllabusService) Create(ctx context.Context, actorID string, req models.CreateSyllabusRequest) (*models.Syllabus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, s.validator.Describe(err))
	}
	syllabus := &models.Syllabus{
		Class:           req.Class,
		Curriculum:      req.Curriculum,
		Subject:         req.Subject,
		SyllabusLink:    req.SyllabusLink,
		Duration:        req.Duration,
		Frequency:       req.Frequency,
		Mode:            req.Mode,
		ProgramFeatures: req.ProgramFeatures,
		CreatedByID:     actorID,
	}
	if err := s.repo.Create(ctx, syllabus); err != nil {
		s.logger.Error("failed to create syllabus", zap.String("actor_id", actorID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to create syllabus")
	}
	return syllabus, nil
}

// Update applies a partial update when actorID created the syllabus.
func (s *SyllabusService) Update(ctx context.Context, actorID, id string, req models.UpdateSyllabusRequest) (*models.Syllabus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, s.validator.Describe(err))
	}
	syllabus, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actorID, syllabus.CreatedByID, "update", "this syllabus"); err != nil {
		return nil, err
	}

	applyString(&syllabus.Class, req.Class)
	applyString(&syllabus.Curriculum, req.Curriculum)
	applyString(&syllabus.Subject, req.Subject)
	applyString(&syllabus.SyllabusLink, req.SyllabusLink)
	applyString(&syllabus.Duration, req.Duration)
	applyString(&syllabus.Frequency, req.Frequency)
	applyString(&syllabus.ProgramFeatures, req.ProgramFeatures)
	if req.Mode != "" {
		syllabus.Mode = req.Mode
	}

	if err := s.repo.Update(ctx, syllabus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Syllabus not found")
		}
		s.logger.Error("failed to update syllabus", zap.String("syllabus_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to update syllabus")
	}
	return syllabus, nil
}

// Delete removes the syllabus when actorID created it.
func (s *SyllabusService) Delete(ctx context.Context, actorID, id string) error {
	syllabus, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actorID, syllabus.CreatedByID, "delete", "this syllabus"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Syllabus not found")
		}
		s.logger.Error("failed to delete syllabus", zap.String("syllabus_id", id), zap.Error(err))
		return appErrors.Internal(err, "failed to delete syllabus")
	}
	return nil
}

func (s *SyllabusService) load(ctx context.Context, id string) (*models.Syllabus, error) {
	syllabus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Syllabus not found")
		}
		s.logger.Error("failed to load syllabus", zap.String("syllabus_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load syllabus")
	}
	return syllabus, nil
}
