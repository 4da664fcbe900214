package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
)

const syllabusSelect = `SELECT sy.id, sy.class, sy.curriculum, sy.subject, sy.syllabus_link, sy.duration, sy.frequency, sy.mode,
        sy.program_features, sy.created_by, sy.created_at, sy.updated_at,
        u.id AS "creator.id", u.name AS "creator.name", u.email AS "creator.email"
        FROM syllabi sy
        JOIN users u ON u.id = sy.created_by`

// SyllabusRepository persists the public syllabus catalog.
type SyllabusRepository struct {
	db *sqlx.DB
}

// NewSyllabusRepository constructs a SyllabusRepository.
func NewSyllabusRepository(db *sqlx.DB) *SyllabusRepository {
	return &SyllabusRepository{db: db}
}

// List returns every syllabus with its creator, newest first.
func (r *SyllabusRepository) List(ctx context.Context) ([]models.Syllabus, error) {
	syllabi := []models.Syllabus{}
	if err := r.db.SelectContext(ctx, &syllabi, syllabusSelect+` ORDER BY sy.created_at DESC`); err != nil {
		return nil, fmt.Errorf("list syllabi: %w", err)
	}
	return syllabi, nil
}

// FindByID fetches a syllabus by ID.
func (r *SyllabusRepository) FindByID(ctx context.Context, id string) (*models.Syllabus, error) {
	var syllabus models.Syllabus
	if err := r.db.GetContext(ctx, &syllabus, syllabusSelect+` WHERE sy.id = $1`, id); err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find syllabus: %w", err)
	}
	return &syllabus, nil
}

// Create inserts a syllabus.
func (r *SyllabusRepository) Create(ctx context.Context, syllabus *models.Syllabus) error {
	if syllabus.ID == "" {
		syllabus.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	syllabus.CreatedAt = now
	syllabus.UpdatedAt = now
	const query = `INSERT INTO syllabi (id, class, curriculum, subject, syllabus_link, duration, frequency, mode, program_features, created_by, created_at, updated_at)
        VALUES (:id, :class, :curriculum, :subject, :syllabus_link, :duration, :frequency, :mode, :program_features, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, syllabus); err != nil {
		return fmt.Errorf("create syllabus: %w", err)
	}
	return nil
}

// Update writes the mutable syllabus fields.
func (r *SyllabusRepository) Update(ctx context.Context, syllabus *models.Syllabus) error {
	syllabus.UpdatedAt = time.Now().UTC()
	const query = `UPDATE syllabi SET class = :class, curriculum = :curriculum, subject = :subject, syllabus_link = :syllabus_link,
        duration = :duration, frequency = :frequency, mode = :mode, program_features = :program_features, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, syllabus)
	if err != nil {
		return fmt.Errorf("update syllabus: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a syllabus.
func (r *SyllabusRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM syllabi WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete syllabus: %w", err)
	}
	return expectAffected(res)
}
