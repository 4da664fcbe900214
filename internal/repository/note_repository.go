package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
)

const noteSelect = `SELECT n.id, n.class, n.curriculum, n.subject, n.notes_link, n.created_by, n.created_at, n.updated_at,
        u.id AS "creator.id", u.name AS "creator.name", u.email AS "creator.email"
        FROM notes n
        JOIN users u ON u.id = n.created_by`

// NoteRepository persists study notes.
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository constructs a NoteRepository.
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// List returns every note, newest first.
func (r *NoteRepository) List(ctx context.Context) ([]models.Note, error) {
	return r.ListMatching(ctx, models.NoteFilter{})
}

// ListMatching returns notes for an enrollment profile. Each populated field narrows the result:
// class by equality, curricula and subjects by membership.
func (r *NoteRepository) ListMatching(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.Class != "" {
		args = append(args, filter.Class)
		conditions = append(conditions, fmt.Sprintf("n.class = $%d", len(args)))
	}
	if len(filter.Curricula) > 0 {
		args = append(args, pq.Array(filter.Curricula))
		conditions = append(conditions, fmt.Sprintf("n.curriculum = ANY($%d)", len(args)))
	}
	if len(filter.Subjects) > 0 {
		args = append(args, pq.Array(filter.Subjects))
		conditions = append(conditions, fmt.Sprintf("n.subject = ANY($%d)", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY n.created_at DESC`, noteSelect, strings.Join(conditions, " AND "))
	notes := []models.Note{}
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// FindByID fetches a note by ID.
func (r *NoteRepository) FindByID(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	if err := r.db.GetContext(ctx, &note, noteSelect+` WHERE n.id = $1`, id); err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return &note, nil
}

// Create inserts a note.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now
	const query = `INSERT INTO notes (id, class, curriculum, subject, notes_link, created_by, created_at, updated_at)
        VALUES (:id, :class, :curriculum, :subject, :notes_link, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// Update writes the mutable note fields.
func (r *NoteRepository) Update(ctx context.Context, note *models.Note) error {
	note.UpdatedAt = time.Now().UTC()
	const query = `UPDATE notes SET class = :class, curriculum = :curriculum, subject = :subject, notes_link = :notes_link, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, note)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a note.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return expectAffected(res)
}
