package models

import "time"

// Note is a shared study resource for one class, curriculum and subject.
type Note struct {
	ID          string      `db:"id" json:"id"`
	Class       string      `db:"class" json:"class"`
	Curriculum  string      `db:"curriculum" json:"curriculum"`
	Subject     string      `db:"subject" json:"subject"`
	NotesLink   string      `db:"notes_link" json:"notesLink"`
	CreatedByID string      `db:"created_by" json:"-"`
	CreatedBy   UserSummary `db:"creator" json:"createdBy"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// NoteFilter narrows the note catalog to an enrollment profile. Empty fields do not filter.
type NoteFilter struct {
	Class     string
	Curricula []string
	Subjects  []string
}

// CreateNoteRequest is the payload for new notes.
type CreateNoteRequest struct {
	Class      string `json:"class" validate:"required,oneof=8 9 10 11 12"`
	Curriculum string `json:"curriculum" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
	NotesLink  string `json:"notesLink" validate:"required,drivelink"`
}

// UpdateNoteRequest applies a partial update.
type UpdateNoteRequest struct {
	Class      string `json:"class" validate:"omitempty,oneof=8 9 10 11 12"`
	Curriculum string `json:"curriculum"`
	Subject    string `json:"subject"`
	NotesLink  string `json:"notesLink" validate:"omitempty,drivelink"`
}
