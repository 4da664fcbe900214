package models

import "time"

// DeliveryMode describes how a program is taught.
type DeliveryMode string

const (
	ModeOnline  DeliveryMode = "Online"
	ModeOffline DeliveryMode = "Offline"
	ModeHybrid  DeliveryMode = "Hybrid"
)

// Syllabus is a catalog entry describing a program for one class and subject.
type Syllabus struct {
	ID              string       `db:"id" json:"id"`
	Class           string       `db:"class" json:"class"`
	Curriculum      string       `db:"curriculum" json:"curriculum"`
	Subject         string       `db:"subject" json:"subject"`
	SyllabusLink    string       `db:"syllabus_link" json:"syllabusLink"`
	Duration        string       `db:"duration" json:"duration"`
	Frequency       string       `db:"frequency" json:"frequency"`
	Mode            DeliveryMode `db:"mode" json:"mode"`
	ProgramFeatures string       `db:"program_features" json:"programFeatures"`
	CreatedByID     string       `db:"created_by" json:"-"`
	CreatedBy       UserSummary  `db:"creator" json:"createdBy"`
	CreatedAt       time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updatedAt"`
}

// CreateSyllabusRequest is the payload for a new syllabus.
type CreateSyllabusRequest struct {
	Class           string       `json:"class" validate:"required,oneof=8 9 10 11 12"`
	Curriculum      string       `json:"curriculum" validate:"required"`
	Subject         string       `json:"subject" validate:"required"`
	SyllabusLink    string       `json:"syllabusLink" validate:"required,drivelink"`
	Duration        string       `json:"duration" validate:"required"`
	Frequency       string       `json:"frequency" validate:"required"`
	Mode            DeliveryMode `json:"mode" validate:"required,oneof=Online Offline Hybrid"`
	ProgramFeatures string       `json:"programFeatures" validate:"required"`
}

// UpdateSyllabusRequest applies a partial update.
type UpdateSyllabusRequest struct {
	Class           string       `json:"class" validate:"omitempty,oneof=8 9 10 11 12"`
	Curriculum      string       `json:"curriculum"`
	Subject         string       `json:"subject"`
	SyllabusLink    string       `json:"syllabusLink" validate:"omitempty,drivelink"`
	Duration        string       `json:"duration"`
	Frequency       string       `json:"frequency"`
	Mode            DeliveryMode `json:"mode" validate:"omitempty,oneof=Online Offline Hybrid"`
	ProgramFeatures string       `json:"programFeatures"`
}
