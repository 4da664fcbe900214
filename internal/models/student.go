package models

import (
	"time"

	"github.com/lib/pq"
)

// PaymentStatus tracks how much of the enrollment fee has been settled.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentCompleted PaymentStatus = "completed"
)

// Payment is the payment sub-record of a student.
type Payment struct {
	Status PaymentStatus `db:"status" json:"status"`
	Amount float64       `db:"amount" json:"amount"`
}

// Student represents an enrollment record owned by exactly one user.
type Student struct {
	ID          string         `db:"id" json:"id"`
	UserID      string         `db:"user_id" json:"-"`
	User        UserSummary    `db:"user" json:"user"`
	Name        string         `db:"name" json:"name"`
	Email       string         `db:"email" json:"email"`
	PhoneNumber string         `db:"phone_number" json:"phoneNumber"`
	Address     string         `db:"address" json:"address"`
	Class       string         `db:"class" json:"class"`
	Curricula   pq.StringArray `db:"curricula" json:"curricula"`
	Subjects    pq.StringArray `db:"subjects" json:"subjects"`
	Payment     Payment        `db:"payment" json:"payment"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Class    string
	Page     int
	PageSize int
}

// EnrollStudentRequest is the admin payload creating a user and student pair.
type EnrollStudentRequest struct {
	Name          string        `json:"name" validate:"required"`
	Email         string        `json:"email" validate:"required,email"`
	PhoneNumber   string        `json:"phoneNumber"`
	Address       string        `json:"address"`
	Class         string        `json:"class"`
	Curricula     []string      `json:"curricula"`
	Subjects      []string      `json:"subjects"`
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=pending partial completed"`
	PaymentAmount *float64      `json:"paymentAmount" validate:"omitempty,gte=0"`
}

// PaymentUpdate carries optional payment changes.
type PaymentUpdate struct {
	Status PaymentStatus `json:"status" validate:"omitempty,oneof=pending partial completed"`
	Amount *float64      `json:"amount" validate:"omitempty,gte=0"`
}

// UpdateStudentRequest applies a partial update; empty fields keep the stored value.
type UpdateStudentRequest struct {
	Name        string         `json:"name"`
	Email       string         `json:"email" validate:"omitempty,email"`
	PhoneNumber string         `json:"phoneNumber"`
	Address     string         `json:"address"`
	Class       string         `json:"class"`
	Curricula   []string       `json:"curricula"`
	Subjects    []string       `json:"subjects"`
	Payment     *PaymentUpdate `json:"payment"`
}

// EnrollResult is returned after a successful enrollment.
type EnrollResult struct {
	StudentID        string `json:"studentId"`
	WelcomeEmailSent bool   `json:"welcomeEmailSent"`
}
