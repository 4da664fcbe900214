package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
)

const studentSelect = `SELECT s.id, s.user_id, s.name, s.email, s.phone_number, s.address, s.class, s.curricula, s.subjects,
        s.payment_status AS "payment.status", s.payment_amount AS "payment.amount", s.created_at, s.updated_at,
        u.id AS "user.id", u.name AS "user.name", u.email AS "user.email", u.role AS "user.role"
        FROM students s
        JOIN users u ON u.id = s.user_id`

// StudentRepository manages enrollment records and keeps their owning user in step.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters, newest first.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	where, args := studentConditions(filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`%s WHERE %s ORDER BY s.created_at DESC LIMIT %d OFFSET %d`, studentSelect, where, size, offset)
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM students s WHERE %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListAll returns every student matching the filter without pagination, ordered by name.
func (r *StudentRepository) ListAll(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	where, args := studentConditions(filter)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY s.class ASC, s.name ASC`, studentSelect, where)
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list all students: %w", err)
	}
	return students, nil
}

func studentConditions(filter models.StudentFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.Class != "" {
		args = append(args, filter.Class)
		conditions = append(conditions, fmt.Sprintf("s.class = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.name) LIKE $%d OR LOWER(s.email) LIKE $%d)", len(args), len(args)))
	}
	return strings.Join(conditions, " AND "), args
}

// FindByID fetches a student with its owning user.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return r.findOne(ctx, `s.id = $1`, id)
}

// FindByUserID fetches the student record owned by a user.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	return r.findOne(ctx, `s.user_id = $1`, userID)
}

func (r *StudentRepository) findOne(ctx context.Context, predicate string, arg interface{}) (*models.Student, error) {
	query := studentSelect + ` WHERE ` + predicate + ` LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, arg); err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// CreateWithUser inserts the user and its student record in one transaction.
func (r *StudentRepository) CreateWithUser(ctx context.Context, user *models.User, student *models.Student) (err error) {
	now := time.Now().UTC()
	prepareUser(user, now)
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	student.UserID = user.ID
	student.CreatedAt = now
	student.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enroll student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, insertUserQuery, user); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert student user: %w", err)
	}

	const insertStudent = `INSERT INTO students (id, user_id, name, email, phone_number, address, class, curricula, subjects, payment_status, payment_amount, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err = tx.ExecContext(ctx, insertStudent,
		student.ID, student.UserID, student.Name, student.Email, student.PhoneNumber, student.Address, student.Class,
		student.Curricula, student.Subjects, student.Payment.Status, student.Payment.Amount, student.CreatedAt, student.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit enroll student: %w", err)
	}
	return nil
}

// UpdateWithUser writes the student and mirrors its name and email onto the owning user in one transaction.
func (r *StudentRepository) UpdateWithUser(ctx context.Context, student *models.Student) (err error) {
	student.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updateStudent = `UPDATE students SET name = $2, email = $3, phone_number = $4, address = $5, class = $6, curricula = $7,
        subjects = $8, payment_status = $9, payment_amount = $10, updated_at = $11 WHERE id = $1`
	var res sql.Result
	if res, err = tx.ExecContext(ctx, updateStudent,
		student.ID, student.Name, student.Email, student.PhoneNumber, student.Address, student.Class,
		student.Curricula, student.Subjects, student.Payment.Status, student.Payment.Amount, student.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if err = expectAffected(res); err != nil {
		return err
	}

	const updateUser = `UPDATE users SET name = $2, email = $3, updated_at = $4 WHERE id = $1`
	if res, err = tx.ExecContext(ctx, updateUser, student.UserID, student.Name, student.Email, student.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update student user: %w", err)
	}
	if err = expectAffected(res); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update student: %w", err)
	}
	return nil
}

// DeleteWithUser removes the student and its owning user in one transaction.
func (r *StudentRepository) DeleteWithUser(ctx context.Context, student *models.Student) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, student.ID); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if err = expectAffected(res); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, student.UserID); err != nil {
		return fmt.Errorf("delete student user: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete student: %w", err)
	}
	return nil
}
