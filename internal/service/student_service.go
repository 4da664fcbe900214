package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	"github.com/Shreekavinmr/masterminds-backend/internal/repository"
	"github.com/Shreekavinmr/masterminds-backend/pkg/crypto"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/export"
	"github.com/Shreekavinmr/masterminds-backend/pkg/validation"
)

const generatedPasswordLength = 10

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ListAll(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error
	UpdateWithUser(ctx context.Context, student *models.Student) error
	DeleteWithUser(ctx context.Context, student *models.Student) error
}

type emailChecker interface {
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
}

type welcomeMailer interface {
	SendWelcome(ctx context.Context, student *models.Student, password string) error
}

// StudentConfig tunes enrollment.
type StudentConfig struct {
	// DefaultPassword is the initial password for new students. Empty means generate one per student.
	DefaultPassword string
}

// ExportFile is a rendered roster ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	users     emailChecker
	hasher    passwordHasher
	mailer    welcomeMailer
	validator *validation.Validator
	logger    *zap.Logger
	config    StudentConfig
	now       func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, users emailChecker, hasher passwordHasher, mailer welcomeMailer, validate *validation.Validator, logger *zap.Logger, config StudentConfig) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:      repo,
		users:     users,
		hasher:    hasher,
		mailer:    mailer,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// Enroll creates the student user and its enrollment record, then mails the initial credentials.
func (s *StudentService) Enroll(ctx context.Context, req models.EnrollStudentRequest) (*models.EnrollResult, error) {
	req.Email = NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, s.validator.Describe(err))
	}

	taken, err := s.users.EmailTaken(ctx, req.Email, "")
	if err != nil {
		s.logger.Error("failed to check email availability", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to validate email")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "User with this email already exists")
	}

	password, err := s.initialPassword()
	if err != nil {
		s.logger.Error("failed to generate initial password", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to generate password")
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash initial password", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: digest,
		Role:         models.RoleStudent,
	}
	student := &models.Student{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Address:     strings.TrimSpace(req.Address),
		Class:       strings.TrimSpace(req.Class),
		Curricula:   stringArray(req.Curricula),
		Subjects:    stringArray(req.Subjects),
		Payment:     models.Payment{Status: models.PaymentPending},
	}
	if req.PaymentStatus != "" {
		student.Payment.Status = req.PaymentStatus
	}
	if req.PaymentAmount != nil {
		student.Payment.Amount = *req.PaymentAmount
	}

	if err := s.repo.CreateWithUser(ctx, user, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "User with this email already exists")
		}
		s.logger.Error("failed to enroll student", zap.String("email", req.Email), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to enroll student")
	}
	student.User = models.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}

	result := &models.EnrollResult{StudentID: student.ID, WelcomeEmailSent: true}
	if err := s.mailer.SendWelcome(ctx, student, password); err != nil {
		result.WelcomeEmailSent = false
		s.logger.Warn("student enrolled without welcome email", zap.String("student_id", student.ID), zap.Error(err))
	}
	s.logger.Info("student enrolled", zap.String("student_id", student.ID), zap.String("user_id", user.ID))
	return result, nil
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list students", zap.Error(err))
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single student with its owning user.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	return s.load(ctx, id)
}

// Update applies a partial update to the student and mirrors name and email onto its user.
func (s *StudentService) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, s.validator.Describe(err))
	}

	student, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != "" && req.Email != student.Email {
		taken, err := s.users.EmailTaken(ctx, req.Email, student.UserID)
		if err != nil {
			s.logger.Error("failed to check email availability", zap.Error(err))
			return nil, appErrors.Internal(err, "failed to validate email")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Email already in use")
		}
		student.Email = req.Email
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		student.Name = name
	}
	if req.PhoneNumber != "" {
		student.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	}
	if req.Address != "" {
		student.Address = strings.TrimSpace(req.Address)
	}
	if req.Class != "" {
		student.Class = strings.TrimSpace(req.Class)
	}
	if req.Curricula != nil {
		student.Curricula = stringArray(req.Curricula)
	}
	if req.Subjects != nil {
		student.Subjects = stringArray(req.Subjects)
	}
	if req.Payment != nil {
		if req.Payment.Status != "" {
			student.Payment.Status = req.Payment.Status
		}
		if req.Payment.Amount != nil {
			student.Payment.Amount = *req.Payment.Amount
		}
	}

	if err := s.repo.UpdateWithUser(ctx, student); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, appErrors.Clone(appErrors.ErrConflict, "Email already in use")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		s.logger.Error("failed to update student", zap.String("student_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to update student")
	}
	student.User.Name = student.Name
	student.User.Email = student.Email
	return student, nil
}

// Delete removes the student and its user account.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	student, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteWithUser(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		s.logger.Error("failed to delete student", zap.String("student_id", id), zap.Error(err))
		return appErrors.Internal(err, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.String("student_id", id), zap.String("user_id", student.UserID))
	return nil
}

var rosterColumns = []export.Column{
	{Header: "Name", Width: 40},
	{Header: "Email", Width: 55},
	{Header: "Phone", Width: 30},
	{Header: "Class", Width: 14},
	{Header: "Curricula", Width: 30},
	{Header: "Subjects", Width: 45},
	{Header: "Payment Status", Width: 28},
	{Header: "Payment Amount", Width: 28},
	{Header: "Enrolled", Width: 24},
}

// Export renders the roster matching filter in the requested format.
func (s *StudentService) Export(ctx context.Context, filter models.StudentFilter, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	filter.Search = strings.TrimSpace(filter.Search)
	students, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		s.logger.Error("failed to load roster", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load students")
	}

	table := export.Table{Title: "Student Roster", Columns: rosterColumns, Rows: make([][]string, 0, len(students))}
	for _, st := range students {
		table.Rows = append(table.Rows, []string{
			st.Name,
			st.Email,
			st.PhoneNumber,
			st.Class,
			strings.Join(st.Curricula, ", "),
			strings.Join(st.Subjects, ", "),
			string(st.Payment.Status),
			strconv.FormatFloat(st.Payment.Amount, 'f', 2, 64),
			st.CreatedAt.Format("2006-01-02"),
		})
	}

	renderer := export.For(format)
	var buf bytes.Buffer
	if err := renderer.Render(&buf, table); err != nil {
		s.logger.Error("failed to render roster", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("students-%s.%s", s.now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (s *StudentService) load(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		s.logger.Error("failed to load student", zap.String("student_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load student")
	}
	return student, nil
}

func (s *StudentService) initialPassword() (string, error) {
	if s.config.DefaultPassword != "" {
		return s.config.DefaultPassword, nil
	}
	return crypto.RandomPassword(generatedPasswordLength)
}

// stringArray trims entries, drops blanks and never returns nil so the column stays NOT NULL.
func stringArray(values []string) pq.StringArray {
	out := pq.StringArray{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
