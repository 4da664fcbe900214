package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	"github.com/Shreekavinmr/masterminds-backend/internal/repository"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
)

type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (stubHasher) Compare(digest, plaintext string) bool { return digest == "hashed:"+plaintext }

type mockStudentRepo struct {
	items      map[string]*models.Student
	emails     map[string]string
	users      []*models.User
	listResult []models.Student
	listTotal  int
	lastFilter models.StudentFilter
	createErr  error
	updateErr  error
	deleted    []string
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{items: map[string]*models.Student{}, emails: map[string]string{}}
}

func (m *mockStudentRepo) seed(st models.Student) {
	cp := st
	m.items[st.ID] = &cp
	m.emails[st.Email] = st.UserID
}

func (m *mockStudentRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	owner, ok := m.emails[email]
	return ok && owner != excludeID, nil
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	m.lastFilter = filter
	return m.listResult, m.listTotal, nil
}

func (m *mockStudentRepo) ListAll(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	m.lastFilter = filter
	return m.listResult, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if st, ok := m.items[id]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user-new"
	student.ID = "student-new"
	student.UserID = user.ID
	m.users = append(m.users, user)
	m.seed(*student)
	return nil
}

func (m *mockStudentRepo) UpdateWithUser(ctx context.Context, student *models.Student) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.seed(*student)
	return nil
}

func (m *mockStudentRepo) DeleteWithUser(ctx context.Context, student *models.Student) error {
	m.deleted = append(m.deleted, student.ID)
	delete(m.items, student.ID)
	return nil
}

type mockWelcomeMailer struct {
	passwords []string
	err       error
}

func (m *mockWelcomeMailer) SendWelcome(ctx context.Context, student *models.Student, password string) error {
	if m.err != nil {
		return m.err
	}
	m.passwords = append(m.passwords, password)
	return nil
}

func newStudentService(repo *mockStudentRepo, mailer *mockWelcomeMailer, cfg StudentConfig) *StudentService {
	return NewStudentService(repo, repo, stubHasher{}, mailer, nil, nil, cfg)
}

func TestEnrollCreatesStudentAndSendsWelcome(t *testing.T) {
	repo := newMockStudentRepo()
	mailer := &mockWelcomeMailer{}
	svc := newStudentService(repo, mailer, StudentConfig{DefaultPassword: "Welcome123"})

	amount := 1500.0
	result, err := svc.Enroll(context.Background(), models.EnrollStudentRequest{
		Name:          " Ravi ",
		Email:         "Ravi@Example.com",
		Class:         "10",
		Curricula:     []string{"CBSE", " "},
		PaymentAmount: &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, "student-new", result.StudentID)
	assert.True(t, result.WelcomeEmailSent)

	require.Len(t, repo.users, 1)
	assert.Equal(t, models.RoleStudent, repo.users[0].Role)
	assert.Equal(t, "ravi@example.com", repo.users[0].Email)
	assert.Equal(t, "hashed:Welcome123", repo.users[0].PasswordHash)

	stored := repo.items["student-new"]
	assert.Equal(t, "Ravi", stored.Name)
	assert.Equal(t, pq.StringArray{"CBSE"}, stored.Curricula)
	assert.Equal(t, pq.StringArray{}, stored.Subjects)
	assert.Equal(t, models.PaymentPending, stored.Payment.Status)
	assert.Equal(t, 1500.0, stored.Payment.Amount)
	assert.Equal(t, []string{"Welcome123"}, mailer.passwords)
}

func TestEnrollGeneratesPasswordWhenNoDefault(t *testing.T) {
	repo := newMockStudentRepo()
	mailer := &mockWelcomeMailer{}
	svc := newStudentService(repo, mailer, StudentConfig{})

	_, err := svc.Enroll(context.Background(), models.EnrollStudentRequest{Name: "Ravi", Email: "ravi@example.com"})
	require.NoError(t, err)
	require.Len(t, mailer.passwords, 1)
	assert.Len(t, mailer.passwords[0], generatedPasswordLength)
	assert.Equal(t, "hashed:"+mailer.passwords[0], repo.users[0].PasswordHash)
}

func TestEnrollDuplicateEmail(t *testing.T) {
	repo := newMockStudentRepo()
	repo.seed(models.Student{ID: "s1", UserID: "u1", Email: "taken@example.com"})
	svc := newStudentService(repo, &mockWelcomeMailer{}, StudentConfig{})

	_, err := svc.Enroll(context.Background(), models.EnrollStudentRequest{Name: "X", Email: "taken@example.com"})
	require.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Equal(t, "User with this email already exists", appErrors.FromError(err).Message)
	assert.Empty(t, repo.users)
}

func TestEnrollDuplicateDetectedByStore(t *testing.T) {
	repo := newMockStudentRepo()
	repo.createErr = repository.ErrDuplicate
	svc := newStudentService(repo, &mockWelcomeMailer{}, StudentConfig{})

	_, err := svc.Enroll(context.Background(), models.EnrollStudentRequest{Name: "X", Email: "race@example.com"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestEnrollWelcomeFailureStillSucceeds(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newStudentService(repo, &mockWelcomeMailer{err: errors.New("smtp down")}, StudentConfig{})

	result, err := svc.Enroll(context.Background(), models.EnrollStudentRequest{Name: "Ravi", Email: "ravi@example.com"})
	require.NoError(t, err)
	assert.False(t, result.WelcomeEmailSent)
	assert.Contains(t, repo.items, "student-new")
}

func TestEnrollValidation(t *testing.T) {
	svc := newStudentService(newMockStudentRepo(), &mockWelcomeMailer{}, StudentConfig{})

	_, err := svc.Enroll(context.Background(), models.EnrollStudentRequest{Name: "Ravi", Email: "not-an-email"})
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Contains(t, appErrors.FromError(err).Message, "email")

	_, err = svc.Enroll(context.Background(), models.EnrollStudentRequest{Name: "Ravi", Email: "ravi@example.com", PaymentStatus: "refunded"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestListDefaultsPagination(t *testing.T) {
	repo := newMockStudentRepo()
	repo.listResult = []models.Student{{ID: "s1"}}
	repo.listTotal = 41
	svc := newStudentService(repo, &mockWelcomeMailer{}, StudentConfig{})

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{Search: "  ravi "})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 41}, pagination)
	assert.Equal(t, "ravi", repo.lastFilter.Search)
}

func TestGetMissingStudent(t *testing.T) {
	svc := newStudentService(newMockStudentRepo(), &mockWelcomeMailer{}, StudentConfig{})
	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "Student not found", appErrors.FromError(err).Message)
}

func TestUpdateIsPartial(t *testing.T) {
	repo := newMockStudentRepo()
	repo.seed(models.Student{
		ID: "s1", UserID: "u1", Name: "Ravi", Email: "ravi@example.com", Class: "9",
		Curricula: pq.StringArray{"CBSE"}, Subjects: pq.StringArray{"Maths"},
		Payment: models.Payment{Status: models.PaymentPending, Amount: 100},
	})
	svc := newStudentService(repo, &mockWelcomeMailer{}, StudentConfig{})

	amount := 250.0
	updated, err := svc.Update(context.Background(), "s1", models.UpdateStudentRequest{
		Class:    "10",
		Subjects: []string{},
		Payment:  &models.PaymentUpdate{Amount: &amount},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", updated.Name)
	assert.Equal(t, "10", updated.Class)
	assert.Equal(t, pq.StringArray{"CBSE"}, updated.Curricula)
	assert.Equal(t, pq.StringArray{}, updated.Subjects)
	assert.Equal(t, models.PaymentPending, updated.Payment.Status)
	assert.Equal(t, 250.0, updated.Payment.Amount)
}

func TestUpdateEmailConflict(t *testing.T) {
	repo := newMockStudentRepo()
	repo.seed(models.Student{ID: "s1", UserID: "u1", Email: "ravi@example.com"})
	repo.seed(models.Student{ID: "s2", UserID: "u2", Email: "meera@example.com"})
	svc := newStudentService(repo, &mockWelcomeMailer{}, StudentConfig{})

	_, err := svc.Update(context.Background(), "s1", models.UpdateStudentRequest{Email: "Meera@example.com"})
	require.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Equal(t, "Email already in use", appErrors.FromError(err).Message)

	updated, err := svc.Update(context.Background(), "s1", models.UpdateStudentRequest{Email: "ravi@example.com", Name: "Ravi K"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi K", updated.User.Name)
}

func TestDeleteStudent(t *testing.T) {
	repo := newMockStudentRepo()
	repo.seed(models.Student{ID: "s1", UserID: "u1"})
	svc := newStudentService(repo, &mockWelcomeMailer{}, StudentConfig{})

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deleted)

	err := svc.Delete(context.Background(), "s1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestExportCSVContainsRoster(t *testing.T) {
	repo := newMockStudentRepo()
	repo.listResult = []models.Student{{
		Name: "Ravi", Email: "ravi@example.com", PhoneNumber: "9876543210", Class: "10",
		Curricula: pq.StringArray{"CBSE", "ICSE"}, Subjects: pq.StringArray{"Maths"},
		Payment:   models.Payment{Status: models.PaymentPartial, Amount: 1200.5},
		CreatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}}
	svc := newStudentService(repo, &mockWelcomeMailer{}, StudentConfig{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	file, err := svc.Export(context.Background(), models.StudentFilter{Class: "10"}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "students-20260301.csv", file.Filename)
	assert.Contains(t, file.ContentType, "text/csv")
	assert.Equal(t, "10", repo.lastFilter.Class)

	records, err := csv.NewReader(strings.NewReader(string(file.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Name", records[0][0])
	assert.Equal(t, []string{"Ravi", "ravi@example.com", "9876543210", "10", "CBSE, ICSE", "Maths", "partial", "1200.50", "2026-01-05"}, records[1])
}

func TestExportPDFAndUnknownFormat(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newStudentService(repo, &mockWelcomeMailer{}, StudentConfig{})

	file, err := svc.Export(context.Background(), models.StudentFilter{}, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))

	_, err = svc.Export(context.Background(), models.StudentFilter{}, "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
