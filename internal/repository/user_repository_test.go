package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var userCols = []string{"id", "name", "email", "password_hash", "role", "reset_token_hash", "reset_token_expires_at", "created_at", "updated_at"}

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userCols).
		AddRow("1", "Admin", "admin@example.com", "hash", string(models.RoleAdmin), nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("admin@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Nil(t, user.ResetTokenHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users WHERE email").WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestEmailTaken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE email = $1 AND id <> $2 LIMIT 1")).
		WithArgs("a@example.com", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	taken, err := repo.EmailTaken(context.Background(), "a@example.com", "u1")
	require.NoError(t, err)
	assert.True(t, taken)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("b@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	taken, err = repo.EmailTaken(context.Background(), "b@example.com", "")
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: uniqueViolation})

	err := repo.Create(context.Background(), &models.User{Name: "A", Email: "a@example.com", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSetResetToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	expires := time.Now().Add(10 * time.Minute)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET reset_token_hash = $2, reset_token_expires_at = $3")).
		WithArgs("u1", "digest", expires, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetResetToken(context.Background(), "u1", "digest", expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeResetToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	query := regexp.QuoteMeta("WHERE reset_token_hash = $3 AND reset_token_expires_at > $2")

	mock.ExpectExec(query).WithArgs("newhash", now, "digest").WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.ConsumeResetToken(context.Background(), "digest", "newhash", now)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(query).WithArgs("newhash", now, "digest").WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.ConsumeResetToken(context.Background(), "digest", "newhash", now)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordMissingUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET password_hash").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), "ghost", "hash"), sql.ErrNoRows)
}
