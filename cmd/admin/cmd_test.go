package main

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	"github.com/Shreekavinmr/masterminds-backend/internal/repository"
)

type fakeUsers struct {
	byEmail  map[string]*models.User
	password map[string]string
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.ID = "user-" + user.Email
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	f.password[id] = passwordHash
	return nil
}

type prefixHasher struct{}

func (prefixHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

type migrateCall struct {
	command string
	args    []string
}

func setup(t *testing.T, password string) (*commandLine, *fakeUsers, *[]migrateCall) {
	t.Helper()
	original := readPasswordFunc
	readPasswordFunc = func() ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { readPasswordFunc = original })

	users := &fakeUsers{byEmail: map[string]*models.User{}, password: map[string]string{}}
	calls := &[]migrateCall{}
	cli := &commandLine{
		users:  users,
		hasher: prefixHasher{},
		migrate: func(ctx context.Context, command string, args ...string) error {
			*calls = append(*calls, migrateCall{command: command, args: args})
			return nil
		},
		out:    &bytes.Buffer{},
		logger: zap.NewNop(),
	}
	return cli, users, calls
}

func TestUsage(t *testing.T) {
	cli, _, _ := setup(t, "secret1")
	ctx := context.Background()

	for _, args := range [][]string{
		{"admin"},
		{"admin", "unknown"},
		{"admin", "createadmin", "-name", "Root"},
		{"admin", "resetpassword"},
		{"admin", "migrate"},
		{"admin", "createadmin", "-bogus"},
	} {
		assert.ErrorIs(t, cli.run(ctx, args), errHelp, args)
	}
}

func TestCreateAdmin(t *testing.T) {
	cli, users, _ := setup(t, "secret1")
	ctx := context.Background()

	require.NoError(t, cli.run(ctx, []string{"admin", "createadmin", "-name", "Root", "-email", " Root@Example.com "}))
	created := users.byEmail["root@example.com"]
	require.NotNil(t, created)
	assert.Equal(t, models.RoleAdmin, created.Role)
	assert.Equal(t, "hashed:secret1", created.PasswordHash)

	err := cli.run(ctx, []string{"admin", "createadmin", "-name", "Root", "-email", "root@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	cli, users, _ := setup(t, "abc")

	err := cli.run(context.Background(), []string{"admin", "createadmin", "-name", "Root", "-email", "root@example.com"})
	assert.ErrorIs(t, err, errShortPassword)
	assert.Empty(t, users.byEmail)
}

func TestResetPassword(t *testing.T) {
	cli, users, _ := setup(t, "new-secret")
	users.byEmail["admin@example.com"] = &models.User{ID: "admin-1", Email: "admin@example.com"}
	ctx := context.Background()

	require.NoError(t, cli.run(ctx, []string{"admin", "resetpassword", "-email", "ADMIN@example.com"}))
	assert.Equal(t, "hashed:new-secret", users.password["admin-1"])

	err := cli.run(ctx, []string{"admin", "resetpassword", "-email", "ghost@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user")
}

func TestMigrateForwardsCommand(t *testing.T) {
	cli, _, calls := setup(t, "")

	require.NoError(t, cli.run(context.Background(), []string{"admin", "migrate", "up-to", "2"}))
	require.NoError(t, cli.run(context.Background(), []string{"admin", "migrate", "status"}))
	require.Len(t, *calls, 2)
	assert.Equal(t, "up-to", (*calls)[0].command)
	assert.Equal(t, []string{"2"}, (*calls)[0].args)
	assert.Equal(t, "status", (*calls)[1].command)
	assert.Empty(t, (*calls)[1].args)
}
