package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	"github.com/Shreekavinmr/masterminds-backend/internal/repository"
	"github.com/Shreekavinmr/masterminds-backend/internal/service"
)

const minPasswordLength = 6

var (
	readPasswordFunc = func() ([]byte, error) { return term.ReadPassword(int(syscall.Stdin)) }

	errHelp          = errors.New("help provided")
	errShortPassword = fmt.Errorf("password must be at least %d characters", minPasswordLength)
)

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
}

type commandLine struct {
	users   userStore
	hasher  passwordHasher
	migrate func(ctx context.Context, command string, args ...string) error
	out     io.Writer
	logger  *zap.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  createadmin -name NAME -email EMAIL   create an admin account; the password is prompted")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL            set a new password; the password is prompted")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                run a goose command against the embedded migrations")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "createadmin":
		fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
		fs.SetOutput(cli.out)
		name := fs.String("name", "", "Display name of the admin.")
		email := fs.String("email", "", "Login email of the admin.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *name == "" || *email == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.createAdmin(ctx, *name, *email, pwd)
	case "resetpassword":
		fs := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
		fs.SetOutput(cli.out)
		email := fs.String("email", "", "Login email of the account.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *email == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.resetPassword(ctx, *email, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2], args[3:]...)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password: ")
	pwd, err := readPasswordFunc()
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) < minPasswordLength {
		return "", errShortPassword
	}
	return string(pwd), nil
}

func (cli *commandLine) createAdmin(ctx context.Context, name, email, pwd string) error {
	digest, err := cli.hasher.Hash(pwd)
	if err != nil {
		return err
	}
	user := &models.User{Name: name, Email: service.NormalizeEmail(email), PasswordHash: digest, Role: models.RoleAdmin}
	if err := cli.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("user with email %s already exists", user.Email)
		}
		return err
	}
	cli.logger.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return nil
}

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	user, err := cli.users.FindByEmail(ctx, service.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("no user with email %s", service.NormalizeEmail(email))
		}
		return err
	}
	digest, err := cli.hasher.Hash(pwd)
	if err != nil {
		return err
	}
	if err := cli.users.UpdatePassword(ctx, user.ID, digest); err != nil {
		return err
	}
	cli.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}
