// Command admin manages accounts and the schema outside the API process.
//
//	admin createadmin -name NAME -email EMAIL
//	admin resetpassword -email EMAIL
//	admin migrate up|down|status|version|up-to VERSION|down-to VERSION
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/Shreekavinmr/masterminds-backend/internal/repository"
	"github.com/Shreekavinmr/masterminds-backend/pkg/config"
	"github.com/Shreekavinmr/masterminds-backend/pkg/crypto"
	"github.com/Shreekavinmr/masterminds-backend/pkg/database"
	"github.com/Shreekavinmr/masterminds-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	cli := &commandLine{
		users:  repository.NewUserRepository(db),
		hasher: crypto.NewHasher(cfg.Auth.BcryptCost),
		migrate: func(ctx context.Context, command string, args ...string) error {
			return database.RunMigrationCommand(ctx, db, command, args...)
		},
		out:    os.Stdout,
		logger: logr,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			logr.Error("command failed", zap.Error(err))
		}
		db.Close()
		os.Exit(1)
	}
}
