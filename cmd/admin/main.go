// Command admin creates the first ADMIN account, or promotes an existing one,
// directly against the configured database.
//
//	go run ./cmd/admin -email boss@club.example -password 's3cret!' -firstname Alex -lastname Ferguson
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"club-cms-api/internal/core/auth"
	"club-cms-api/internal/core/config"
	"club-cms-api/internal/core/database"
	"club-cms-api/internal/core/logger"
	"club-cms-api/internal/repo"
	"club-cms-api/internal/service"
)

func main() {
	var in service.RegisterInput
	flag.StringVar(&in.Email, "email", "", "account email (required)")
	flag.StringVar(&in.Password, "password", os.Getenv("ADMIN_PASSWORD"), "password for a new account; defaults to $ADMIN_PASSWORD")
	flag.StringVar(&in.Firstname, "firstname", "Club", "first name for a new account")
	flag.StringVar(&in.Lastname, "lastname", "Admin", "last name for a new account")
	flag.Parse()

	if in.Email == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	if err := run(cfg, log, in); err != nil {
		log.Error("admin bootstrap failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger, in service.RegisterInput) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewGorm(database.Opts{
		Driver:       cfg.DB.Driver,
		DSN:          cfg.DB.DSN,
		Username:     cfg.DB.Username,
		Password:     cfg.DB.Password,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     cfg.DB.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := repo.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	jwter, err := auth.NewJWTer(cfg.TokenConfig())
	if err != nil {
		return err
	}
	svc, err := service.NewAuthService(repo.NewUserRepo(db), auth.NewPasswordHasher(cfg.Auth.BcryptCost), jwter, log, service.AuthOptions{})
	if err != nil {
		return err
	}

	u, created, err := svc.BootstrapAdmin(ctx, in)
	if err != nil {
		return err
	}
	action := "promoted"
	if created {
		action = "created"
	}
	log.Info("admin ready", zap.String("action", action), zap.String("uid", u.ID), zap.String("email", u.Email))
	return nil
}
