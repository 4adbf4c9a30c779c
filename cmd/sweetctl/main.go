package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/tair/sweet-shop/internal/config"
	"github.com/tair/sweet-shop/internal/user/domain"
	"github.com/tair/sweet-shop/internal/user/repository"
	"github.com/tair/sweet-shop/pkg/auth"
	"github.com/tair/sweet-shop/pkg/database"
	"github.com/tair/sweet-shop/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// sweetctl is the operational companion of the API: schema migrations
// and admin bootstrap, the things done once per deployment rather than
// per request.
func main() {
	app := &cli.App{
		Name:  "sweetctl",
		Usage: "Sweet Shop operations tool",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Apply database schema migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Roll back all migrations instead of applying them",
					},
				},
				Action: runMigrate,
			},
			{
				Name:  "create-admin",
				Usage: "Create an admin user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, Usage: "Admin email address"},
					&cli.StringFlag{Name: "password", Required: true, Usage: "Admin password (min 6 characters)"},
					&cli.StringFlag{Name: "name", Value: "Administrator", Usage: "Display name"},
				},
				Action: runCreateAdmin,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runMigrate(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init("sweetctl", cfg.LogLevel, cfg.IsDevelopment())

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if c.Bool("down") {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Logger.Info().Msg("Schema already up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Logger.Info().Msg("Migrations applied successfully")
	return nil
}

func runCreateAdmin(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init("sweetctl", cfg.LogLevel, cfg.IsDevelopment())

	email := c.String("email")
	password := c.String("password")
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := repository.NewGormUserRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate users: %w", err)
	}

	ctx := context.Background()

	if existing, err := repo.FindByEmail(ctx, email); err == nil {
		logger.Logger.Warn().
			Str("email", existing.Email).
			Str("role", existing.Role).
			Msg("User already exists, nothing to do")
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hashed,
		Name:     c.String("name"),
		Role:     domain.RoleAdmin,
	}

	if err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	logger.Logger.Info().
		Str("email", admin.Email).
		Str("id", admin.ID).
		Msg("Admin user created")
	return nil
}
