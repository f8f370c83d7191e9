package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/malaura/storefront/internal/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		logger.Error("usage: migrate [-config path] <up|down|version>")
		os.Exit(1)
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "file://migrations"
	}

	m, err := migrate.New(migrationsPath, cfg.Database.GetDSN())
	if err != nil {
		logger.Error("Failed to create migrate instance", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _, _ = m.Close() }()

	switch command := args[0]; command {
	case "up":
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("No pending migrations")
			return
		}

		if err != nil {
			logger.Error("Migration up failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("Migrations applied successfully")

	case "down":
		err = m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("No migrations to roll back")
			return
		}

		if err != nil {
			logger.Error("Migration down failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("Migration rolled back successfully")

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("No migrations applied yet")
			return
		}

		if err != nil {
			logger.Error("Failed to get version", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("Current migration version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	default:
		logger.Error("Unknown command", slog.String("command", command))
		os.Exit(1)
	}
}
