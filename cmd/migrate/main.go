package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/crewbase/backend/pkg/config"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	flag.Parse()
	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve working directory")
	}
	migrationsPath, err := config.FindMigrationsDir(cwd)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to locate migrations")
	}

	m, err := migrate.New("file://"+migrationsPath, databaseURL(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}
	defer m.Close()

	if err := run(m, command); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Migration command failed")
	}
}

func run(m *migrate.Migrate, command string) error {
	switch command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return err
		}
		log.Info().Msg("Migrations applied")

	case "down":
		if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
			return err
		}
		log.Info().Msg("Rolled back one migration")

	case "down-all":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			return err
		}
		log.Info().Msg("Rolled back all migrations")

	case "version":
		version, dirty, err := m.Version()
		if err == migrate.ErrNilVersion {
			fmt.Println("No migrations applied yet")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)

	case "force":
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("force needs a numeric version: %w", err)
		}
		if err := m.Force(version); err != nil {
			return err
		}
		log.Info().Int("version", version).Msg("Forced version")

	default:
		fmt.Println("Usage: migrate [up|down|down-all|version|force N]")
		os.Exit(1)
	}
	return nil
}

// databaseURL resolves the connection string, preferring DATABASE_URL and
// defaulting sslmode off for local runs.
func databaseURL(cfg *config.Config) string {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = cfg.Database.URL
	}
	if url == "" {
		log.Fatal().Msg("No database URL configured. Set DATABASE_URL")
	}

	if !strings.Contains(url, "sslmode=") {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "sslmode=disable"
	}
	return url
}
