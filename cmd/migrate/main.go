// Command migrate manages the database schema from the command line.
//
// Usage:
//
//	migrate -action=up
//	migrate -action=down -steps=1
//	migrate -action=version
//	migrate -action=force -version=3
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ViniLF/library-api/internal/config"
	"github.com/ViniLF/library-api/internal/database"
	"github.com/ViniLF/library-api/internal/logger"
)

func main() {
	action := flag.String("action", "up", "up, down, version or force")
	steps := flag.Int("steps", 1, "number of steps for -action=down")
	version := flag.Uint("version", 0, "target version for -action=force")
	flag.Parse()

	if err := run(*action, *steps, *version); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(action string, steps int, version uint) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.App.Env, cfg.Log.Level, "console", cfg.App.Name, cfg.App.Version)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	switch action {
	case "up":
		return db.RunMigrations(cfg.Migrations.Dir)
	case "down":
		return db.MigrateDown(cfg.Migrations.Dir, steps)
	case "force":
		return db.ForceMigrationVersion(cfg.Migrations.Dir, version)
	case "version":
		v, dirty, err := db.MigrationVersion(cfg.Migrations.Dir)
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%v\n", v, dirty)
		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}
