// Package database provides the GORM connection and golang-migrate wiring.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ViniLF/library-api/internal/config"
)

// DB wraps the GORM handle together with the underlying pool and the DSN used
// for migrations.
type DB struct {
	*gorm.DB
	sqlDB  *sql.DB
	logger *zap.Logger
	url    string
}

// New opens the postgres connection, tunes the pool and verifies connectivity.
func New(cfg *config.Config, logger *zap.Logger) (*DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if cfg.App.Env == "development" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	gdb, err := gorm.Open(postgres.Open(cfg.Database.URL), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected")

	return &DB{DB: gdb, sqlDB: sqlDB, logger: logger, url: cfg.Database.URL}, nil
}

// Close releases the connection pool.
func (db *DB) Close() error {
	return db.sqlDB.Close()
}

// RunMigrations applies all pending up migrations from migrationsDir. A dirty
// migration state aborts with an error rather than being silently repaired.
func (db *DB) RunMigrations(migrationsDir string) error {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsDir), db.url)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	currentVersion, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, fix manually", currentVersion)
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			db.logger.Info("no new migrations to apply", zap.Uint("version", currentVersion))
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("get new version: %w", err)
	}

	db.logger.Info("migrations applied",
		zap.Uint("from_version", currentVersion),
		zap.Uint("to_version", newVersion),
	)
	return nil
}

// MigrateDown rolls back the given number of migration steps.
func (db *DB) MigrateDown(migrationsDir string, steps int) error {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsDir), db.url)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	currentVersion, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}

	db.logger.Info("migrations rolled back",
		zap.Uint("from_version", currentVersion),
		zap.Int("steps", steps),
	)
	return nil
}

// MigrationVersion reports the current schema version and whether the last
// migration left the database dirty. A fresh database reports version 0.
func (db *DB) MigrationVersion(migrationsDir string) (uint, bool, error) {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsDir), db.url)
	if err != nil {
		return 0, false, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get version: %w", err)
	}
	return version, dirty, nil
}

// ForceMigrationVersion clears a dirty state by forcing the recorded version.
// Use only when recovering a broken migration by hand.
func (db *DB) ForceMigrationVersion(migrationsDir string, version uint) error {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsDir), db.url)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Force(int(version)); err != nil {
		return fmt.Errorf("force migration version: %w", err)
	}

	db.logger.Info("migration version forced", zap.Uint("version", version))
	return nil
}
