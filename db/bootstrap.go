package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"librarycatalog/config"
	"librarycatalog/model"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// catalogModels lists the tables in dependency order: a table is created only after the tables it references.
var catalogModels = []any{
	&model.User{},
	&model.Book{},
	&model.Review{},
}

// BootstrapSQLite opens the catalog at cfg.DBPath, ensures the schema exists and, when cfg.Seed is set, loads the
// demonstration data. A failing seed is logged and swallowed: the returned store is open and usable, possibly
// partially seeded. Only open and schema failures are returned.
func BootstrapSQLite(cfg config.Config, sugar *zap.SugaredLogger) (*SQLStore, error) {
	sqlLevel, err := ParseSQLLogLevel(cfg.SQLLogLevel)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	db, err := OpenSQLite(cfg.DBPath, sqlLevel)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	store := NewSQLStore(db)

	if err := EnsureSchema(db); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	if !cfg.Seed {
		sugar.Infow("bootstrap: database schema created but no seed data loaded", "db", cfg.DBPath)
		return store, nil
	}

	opts := SeedOptions{
		Idempotent:    cfg.IdempotentSeed,
		Transactional: cfg.TransactionalSeed,
	}
	if _, err := SeedCatalog(db, opts, sugar); err != nil {
		sugar.Errorw("bootstrap: failed to initialize catalog data", "db", cfg.DBPath, "error", err)
		return store, nil
	}

	sugar.Infow("bootstrap: completed and loaded seed data", "db", cfg.DBPath)
	return store, nil
}

// OpenSQLite opens (or creates) the SQLite file at dbPath with foreign key enforcement requested on the connection.
// The pool is limited to a single connection so session pragmas hold for every statement.
func OpenSQLite(dbPath string, sqlLevel logger.LogLevel) (*gorm.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("open DB: empty database path")
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  sqlLevel,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(sqlite.Open(sqliteDSN(dbPath)), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func sqliteDSN(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_foreign_keys=on"
}

// EnsureSchema turns on foreign key enforcement for the session and creates each catalog table that is missing.
// Tables that already exist are left as they are, so running it on every start never touches stored rows.
func EnsureSchema(db *gorm.DB) error {
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("schema: enabling foreign keys: %w", err)
	}
	migrator := db.Migrator()
	for _, m := range catalogModels {
		if migrator.HasTable(m) {
			continue
		}
		if err := migrator.CreateTable(m); err != nil {
			return fmt.Errorf("schema: creating table for %T: %w", m, err)
		}
	}
	return nil
}

// ParseSQLLogLevel maps silent, error, warn or info onto the gorm logger levels.
func ParseSQLLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "silent":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "warn":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	}
	return logger.Silent, fmt.Errorf("unknown SQL log level %q", level)
}
