package db

import (
	"path/filepath"
	"testing"

	"librarycatalog/config"
	"librarycatalog/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh catalog file under the test's temp dir with the schema applied.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "library.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(db))
	t.Cleanup(func() {
		_ = NewSQLStore(db).Close()
	})
	return db
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "library.db")
	return cfg
}

func observedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core).Sugar(), logs
}

// bootstrapOnce runs a full bootstrap and closes the store, as a process start and exit would.
func bootstrapOnce(t *testing.T, cfg config.Config) {
	t.Helper()
	store, err := BootstrapSQLite(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func countsAt(t *testing.T, path string) CatalogCounts {
	t.Helper()
	db, err := OpenSQLite(path, logger.Silent)
	require.NoError(t, err)
	store := NewSQLStore(db)
	defer store.Close()
	counts, err := store.Counts()
	require.NoError(t, err)
	return counts
}

func TestEnsureSchema(t *testing.T) {
	t.Run("creates the three catalog tables", func(t *testing.T) {
		db := setupTestDB(t)
		for _, table := range []string{"users", "books", "reviews"} {
			assert.True(t, db.Migrator().HasTable(table), table)
		}
	})

	t.Run("keeps the persisted column names", func(t *testing.T) {
		db := setupTestDB(t)
		assert.True(t, db.Migrator().HasColumn(&model.Book{}, "createdBy"))
		assert.True(t, db.Migrator().HasColumn(&model.Review{}, "bookId"))
		assert.True(t, db.Migrator().HasColumn(&model.Review{}, "userId"))
		assert.True(t, db.Migrator().HasColumn(&model.User{}, "createdAt"))
	})

	t.Run("enables foreign keys for the session", func(t *testing.T) {
		db := setupTestDB(t)
		var enabled int
		require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
		assert.Equal(t, 1, enabled)
	})

	t.Run("is safe to rerun and leaves rows alone", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, db.Create(&model.User{Username: "reader", Email: "reader@library.com", Password: "x"}).Error)

		require.NoError(t, EnsureSchema(db))
		require.NoError(t, EnsureSchema(db))

		var count int64
		require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestBootstrapSQLite(t *testing.T) {
	t.Run("first run seeds the catalog", func(t *testing.T) {
		cfg := testConfig(t)
		sugar, logs := observedLogger()
		store, err := BootstrapSQLite(cfg, sugar)
		require.NoError(t, err)
		defer store.Close()

		var admins []model.User
		require.NoError(t, store.DB().Where("username = ?", AdminUsername).Find(&admins).Error)
		require.Len(t, admins, 1)
		assert.Equal(t, model.RoleAdmin, admins[0].Role)
		assert.Equal(t, AdminEmail, admins[0].Email)

		user, err := store.GetUserByUsername(UserUsername)
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)

		books, err := store.ListBooks()
		require.NoError(t, err)
		assert.Len(t, books, 5)

		reviews, err := store.ListReviews()
		require.NoError(t, err)
		require.Len(t, reviews, 5)
		for _, r := range reviews {
			assert.Equal(t, r.BookID, r.Book.ID, "review %d points at a missing book", r.ID)
			assert.Equal(t, r.UserID, r.User.ID, "review %d points at a missing user", r.ID)
			assert.GreaterOrEqual(t, r.Rating, model.MinRating)
			assert.LessOrEqual(t, r.Rating, model.MaxRating)
		}

		for _, msg := range []string{"users seeded", "books seeded", "reviews seeded", "catalog seeded"} {
			assert.Equal(t, 1, logs.FilterMessage(msg).Len(), msg)
		}
		assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("rerun keeps users but duplicates books and reviews", func(t *testing.T) {
		cfg := testConfig(t)
		bootstrapOnce(t, cfg)
		bootstrapOnce(t, cfg)

		counts := countsAt(t, cfg.DBPath)
		assert.Equal(t, int64(2), counts.Users)
		assert.Equal(t, int64(10), counts.Books)
		assert.Equal(t, int64(10), counts.Reviews)
	})

	t.Run("idempotent rerun adds nothing", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.IdempotentSeed = true
		bootstrapOnce(t, cfg)
		bootstrapOnce(t, cfg)

		counts := countsAt(t, cfg.DBPath)
		assert.Equal(t, CatalogCounts{Users: 2, Books: 5, Reviews: 5}, counts)
	})

	t.Run("schema only when seeding is off", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Seed = false
		bootstrapOnce(t, cfg)

		assert.Equal(t, CatalogCounts{}, countsAt(t, cfg.DBPath))
	})

	t.Run("seed failure is logged and the store stays usable", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Seed = false
		store, err := BootstrapSQLite(cfg, zap.NewNop().Sugar())
		require.NoError(t, err)
		// Takes the admin email under another username, so insert-or-ignore skips admin and the lookup fails.
		require.NoError(t, store.DB().Create(&model.User{Username: "root", Email: AdminEmail, Password: "x"}).Error)
		require.NoError(t, store.Close())

		cfg.Seed = true
		sugar, logs := observedLogger()
		store, err = BootstrapSQLite(cfg, sugar)
		require.NoError(t, err)
		defer store.Close()

		require.NoError(t, store.Ping(t.Context()))
		errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
		require.Len(t, errs, 1)
		assert.Equal(t, "bootstrap: failed to initialize catalog data", errs[0].Message)
		assert.Zero(t, logs.FilterMessage("books seeded").Len())

		counts, err := store.Counts()
		require.NoError(t, err)
		assert.Equal(t, CatalogCounts{Users: 2}, counts)
	})

	t.Run("rejects an empty database path", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.DBPath = ""
		_, err := BootstrapSQLite(cfg, zap.NewNop().Sugar())
		require.Error(t, err)
	})

	t.Run("rejects an unknown SQL log level", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.SQLLogLevel = "chatty"
		_, err := BootstrapSQLite(cfg, zap.NewNop().Sugar())
		require.Error(t, err)
	})
}

func TestParseSQLLogLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"":       logger.Silent,
		"silent": logger.Silent,
		"ERROR":  logger.Error,
		"warn":   logger.Warn,
		" info ": logger.Info,
	}
	for in, want := range cases {
		got, err := ParseSQLLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
