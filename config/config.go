// Package config resolves bootstrap settings from flags, LIBRARY_* environment variables and defaults.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const (
	KeyDBPath            = "db"
	KeySeed              = "seed"
	KeyIdempotentSeed    = "idempotent-seed"
	KeyTransactionalSeed = "transactional-seed"
	KeyBackup            = "backup"
	KeyMaxBackups        = "max-backups"
	KeyLogLevel          = "log-level"
	KeySQLLogLevel       = "sql-log-level"

	EnvPrefix = "LIBRARY"

	DefaultDBPath     = "library.db"
	DefaultMaxBackups = 5
)

type Config struct {
	DBPath            string
	Seed              bool
	IdempotentSeed    bool
	TransactionalSeed bool
	Backup            bool
	MaxBackups        int
	LogLevel          string
	SQLLogLevel       string
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		DBPath:      DefaultDBPath,
		Seed:        true,
		Backup:      true,
		MaxBackups:  DefaultMaxBackups,
		LogLevel:    "info",
		SQLLogLevel: "silent",
	}
}

// Load reads the configuration from v. Environment variables use the LIBRARY_ prefix with dashes turned into
// underscores, e.g. LIBRARY_MAX_BACKUPS. Flags bound to v with BindPFlags take precedence over the environment.
func Load(v *viper.Viper) (Config, error) {
	d := Default()
	v.SetDefault(KeyDBPath, d.DBPath)
	v.SetDefault(KeySeed, d.Seed)
	v.SetDefault(KeyIdempotentSeed, d.IdempotentSeed)
	v.SetDefault(KeyTransactionalSeed, d.TransactionalSeed)
	v.SetDefault(KeyBackup, d.Backup)
	v.SetDefault(KeyMaxBackups, d.MaxBackups)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeySQLLogLevel, d.SQLLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := Config{
		DBPath:            strings.TrimSpace(v.GetString(KeyDBPath)),
		Seed:              v.GetBool(KeySeed),
		IdempotentSeed:    v.GetBool(KeyIdempotentSeed),
		TransactionalSeed: v.GetBool(KeyTransactionalSeed),
		Backup:            v.GetBool(KeyBackup),
		MaxBackups:        v.GetInt(KeyMaxBackups),
		LogLevel:          v.GetString(KeyLogLevel),
		SQLLogLevel:       v.GetString(KeySQLLogLevel),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("config: database path must not be empty")
	}
	if c.MaxBackups < 0 {
		return errors.New("config: max-backups must not be negative")
	}
	return nil
}
