package main

import (
	"log"
	"os"

	"librarycatalog/config"
	"librarycatalog/db"
	"librarycatalog/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap the library catalog schema and optionally seed it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			sugar := logger.Sugar()

			if cfg.Backup {
				if info, err := os.Stat(cfg.DBPath); err == nil {
					sugar.Infow("existing database found", "db", cfg.DBPath, "bytes", info.Size())
					backupPath, err := backupDB(cfg.DBPath)
					if err != nil {
						log.Fatalf("failed to create DB backup: %v", err)
					}
					sugar.Infow("existing database backed up", "backup", backupPath)
					pruneOldBackups(sugar, cfg.DBPath, cfg.MaxBackups)
				}
			}

			store, err := db.BootstrapSQLite(cfg, sugar)
			if err != nil {
				log.Fatalf("bootstrap failed: %v", err)
			}
			defer store.Close()

			counts, err := store.Counts()
			if err != nil {
				return err
			}
			sugar.Infow("catalog ready",
				"db", cfg.DBPath,
				"users", counts.Users,
				"books", counts.Books,
				"reviews", counts.Reviews,
			)
			return nil
		},
	}

	d := config.Default()
	flags := rootCmd.Flags()
	flags.String(config.KeyDBPath, d.DBPath, "Path to SQLite database file")
	flags.Bool(config.KeySeed, d.Seed, "Whether to load seed data into the database")
	flags.Bool(config.KeyIdempotentSeed, d.IdempotentSeed, "Skip seed books and reviews that already exist")
	flags.Bool(config.KeyTransactionalSeed, d.TransactionalSeed, "Roll back all seed data if any step fails")
	flags.Bool(config.KeyBackup, d.Backup, "Whether to create a backup of the database if it exists")
	flags.Int(config.KeyMaxBackups, d.MaxBackups, "Maximum number of backups to retain")
	flags.String(config.KeyLogLevel, d.LogLevel, "Log level: debug, info, warn or error")
	flags.String(config.KeySQLLogLevel, d.SQLLogLevel, "SQL log level: silent, error, warn or info")

	if err := v.BindPFlags(flags); err != nil {
		log.Fatalf("binding flags: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}
