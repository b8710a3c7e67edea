package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/rpupo63/tagblog/config"
	"github.com/rpupo63/tagblog/database"
)

var (
	// Global flags
	settingsFile string
	logLevel     string

	// Environment snapshot taken after the settings file is loaded
	cfg map[string]string
)

var rootCmd = &cobra.Command{
	Use:   "tagblog",
	Short: "Tagblog - a small tagged blog",
	Long: `Tagblog serves a paginated, searchable blog whose posts carry tags.

A single administrator signs in to write posts and edit tags. Accounts are
provisioned with the adduser command.

Run without a subcommand to start the web server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if settingsFile != "" {
			if err := os.Setenv("TAGBLOG_SETTINGS_FILE", settingsFile); err != nil {
				return err
			}
		}
		loaded, err := config.LoadSettingsFile()
		if err != nil {
			return fmt.Errorf("loading settings file %s: %w", loaded, err)
		}

		cfg = config.New()
		setupLogger(config.GetString(cfg, "LOG_LEVEL", logLevel))
		if loaded != "" {
			log.Debug().Str("file", loaded).Msg("settings file loaded")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file to load (overrides TAGBLOG_SETTINGS_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level when LOG_LEVEL is unset: debug, info, warn or error")

	rootCmd.AddCommand(serveCmd, migrateCmd, addUserCmd, generateCmd)
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func setupLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// openDatabase connects using the current configuration.
func openDatabase() (*gorm.DB, database.Database, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, database.Database{}, err
	}
	return db, database.New(db), nil
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing database")
	}
}
