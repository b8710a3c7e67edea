package cmd

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/rpupo63/tagblog/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and report unmapped columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		if err := migrate(db); err != nil {
			return err
		}

		mismatches, err := models.GenerateColumnMismatchReport(db, os.Stdout)
		if err != nil {
			return err
		}
		if mismatches > 0 {
			log.Warn().Int("columns", mismatches).Msg("database has columns no model maps")
		}
		return nil
	},
}

func migrate(db *gorm.DB) error {
	if err := models.Migrate(db); err != nil {
		return err
	}
	log.Info().Msg("schema migrated")
	return nil
}
