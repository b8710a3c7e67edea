package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/tagblog/models"
)

var generateOut string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate typed query helpers for the models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		log.Info().Str("out", generateOut).Msg("Generating models and query helpers...")
		return models.GenerateModels(db, generateOut)
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateOut, "out", "./query", "output directory for the generated code")
}
