package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/tagblog/models"
	"github.com/rpupo63/tagblog/services"
)

var addUserCmd = &cobra.Command{
	Use:   "adduser [username] [password]",
	Short: "Provision an administrator account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password := args[0], args[1]
		if username == "" || len(username) > 80 {
			return fmt.Errorf("username must be between 1 and 80 characters")
		}
		if password == "" {
			return fmt.Errorf("password must not be empty")
		}

		db, currentDB, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		hash, err := services.HashPassword(password)
		if err != nil {
			return err
		}

		user := &models.User{Username: username, PasswordHash: hash}
		if err := currentDB.UserRepo().Add(cmd.Context(), user); err != nil {
			return err
		}

		log.Info().Str("username", username).Uint("userID", user.ID).Msg("user added")
		return nil
	},
}
