package cmd

import (
	"errors"
	"fmt"

	"grocerystore/auth"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage API users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user and print their API token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" || password == "" {
			return errors.New("--username and --password are required")
		}

		store := auth.NewStore(env.db)
		user, err := store.CreateUser(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		token, err := store.IssueToken(cmd.Context(), user.ID)
		if err != nil {
			return err
		}

		env.log.Info("User created", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
		fmt.Fprintln(cmd.OutOrStdout(), token.Key)
		return nil
	},
}

var userTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the API token of an existing user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		store := auth.NewStore(env.db)
		user, err := store.Authenticate(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		token, err := store.IssueToken(cmd.Context(), user.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token.Key)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{userCreateCmd, userTokenCmd} {
		c.Flags().String("username", "", "username")
		c.Flags().String("password", "", "password")
	}
	userCmd.AddCommand(userCreateCmd, userTokenCmd)
}
