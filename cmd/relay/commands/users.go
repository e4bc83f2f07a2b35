package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cipherchat/internal/domain"
	"cipherchat/internal/userdb"
	"cipherchat/internal/util/prompt"
)

func withUserDB(fn func(db *userdb.DB) error) error {
	db, err := userdb.Open(cfg.UserDB)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.UserDB, err)
	}
	defer db.Close()
	return fn(db)
}

func useraddCmd() *cobra.Command {
	var update bool
	cmd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Create an account, or change its password with --update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := domain.Username(args[0])
			if !userdb.ValidUsername(username) {
				return fmt.Errorf("%w: %q", userdb.ErrInvalidUsername, username)
			}
			password, err := prompt.Confirm(os.Stdin, cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}
			return withUserDB(func(db *userdb.DB) error {
				if err := db.Add(username, password, update); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved account %s\n", username)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&update, "update", false, "change the password of an existing account")
	return cmd
}

func userdelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "userdel <username>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUserDB(func(db *userdb.DB) error {
				if err := db.Remove(domain.Username(args[0])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %s\n", args[0])
				return nil
			})
		},
	}
}

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUserDB(func(db *userdb.DB) error {
				for _, u := range db.List() {
					fmt.Fprintln(cmd.OutOrStdout(), u)
				}
				return nil
			})
		},
	}
}
