package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukerupert/pantrybot/internal/auth"
	"github.com/dukerupert/pantrybot/internal/database"
	"github.com/dukerupert/pantrybot/internal/store"
)

const newPasswordEnv = "PANTRYBOT_NEW_PASSWORD"

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var password string
	var admin bool
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(newPasswordEnv)
			}
			if password == "" {
				return errors.New("password required: use --password or " + newPasswordEnv)
			}

			db, err := database.Open(a.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := auth.HashPassword(password, a.cfg.Auth.PasswordIterations)
			if err != nil {
				return err
			}
			u, err := store.NewUserStore(db).Create(args[0], hash, admin)
			if errors.Is(err, store.ErrConflict) {
				return fmt.Errorf("user %q already exists", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, admin %t)\n", u.Username, u.ID, u.IsAdmin)
			return nil
		},
	}
	add.Flags().StringVar(&password, "password", "", "password for the new account")
	add.Flags().BoolVar(&admin, "admin", false, "grant admin privileges")

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(a.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			users, err := store.NewUserStore(db).List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tADMIN\tCREATED")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%t\t%s\n", u.ID, u.Username, u.IsAdmin, u.CreatedAt)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
