package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quizdeck/internal/app"
	"quizdeck/internal/config"
	"quizdeck/internal/domain"
)

// NewAdminCmd groups admin-account management. Every subcommand requires
// a valid login.
func NewAdminCmd(configPath *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.PersistentFlags().StringVar(&email, "email", "", "admin email")
	cmd.PersistentFlags().StringVar(&password, "password", "", "admin password")

	cmd.AddCommand(newAdminListCmd(configPath, &email, &password))
	cmd.AddCommand(newAdminAddCmd(configPath, &email, &password))
	cmd.AddCommand(newAdminDeleteCmd(configPath, &email, &password))
	return cmd
}

func newAdminListCmd(configPath, email, password *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthorSession(cmd.Context(), *configPath, *email, *password,
				func(_ config.Config, store *app.Store) error {
					for _, user := range store.State().UserList() {
						role := "admin"
						if user.IsSuperAdmin {
							role = "super-admin"
						}
						fmt.Printf("%s\t%s\t%s\n", user.ID, user.Email, role)
					}
					return nil
				})
		},
	}
}

func newAdminAddCmd(configPath, email, password *string) *cobra.Command {
	var newEmail, newPassword string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if newEmail == "" || newPassword == "" {
				return fmt.Errorf("--new-email and --new-password are required")
			}
			return withAuthorSession(cmd.Context(), *configPath, *email, *password,
				func(_ config.Config, store *app.Store) error {
					user := domain.NewAdminUser(newEmail, newPassword)
					before := len(store.State().Users)
					next := store.Dispatch(domain.AddAdmin{User: user})
					if len(next.Users) == before {
						return fmt.Errorf("an account with email %s already exists", newEmail)
					}
					fmt.Printf("created admin %s\n", user.ID)
					return nil
				})
		},
	}
	cmd.Flags().StringVar(&newEmail, "new-email", "", "email for the new admin")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "password for the new admin")
	return cmd
}

func newAdminDeleteCmd(configPath, email, password *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete an admin account (the super admin cannot be deleted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthorSession(cmd.Context(), *configPath, *email, *password,
				func(_ config.Config, store *app.Store) error {
					before := len(store.State().Users)
					next := store.Dispatch(domain.DeleteAdmin{UserID: args[0]})
					if len(next.Users) == before {
						return fmt.Errorf("account %s was not deleted", args[0])
					}
					return nil
				})
		},
	}
}
