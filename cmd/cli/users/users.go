package users

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fintrack-app/fintrack/cmd/cli/client"
	"github.com/fintrack-app/fintrack/cmd/cli/config"
	"github.com/fintrack-app/fintrack/cmd/cli/output"
	"github.com/fintrack-app/fintrack/internal/models"
)

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user profiles",
	}

	usersCmd.AddCommand(
		getUserCmd(),
		updateUserCmd(),
		deleteUserCmd(),
	)

	rootCmd.AddCommand(usersCmd)
}

func renderUser(user models.User) {
	output.RenderTable(
		[]string{"ID", "Username", "Email", "Created", "Updated"},
		[][]interface{}{{
			user.ID,
			user.Username,
			user.Email,
			user.CreatedAt.Format("2006-01-02"),
			user.UpdatedAt.Format("2006-01-02"),
		}},
	)
}

// ==========================
// GET
// ==========================
func getUserCmd() *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch a user profile by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			var user *models.User
			if err := client.DoAuthed("GET", "/users/"+strconv.Itoa(id), nil, &user); err != nil {
				return err
			}
			if user == nil {
				fmt.Println("No such user.")
				return nil
			}
			renderUser(*user)
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "User id")
	cmd.MarkFlagRequired("id")

	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateUserCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your profile (only the flags you pass change)",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := config.Load()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			payload := map[string]interface{}{}
			if cmd.Flags().Changed("username") {
				payload["username"] = username
			}
			if cmd.Flags().Changed("email") {
				payload["email"] = email
			}
			if cmd.Flags().Changed("password") {
				payload["password"] = password
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update: pass --username, --email, or --password")
			}

			var user models.User
			if err := client.DoAuthed("PUT", "/users/"+strconv.Itoa(session.User.ID), payload, &user); err != nil {
				return err
			}

			// Refresh the cached profile
			session.User = user
			_ = config.Save(session)

			renderUser(user)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "New username")
	cmd.Flags().StringVar(&email, "email", "", "New email")
	cmd.Flags().StringVar(&password, "password", "", "New password")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteUserCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and all of its income records",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := config.Load()
			if err != nil {
				return fmt.Errorf("please login first")
			}
			if !yes {
				return fmt.Errorf("refusing to delete account %d without --yes", session.User.ID)
			}

			var user models.User
			if err := client.DoAuthed("DELETE", "/users/"+strconv.Itoa(session.User.ID), nil, &user); err != nil {
				return err
			}
			_ = config.Clear()
			fmt.Printf("Deleted account %s (user %d) and its income records.\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm account deletion")

	return cmd
}
