package auth

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fintrack-app/fintrack/cmd/cli/client"
	"github.com/fintrack-app/fintrack/cmd/cli/config"
	"github.com/fintrack-app/fintrack/cmd/cli/output"
	"github.com/fintrack-app/fintrack/internal/models"
)

// InitAuth registers auth-related CLI commands on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd(), whoamiCmd())
}

// ==========================
// Signup
// ==========================
func signupCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a FinTrack account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Token string      `json:"token"`
				User  models.User `json:"user"`
			}
			payload := map[string]string{"username": username, "email": email, "password": password}
			if err := client.DoJSON("POST", "/auth/signup", payload, &out); err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}
			if out.Token == "" {
				return fmt.Errorf("signup succeeded but no token returned")
			}
			if err := config.Save(config.Session{Token: out.Token, User: out.User}); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			fmt.Printf("Signed up and logged in as %s (user %d)\n", out.User.Username, out.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username for the new account")
	cmd.Flags().StringVar(&email, "email", "", "Email for the new account")
	cmd.Flags().StringVar(&password, "password", "", "Password for the new account")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var user, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the FinTrack API",
		Long:  "Authenticate with a username or email and store the session token for subsequent commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Token string      `json:"token"`
				User  models.User `json:"user"`
			}
			payload := map[string]string{"usernameOrEmail": user, "password": password}
			if err := client.DoJSON("POST", "/auth/login", payload, &out); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if out.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}
			if err := config.Save(config.Session{Token: out.Token, User: out.User}); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			fmt.Printf("Logged in as %s (user %d)\n", out.User.Username, out.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username or email")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("password")

	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

// ==========================
// Whoami (refresh identity from the API)
// ==========================
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity behind the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var user models.User
			if err := client.DoAuthed("GET", "/auth/me", nil, &user); err != nil {
				if errors.Is(err, client.ErrLoggedOut) {
					fmt.Println("Session expired or invalid; local session discarded. Please login again.")
					return nil
				}
				return err
			}

			// Keep the cached profile in sync with the server
			if session, err := config.Load(); err == nil {
				session.User = user
				_ = config.Save(session)
			}

			output.RenderTable(
				[]string{"ID", "Username", "Email", "Created"},
				[][]interface{}{{strconv.Itoa(user.ID), user.Username, user.Email, user.CreatedAt.Format("2006-01-02")}},
			)
			return nil
		},
	}
}
