package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/fintrack-app/fintrack/internal/models"
)

const defaultAPIURL = "http://localhost:8080"

// ErrNoSession is returned when no session file exists (not logged in).
var ErrNoSession = errors.New("no stored session")

// APIURL returns the base URL for the FinTrack API.
// It can be overridden with the FINTRACK_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("FINTRACK_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// Session is the locally cached login state: the bearer token plus the user
// profile it resolved to at login time. The profile is refreshed whenever a
// whoami succeeds and discarded whenever the API says the token is dead.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func sessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fintrack", "session.json"), nil
}

// Save writes the session file with user-only permissions.
func Save(s Session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Load reads the stored session. Returns ErrNoSession when absent.
func Load() (Session, error) {
	path, err := sessionPath()
	if err != nil {
		return Session{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, err
	}
	if s.Token == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func Clear() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
