package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fintrack-app/fintrack/cmd/cli/config"
	"github.com/fintrack-app/fintrack/internal/models"
)

func TestDoAuthed_UnauthorizedTearsDownSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer srv.Close()
	t.Setenv("FINTRACK_API_URL", srv.URL)

	if err := config.Save(config.Session{Token: "stale", User: models.User{ID: 1}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	err := DoAuthed("GET", "/auth/me", nil, nil)
	if !errors.Is(err, ErrLoggedOut) {
		t.Fatalf("expected ErrLoggedOut, got %v", err)
	}

	// The stored session is gone: the next call reports "not logged in"
	if _, err := config.Load(); !errors.Is(err, config.ErrNoSession) {
		t.Errorf("expected session to be cleared, got %v", err)
	}
}

func TestDoAuthed_SendsBearerToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"userId":1,"username":"al"}`))
	}))
	defer srv.Close()
	t.Setenv("FINTRACK_API_URL", srv.URL)

	if err := config.Save(config.Session{Token: "good-token", User: models.User{ID: 1}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var user models.User
	if err := DoAuthed("GET", "/auth/me", nil, &user); err != nil {
		t.Fatalf("DoAuthed: %v", err)
	}
	if gotAuth != "Bearer good-token" {
		t.Errorf("authorization header: got %q", gotAuth)
	}
	if user.Username != "al" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestDoJSON_ErrorCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"username or email already exists"}`))
	}))
	defer srv.Close()
	t.Setenv("FINTRACK_API_URL", srv.URL)

	err := DoJSON("POST", "/auth/signup", map[string]string{"username": "al"}, nil)
	if err == nil {
		t.Fatal("expected an error for 409")
	}
}
