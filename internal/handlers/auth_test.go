package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/fintrack-app/fintrack/internal/auth"
	"github.com/fintrack-app/fintrack/internal/middleware"
	"github.com/fintrack-app/fintrack/internal/models"
	"github.com/fintrack-app/fintrack/internal/repo"
)

// sha256("p1"), the digest format stored for every user in these tests
const digestP1 = "f64551fcd6f07823cb87971cfb91446425da18286b3ab1ef935e0cbd7a69f68a"

func newAuthHandler(db *sql.DB) *AuthHandler {
	return &AuthHandler{
		Users:  repo.NewUserRepo(db),
		Hasher: auth.NewHasher(auth.SchemeSHA256),
		Issuer: auth.NewTokenIssuer([]byte("test-secret"), 72*time.Hour),
	}
}

func userRows(id int, username, email, digest string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "public_id", "username", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(id, "9b7d3a10-aaaa-bbbb-cccc-ddddeeeeffff", username, email, digest, now, now)
}

func TestAuthHandler_Signup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users \(public_id, username, email, password_hash\)`).
		WithArgs(sqlmock.AnyArg(), "al", "a@x.com", digestP1).
		WillReturnRows(userRows(1, "al", "a@x.com", digestP1))

	h := newAuthHandler(db)

	body, _ := json.Marshal(map[string]string{"username": "al", "email": "a@x.com", "password": "p1"})
	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Signup status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID       int    `json:"userId"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" || out.User.ID != 1 || out.User.Username != "al" {
		t.Errorf("unexpected response: token=%q user=%+v", out.Token, out.User)
	}

	// The returned token resolves to the stored row's id
	claims, err := h.Issuer.VerifyToken(out.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != 1 {
		t.Errorf("token user id: got %d, want 1", claims.UserID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Signup_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "al", "a@x.com", digestP1).
		WillReturnError(&pq.Error{Code: "23505"})

	h := newAuthHandler(db)

	body, _ := json.Marshal(map[string]string{"username": "al", "email": "a@x.com", "password": "p1"})
	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("Signup status: got %d, want 409", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := newAuthHandler(db)

	// Bad email, missing password: rejected before touching storage
	body, _ := json.Marshal(map[string]string{"username": "al", "email": "not-an-email"})
	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Signup status: got %d, want 400", rr.Code)
	}
	var out struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.Fields) == 0 {
		t.Error("expected field-level validation details")
	}
}

func TestAuthHandler_Login(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, public_id, username`).
		WithArgs("al").
		WillReturnRows(userRows(1, "al", "a@x.com", digestP1))

	h := newAuthHandler(db)

	body, _ := json.Marshal(map[string]string{"usernameOrEmail": "al", "password": "p1"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" || out.User.ID != 1 {
		t.Errorf("unexpected response: token=%q user=%+v", out.Token, out.User)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, public_id, username`).
		WithArgs("al").
		WillReturnRows(userRows(1, "al", "a@x.com", digestP1))

	h := newAuthHandler(db)

	body, _ := json.Marshal(map[string]string{"usernameOrEmail": "al", "password": "wrong"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["error"] != "invalid credentials" {
		t.Errorf("unexpected error: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, public_id, username`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	h := newAuthHandler(db)

	body, _ := json.Marshal(map[string]string{"usernameOrEmail": "nobody", "password": "p1"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	// Same message as a wrong password: the response never says which part failed
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["error"] != "invalid credentials" {
		t.Errorf("unexpected error: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := newAuthHandler(db)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), &models.User{ID: 3, Username: "cara"}))
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Me status: got %d, want 200", rr.Code)
	}
	var user models.User
	if err := json.NewDecoder(rr.Body).Decode(&user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.ID != 3 || user.Username != "cara" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestAuthHandler_Me_NoIdentity(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := newAuthHandler(db)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Me status: got %d, want 401", rr.Code)
	}
}
