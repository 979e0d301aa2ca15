package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fintrack-app/fintrack/internal/auth"
	"github.com/fintrack-app/fintrack/internal/config"
	"github.com/fintrack-app/fintrack/internal/handlers"
	"github.com/fintrack-app/fintrack/internal/middleware"
	"github.com/fintrack-app/fintrack/internal/repo"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	db         *sql.DB
	cfg        config.Config
}

// NewRouter builds the full route tree on top of the given database handle.
// Exposed separately from New so integration tests can drive the router with
// a mocked database.
func NewRouter(db *sql.DB, cfg config.Config) *chi.Mux {
	users := repo.NewUserRepo(db)
	incomes := repo.NewIncomeRepo(db)

	hasher := auth.NewHasher(cfg.PasswordScheme)
	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), time.Duration(cfg.TokenTTLHours)*time.Hour)

	authHandler := &handlers.AuthHandler{Users: users, Hasher: hasher, Issuer: issuer}
	userHandler := &handlers.UserHandler{Users: users, Hasher: hasher}
	incomeHandler := &handlers.IncomeHandler{Incomes: incomes}

	hsts := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""
	maxBytes := middleware.MaxBytes(middleware.DefaultMaxBodyBytes)
	authLimiter := middleware.AuthRateLimiter()

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.Recoverer,
		middleware.RequestLog,
		middleware.Prometheus,
		middleware.SecurityHeaders(hsts),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.Session(issuer, users),
	)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware, maxBytes)
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})
		r.With(middleware.RequireIdentity).Get("/me", authHandler.Me)
	})

	r.Route("/users", func(r chi.Router) {
		r.With(maxBytes).Post("/", userHandler.CreateUser)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity)
			r.Get("/{id}", userHandler.GetUser)
			r.With(maxBytes).Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})

	r.Route("/incomes", func(r chi.Router) {
		r.Use(middleware.RequireIdentity)
		r.With(maxBytes).Post("/", incomeHandler.CreateIncome)
		r.Get("/", incomeHandler.ListIncomes)
		r.Get("/{id}", incomeHandler.GetIncome)
		r.With(maxBytes).Put("/{id}", incomeHandler.UpdateIncome)
		r.Delete("/{id}", incomeHandler.DeleteIncome)
	})

	return r
}

// New constructs a Server around the router with sane HTTP timeouts.
func New(db *sql.DB, cfg config.Config) *Server {
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewRouter(db, cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{httpServer: httpServer, db: db, cfg: cfg}
}

// Start runs the HTTP server, with TLS when cert and key are configured.
func (s *Server) Start() error {
	var err error
	if s.cfg.TLSCertFile != "" && s.cfg.TLSKeyFile != "" {
		err = s.httpServer.ListenAndServeTLS(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	} else {
		err = s.httpServer.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
