package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bibbank/mt799-service/pkg/auth"
)

// Paths served outside the message API. They bypass authentication.
const (
	PathHealthz = "/healthz"
	PathReadyz  = "/readyz"
	PathMetrics = "/metrics"
)

// RouterConfig holds everything the HTTP router wires together.
type RouterConfig struct {
	Messages       *MessageHandler
	Health         *HealthHandler
	Metrics        http.Handler
	JWT            *auth.JWTService // nil disables authentication
	RateLimit      int              // requests per second; 0 disables limiting
	AllowedOrigins []string
	Timeout        time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the chi router for the service.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.RateLimit > 0 {
		r.Use(RateLimitMiddleware(NewRateLimiter(cfg.RateLimit)))
	}

	if cfg.Health != nil {
		r.Get(PathHealthz, cfg.Health.Liveness)
		r.Get(PathReadyz, cfg.Health.Readiness)
	}
	if cfg.Metrics != nil {
		r.Handle(PathMetrics, cfg.Metrics)
	}

	r.Route("/api/v1/messages", func(r chi.Router) {
		if cfg.JWT != nil {
			r.Use(auth.Middleware(cfg.JWT))
		}

		r.Group(func(r chi.Router) {
			if cfg.JWT != nil {
				r.Use(auth.RequireRoles(auth.RoleAdmin, auth.RoleSubmitter))
			}
			r.Post("/upload", cfg.Messages.Upload)
		})

		r.Group(func(r chi.Router) {
			if cfg.JWT != nil {
				r.Use(auth.RequireRoles(auth.RoleAdmin, auth.RoleSubmitter, auth.RoleViewer))
			}
			r.Post("/validate", cfg.Messages.Validate)
			r.Get("/", cfg.Messages.List)
		})
	})

	return r
}
