package admin

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminapp "github.com/jejak-app/jejak/api/internal/admin/application"
)

// PhotoURLs resolves a stored photo path to a URL the console can load.
type PhotoURLs interface {
	PublicURL(ctx context.Context, path string) (string, error)
}

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger    *zap.Logger
	reports   adminapp.ReportService
	lifecycle adminapp.LifecycleService
	auth      adminapp.AuthService
	photos    PhotoURLs
}

// Config provides dependencies for Handler.
type Config struct {
	Logger    *zap.Logger
	Reports   adminapp.ReportService
	Lifecycle adminapp.LifecycleService
	Auth      adminapp.AuthService
	Photos    PhotoURLs
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:    logger,
		reports:   cfg.Reports,
		lifecycle: cfg.Lifecycle,
		auth:      cfg.Auth,
		photos:    cfg.Photos,
	}
}

// Register mounts admin routes onto router. Everything but login requires authMiddleware.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/auth/login", h.loginHandler())
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/auth/me", h.meHandler())
		r.Post("/auth/logout", h.logoutHandler())
		r.Get("/reports", h.reportListHandler())
		r.Get("/reports/summary", h.reportSummaryHandler())
		r.Get("/reports/{id}", h.reportDetailHandler())
		r.Patch("/reports/{id}/status", h.reportStatusHandler())
		r.Delete("/reports/{id}", h.reportDeleteHandler())
	})
}
