package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jejak-app/jejak/api/internal/geo"
	publicapp "github.com/jejak-app/jejak/api/internal/public/application"
)

// PhotoURLs resolves a stored photo path to a URL the browser can load.
type PhotoURLs interface {
	PublicURL(ctx context.Context, path string) (string, error)
}

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger        *zap.Logger
	reports       publicapp.ReportQueryService
	submissions   publicapp.SubmissionService
	photos        PhotoURLs
	geo           geo.Lookuper
	debounce      time.Duration
	maxPhotoBytes int64
	upgrader      websocket.Upgrader
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         *zap.Logger
	Reports        publicapp.ReportQueryService
	Submissions    publicapp.SubmissionService
	Photos         PhotoURLs
	Geo            geo.Lookuper
	Debounce       time.Duration
	MaxPhotoBytes  int64
	AllowedOrigins []string
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = geo.DefaultDebounce
	}
	maxPhoto := cfg.MaxPhotoBytes
	if maxPhoto <= 0 {
		maxPhoto = 10 << 20
	}
	return &Handler{
		logger:        logger,
		reports:       cfg.Reports,
		submissions:   cfg.Submissions,
		photos:        cfg.Photos,
		geo:           cfg.Geo,
		debounce:      debounce,
		maxPhotoBytes: maxPhoto,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reports", h.reportListHandler())
	r.Get("/reports/{id}", h.reportDetailHandler())
	r.Post("/reports", h.reportCreateHandler())
	r.Get("/geo/search", h.geoSearchHandler())
	r.Get("/geo/reverse", h.geoReverseHandler())
	r.Get("/geo/live", h.geoLiveHandler())
}

func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{})
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if origin != "" {
			allowed[origin] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
