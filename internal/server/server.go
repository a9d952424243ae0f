package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	adminapp "github.com/jejak-app/jejak/api/internal/admin/application"
	"github.com/jejak-app/jejak/api/internal/classify"
	"github.com/jejak-app/jejak/api/internal/config"
	"github.com/jejak-app/jejak/api/internal/geo"
	mongodoc "github.com/jejak-app/jejak/api/internal/infrastructure/mongo"
	"github.com/jejak-app/jejak/api/internal/infrastructure/storage"
	adminhttp "github.com/jejak-app/jejak/api/internal/interfaces/http/admin"
	commonhttp "github.com/jejak-app/jejak/api/internal/interfaces/http/common"
	publichttp "github.com/jejak-app/jejak/api/internal/interfaces/http/public"
	"github.com/jejak-app/jejak/api/internal/jobs"
	publicapp "github.com/jejak-app/jejak/api/internal/public/application"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger         *zap.Logger
	client         *mongo.Client
	addr           string
	allowedOrigins []string
	jwtConfigs     []config.JWTConfig
	jwtAudience    string
	public         *publichttp.Handler
	admin          *adminhttp.Handler
	sweeper        *jobs.OrphanSweeper
	ping           func(ctx context.Context) error
}

type authenticatedUser = commonhttp.AuthenticatedUser

// Run はスイーパーと HTTP サーバーを起動し、シグナル受信まで待機する。
func (s *Server) Run() error {
	if s.sweeper != nil {
		s.sweeper.Start()
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// Router はミドルウェアと Public/Admin のルーティングを組み立てる。
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", s.healthHandler())
	router.Handle("/metrics", promhttp.Handler())
	s.public.Register(router)
	router.Route("/admin", func(r chi.Router) {
		s.admin.Register(r, s.authMiddleware)
	})
	return router
}

// requestLogger はリクエストごとに zap でアクセスログを出力する。
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// healthHandler は MongoDB への疎通確認を行い、監視系からのヘルスチェック要求に応える。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.ping(ctx); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済み管理者をコンテキストへ詰める。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Silakan login terlebih dahulu")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Gunakan token Bearer")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Token akses kosong")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		user := authenticatedUser{
			ID:       claims.Subject,
			Name:     claims.Name,
			Username: claims.PreferredUsername,
			Issuer:   claims.Issuer,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken は複数の JWT 設定を順番に試し、署名検証と Issuer/Audience の整合性を確認する。
func (s *Server) parseAuthToken(tokenString string) (*adminapp.AdminClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("konfigurasi autentikasi belum diatur")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &adminapp.AdminClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}
		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("token akses tidak valid")
}

// contains は Audience 等の検証で利用する単純な包含チェック。
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// shutdown はスイーパーを止め、MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if s.sweeper != nil {
		s.sweeper.Stop(shutdownCtx)
	}
	if s.client != nil {
		if err := s.client.Disconnect(shutdownCtx); err != nil {
			s.logger.Warn("mongodb disconnect failed", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigChan:
		srv.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Warn("http server shutdown failed", zap.Error(err))
		}
	}

	srv.shutdown(context.Background())
	return runErr
}

// New は Config・Mongo クライアント・写真ストアから各サービスとハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client, photos *storage.PhotoStore, logger *zap.Logger) (*Server, error) {
	database := client.Database(cfg.MongoDatabase)

	categorizer, err := buildCategorizer(cfg.Classifier, logger)
	if err != nil {
		return nil, err
	}

	// 検索キャッシュと Nominatim のレート制限は全セッションで共有する
	geocoder := geo.NewNominatimClient(geo.NominatimConfig{
		BaseURL:           cfg.Geocoder.BaseURL,
		UserAgent:         cfg.Geocoder.UserAgent,
		RequestsPerSecond: cfg.Geocoder.RequestsPerSecond,
		HTTPClient:        &http.Client{Timeout: cfg.Geocoder.Timeout},
	})
	searcher := geo.NewSearcher(geo.NewSearchCache(), geocoder, logger.Named("geo"))

	reportRepo := mongodoc.NewReportRepository(database, cfg.ReportCollection)
	adminReportRepo := mongodoc.NewAdminReportRepository(database, cfg.ReportCollection)
	accountRepo := mongodoc.NewAccountRepository(database, cfg.AccountCollection)

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:  logger.Named("public"),
		Reports: publicapp.NewReportQueryService(reportRepo),
		Submissions: publicapp.NewSubmissionService(reportRepo, photos, categorizer, publicapp.SubmissionConfig{
			RequireReporterContact: cfg.RequireReporterContact,
			MaxPhotoBytes:          cfg.MaxPhotoBytes,
		}, logger.Named("submission")),
		Photos:         photos,
		Geo:            searcher,
		Debounce:       cfg.Geocoder.Debounce,
		MaxPhotoBytes:  cfg.MaxPhotoBytes,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:    logger.Named("admin"),
		Reports:   adminapp.NewReportService(adminReportRepo),
		Lifecycle: adminapp.NewLifecycleService(adminReportRepo, photos, logger.Named("lifecycle")),
		Auth: adminapp.NewAuthService(accountRepo, adminapp.TokenConfig{
			Issuer:   cfg.AdminIssuer,
			Secret:   cfg.AdminSecret,
			Audience: cfg.JWTAudience,
			TTL:      cfg.AdminTokenTTL,
		}, logger.Named("auth")),
		Photos: photos,
	})

	sweeper, err := jobs.NewOrphanSweeper(photos, adminReportRepo, jobs.SweeperConfig{
		Schedule:    cfg.OrphanSweepSchedule,
		GracePeriod: cfg.OrphanGracePeriod,
		Prefix:      publicapp.PhotoPrefix,
		Location:    cfg.Location,
	}, logger.Named("sweeper"))
	if err != nil {
		return nil, err
	}

	return &Server{
		logger:         logger,
		client:         client,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		public:         publicHandler,
		admin:          adminHandler,
		sweeper:        sweeper,
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}, nil
}

// buildCategorizer は CLASSIFIER_MODE に応じて分類器を構成する。画像モデルは初回利用時に読み込む。
func buildCategorizer(cfg config.ClassifierConfig, logger *zap.Logger) (*classify.Categorizer, error) {
	mode, err := classify.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	var image classify.ImageClassifier
	if cfg.ImageModelURL != "" {
		image = classify.NewLazyImageClassifier(classify.NewTFServingLoader(classify.TFServingConfig{
			BaseURL:    cfg.ImageModelURL,
			Model:      cfg.ImageModel,
			LabelsFile: cfg.ImageLabels,
		}))
	}

	var remote classify.TextClassifier
	if mode == classify.ModeRemote {
		remote = classify.NewRemoteClassifier(classify.RemoteConfig{
			Endpoint:   cfg.AIEndpoint,
			APIKey:     cfg.AIKey,
			HTTPClient: &http.Client{Timeout: cfg.AITimeout},
		})
	}

	return classify.NewCategorizer(mode, image, remote, logger.Named("classify"))
}
