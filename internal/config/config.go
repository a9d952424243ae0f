package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // slim images ship without a zoneinfo database

	"github.com/spf13/viper"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// MinioConfig holds the photo bucket settings.
type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
	PresignExpiry   time.Duration
}

// ClassifierConfig selects and configures the categorizer backends.
type ClassifierConfig struct {
	Mode          string
	AIEndpoint    string
	AIKey         string
	AITimeout     time.Duration
	ImageModelURL string
	ImageModel    string
	ImageLabels   string
}

// GeocoderConfig configures the Nominatim client.
type GeocoderConfig struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	Timeout           time.Duration
	Debounce          time.Duration
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Env                    string
	Addr                   string
	MongoURI               string
	MongoDatabase          string
	ReportCollection       string
	AccountCollection      string
	Timeout                time.Duration
	Timezone               string
	Location               *time.Location
	JWTConfigs             []JWTConfig
	JWTAudience            string
	AdminIssuer            string
	AdminSecret            []byte
	AdminTokenTTL          time.Duration
	AllowedOrigins         []string
	MediaBaseURL           string
	RequireReporterContact bool
	MaxPhotoBytes          int64
	OrphanSweepSchedule    string
	OrphanGracePeriod      time.Duration
	Minio                  MinioConfig
	Classifier             ClassifierConfig
	Geocoder               GeocoderConfig
}

// Development reports whether APP_ENV selects the development profile.
func (c Config) Development() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

// Load reads config.yaml when present and environment variables, environment taking precedence.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "production")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("mongo_uri", "mongodb://mongo:27017")
	v.SetDefault("mongo_db", "jejak")
	v.SetDefault("report_collection", "reports")
	v.SetDefault("admin_collection", "admins")
	v.SetDefault("mongo_connect_timeout", "10s")
	v.SetDefault("timezone", "Asia/Jakarta")
	v.SetDefault("api_allowed_origins", "*")
	v.SetDefault("auth_admin_jwt_issuer", "jejak-admin")
	v.SetDefault("auth_admin_token_ttl", "12h")
	v.SetDefault("require_reporter_contact", false)
	v.SetDefault("max_photo_mb", 10)
	v.SetDefault("orphan_sweep_schedule", "@hourly")
	v.SetDefault("orphan_grace_period", "1h")

	v.SetDefault("minio_endpoint", "minio:9000")
	v.SetDefault("minio_bucket", "reports")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_presign_expiry", "1h")

	v.SetDefault("classifier_mode", "heuristic")
	v.SetDefault("ai_timeout", "30s")
	v.SetDefault("image_model", "ssd_mobilenet")

	v.SetDefault("nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim_user_agent", "jejak-report-intake/1.0")
	v.SetDefault("nominatim_rps", 1.0)
	v.SetDefault("nominatim_timeout", "5s")
	v.SetDefault("geo_debounce", "300ms")
}

func fromViper(v *viper.Viper) (Config, error) {
	adminSecret := strings.TrimSpace(v.GetString("auth_admin_jwt_secret"))
	if adminSecret == "" {
		return Config{}, errors.New("AUTH_ADMIN_JWT_SECRET must be configured")
	}
	adminIssuer := strings.TrimSpace(v.GetString("auth_admin_jwt_issuer"))

	// admin tokens are verified first; an external auth service may mint tokens too
	jwtConfigs := []JWTConfig{{Issuer: adminIssuer, Secret: []byte(adminSecret)}}
	if secret := strings.TrimSpace(v.GetString("auth_sso_jwt_secret")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: strings.TrimSpace(v.GetString("auth_sso_jwt_issuer")),
			Secret: []byte(secret),
		})
	}

	cfg := Config{
		Env:                    strings.TrimSpace(v.GetString("app_env")),
		Addr:                   v.GetString("http_addr"),
		MongoURI:               v.GetString("mongo_uri"),
		MongoDatabase:          v.GetString("mongo_db"),
		ReportCollection:       v.GetString("report_collection"),
		AccountCollection:      v.GetString("admin_collection"),
		Timeout:                v.GetDuration("mongo_connect_timeout"),
		Timezone:               v.GetString("timezone"),
		JWTConfigs:             jwtConfigs,
		JWTAudience:            strings.TrimSpace(v.GetString("auth_jwt_audience")),
		AdminIssuer:            adminIssuer,
		AdminSecret:            []byte(adminSecret),
		AdminTokenTTL:          v.GetDuration("auth_admin_token_ttl"),
		AllowedOrigins:         parseList(v.GetString("api_allowed_origins"), []string{"*"}),
		MediaBaseURL:           strings.TrimSpace(v.GetString("media_base_url")),
		RequireReporterContact: v.GetBool("require_reporter_contact"),
		MaxPhotoBytes:          v.GetInt64("max_photo_mb") << 20,
		OrphanSweepSchedule:    strings.TrimSpace(v.GetString("orphan_sweep_schedule")),
		OrphanGracePeriod:      v.GetDuration("orphan_grace_period"),
		Minio: MinioConfig{
			Endpoint:        strings.TrimSpace(v.GetString("minio_endpoint")),
			AccessKeyID:     v.GetString("minio_access_key"),
			SecretAccessKey: v.GetString("minio_secret_key"),
			Bucket:          strings.TrimSpace(v.GetString("minio_bucket")),
			Region:          strings.TrimSpace(v.GetString("minio_region")),
			UseSSL:          v.GetBool("minio_use_ssl"),
			PresignExpiry:   v.GetDuration("minio_presign_expiry"),
		},
		Classifier: ClassifierConfig{
			Mode:          strings.TrimSpace(v.GetString("classifier_mode")),
			AIEndpoint:    strings.TrimSpace(v.GetString("ai_endpoint")),
			AIKey:         v.GetString("ai_api_key"),
			AITimeout:     v.GetDuration("ai_timeout"),
			ImageModelURL: strings.TrimSpace(v.GetString("image_model_url")),
			ImageModel:    strings.TrimSpace(v.GetString("image_model")),
			ImageLabels:   strings.TrimSpace(v.GetString("image_labels_file")),
		},
		Geocoder: GeocoderConfig{
			BaseURL:           strings.TrimSpace(v.GetString("nominatim_url")),
			UserAgent:         strings.TrimSpace(v.GetString("nominatim_user_agent")),
			RequestsPerSecond: v.GetFloat64("nominatim_rps"),
			Timeout:           v.GetDuration("nominatim_timeout"),
			Debounce:          v.GetDuration("geo_debounce"),
		},
	}

	if cfg.Classifier.Mode == "remote" && cfg.Classifier.AIEndpoint == "" {
		return Config{}, errors.New("AI_ENDPOINT must be configured when CLASSIFIER_MODE=remote")
	}
	if cfg.MaxPhotoBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_PHOTO_MB must be positive")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc
	return cfg, nil
}

func parseList(raw string, fallback []string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
