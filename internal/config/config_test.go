package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envViper(t *testing.T, env map[string]string) *viper.Viper {
	t.Helper()
	for k, val := range env {
		t.Setenv(k, val)
	}
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(envViper(t, map[string]string{"AUTH_ADMIN_JWT_SECRET": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "jejak", cfg.MongoDatabase)
	assert.Equal(t, "reports", cfg.ReportCollection)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(10<<20), cfg.MaxPhotoBytes)
	assert.Equal(t, "@hourly", cfg.OrphanSweepSchedule)
	assert.Equal(t, time.Hour, cfg.OrphanGracePeriod)
	assert.Equal(t, 12*time.Hour, cfg.AdminTokenTTL)
	assert.Equal(t, 300*time.Millisecond, cfg.Geocoder.Debounce)
	assert.Equal(t, "heuristic", cfg.Classifier.Mode)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "Asia/Jakarta", cfg.Location.String())
	require.Len(t, cfg.JWTConfigs, 1)
	assert.Equal(t, "jejak-admin", cfg.JWTConfigs[0].Issuer)
	assert.False(t, cfg.Development())
}

func TestFromViper_EnvOverrides(t *testing.T) {
	cfg, err := fromViper(envViper(t, map[string]string{
		"AUTH_ADMIN_JWT_SECRET":    "s3cret",
		"AUTH_SSO_JWT_SECRET":      "other",
		"AUTH_SSO_JWT_ISSUER":      "jejak-auth",
		"AUTH_JWT_AUDIENCE":        "jejak",
		"API_ALLOWED_ORIGINS":      "https://jejak.id, https://admin.jejak.id,",
		"REQUIRE_REPORTER_CONTACT": "true",
		"CLASSIFIER_MODE":          "remote",
		"AI_ENDPOINT":              "https://edge.example/classify",
		"NOMINATIM_RPS":            "0.5",
		"APP_ENV":                  "development",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://jejak.id", "https://admin.jejak.id"}, cfg.AllowedOrigins)
	assert.True(t, cfg.RequireReporterContact)
	assert.Equal(t, "remote", cfg.Classifier.Mode)
	assert.Equal(t, 0.5, cfg.Geocoder.RequestsPerSecond)
	assert.Equal(t, "jejak", cfg.JWTAudience)
	require.Len(t, cfg.JWTConfigs, 2)
	assert.Equal(t, "jejak-auth", cfg.JWTConfigs[1].Issuer)
	assert.True(t, cfg.Development())
}

func TestFromViper_RequiresAdminSecret(t *testing.T) {
	_, err := fromViper(envViper(t, nil))
	assert.ErrorContains(t, err, "AUTH_ADMIN_JWT_SECRET")
}

func TestFromViper_RemoteModeNeedsEndpoint(t *testing.T) {
	_, err := fromViper(envViper(t, map[string]string{
		"AUTH_ADMIN_JWT_SECRET": "s3cret",
		"CLASSIFIER_MODE":       "remote",
	}))
	assert.ErrorContains(t, err, "AI_ENDPOINT")
}

func TestFromViper_RejectsUnknownTimezone(t *testing.T) {
	_, err := fromViper(envViper(t, map[string]string{
		"AUTH_ADMIN_JWT_SECRET": "s3cret",
		"TIMEZONE":              "Asia/Atlantis",
	}))
	assert.ErrorContains(t, err, "TIMEZONE")
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"x"}, parseList("", []string{"x"}))
	assert.Equal(t, []string{"x"}, parseList(" , ", []string{"x"}))
	assert.Equal(t, []string{"a", "b"}, parseList("a,b", nil))
}
