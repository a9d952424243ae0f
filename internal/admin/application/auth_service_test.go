package application

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) (AuthService, TokenConfig) {
	t.Helper()
	cfg := TokenConfig{Issuer: "jejak-admin", Secret: []byte("test-secret"), Audience: "jejak-console", TTL: time.Hour}
	svc := NewAuthService(newMemoryAccounts(), cfg, nil)
	_, err := svc.Register(context.Background(), RegisterAccountCommand{Email: "siti@jejak.id", Password: "rahasia123"})
	require.NoError(t, err)
	return svc, cfg
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, cfg := newTestAuth(t)

	res, err := svc.Login(context.Background(), "Siti@jejak.id", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, "Siti", res.Account.DisplayName())

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (any, error) { return cfg.Secret, nil })
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "jejak-admin", claims.Issuer)
	assert.Equal(t, "admin-siti", claims.Subject)
	assert.Equal(t, "Siti", claims.Name)
	assert.Equal(t, "siti@jejak.id", claims.PreferredUsername)
	assert.Equal(t, jwt.ClaimStrings{"jejak-console"}, claims.Audience)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)
}

func TestLogin_Rejects(t *testing.T) {
	svc, _ := newTestAuth(t)

	for name, creds := range map[string][2]string{
		"wrong password": {"siti@jejak.id", "salah"},
		"unknown email":  {"budi@jejak.id", "rahasia123"},
		"bad email":      {"siti", "rahasia123"},
		"empty password": {"siti@jejak.id", ""},
	} {
		_, err := svc.Login(context.Background(), creds[0], creds[1])
		assert.ErrorIs(t, err, ErrInvalidCredentials, name)
	}
}

func TestRegister_ResetsExistingAccount(t *testing.T) {
	svc, _ := newTestAuth(t)

	acc, err := svc.Register(context.Background(), RegisterAccountCommand{Email: "siti@jejak.id", Name: "Siti Rahma", Password: "kataSandiBaru"})
	require.NoError(t, err)
	assert.Equal(t, "admin-siti", acc.ID)

	_, err = svc.Login(context.Background(), "siti@jejak.id", "rahasia123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	res, err := svc.Login(context.Background(), "siti@jejak.id", "kataSandiBaru")
	require.NoError(t, err)
	assert.Equal(t, "Siti Rahma", res.Account.DisplayName())
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewAuthService(newMemoryAccounts(), TokenConfig{Secret: []byte("s")}, nil)
	_, err := svc.Register(context.Background(), RegisterAccountCommand{Email: "a@b.id", Password: "short"})
	assert.Error(t, err)
}
