package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	admindomain "github.com/jejak-app/jejak/api/internal/admin/domain"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound is returned by AccountRepository when no account matches.
	ErrAccountNotFound = errors.New("account not found")
)

const minPasswordLength = 8

// TokenConfig controls the access tokens issued on login.
type TokenConfig struct {
	Issuer   string
	Secret   []byte
	Audience string
	TTL      time.Duration
}

// AdminClaims are the claims carried by admin access tokens.
type AdminClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

type authService struct {
	accounts AccountRepository
	token    TokenConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates the admin login service.
func NewAuthService(accounts AccountRepository, token TokenConfig, logger *zap.Logger) AuthService {
	if token.TTL <= 0 {
		token.TTL = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{accounts: accounts, token: token, logger: logger, now: time.Now}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	addr, err := admindomain.NewEmail(email)
	if err != nil || password == "" {
		return nil, ErrInvalidCredentials
	}
	account, err := s.accounts.FindByEmail(ctx, addr)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		s.logger.Info("admin login rejected", zap.String("email", addr.String()))
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	expires := now.Add(s.token.TTL)
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.token.Issuer,
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Name:              account.DisplayName(),
		PreferredUsername: account.Email.String(),
	}
	if s.token.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.token.Audience}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.token.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("admin logged in", zap.String("id", account.ID))
	return &LoginResult{Token: signed, ExpiresAt: expires, Account: *account}, nil
}

// Register creates an account or resets the password and name of an existing one.
func (s *authService) Register(ctx context.Context, cmd RegisterAccountCommand) (*admindomain.Account, error) {
	addr, err := admindomain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	if len(cmd.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	account := &admindomain.Account{
		Email:        addr,
		Name:         strings.TrimSpace(cmd.Name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Upsert(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
