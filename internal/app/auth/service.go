package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/family-archive/family-tree-api/internal/domain"
	"github.com/family-archive/family-tree-api/internal/ports/out/adminrepo"
	clockport "github.com/family-archive/family-tree-api/internal/ports/out/clock"
)

// Token is an issued bearer token.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Service authenticates admin users against stored bcrypt hashes and issues
// HS256 bearer tokens with the username as subject.
type Service struct {
	repo     adminrepo.Repository
	clk      clockport.Clock
	secret   []byte
	tokenTTL time.Duration
}

func NewService(repo adminrepo.Repository, clk clockport.Clock, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &Service{
		repo:     repo,
		clk:      clk,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Login verifies the credentials and returns a fresh bearer token. Unknown
// usernames and wrong passwords are reported identically so the endpoint does
// not leak which admin accounts exist; an inactive account is distinct (403).
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, adminrepo.ErrNotFound) {
			return Token{}, invalidCredentials()
		}
		return Token{}, err
	}
	if !user.IsActive {
		return Token{}, &Error{
			Status:  403,
			Code:    "USER_INACTIVE",
			Message: "this account is inactive",
		}
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Token{}, invalidCredentials()
	}

	now := s.clk.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}

	lastLogin := now
	user.LastLogin = &lastLogin
	// Best effort; a failed last-login bump must not fail the login.
	_ = s.repo.Update(ctx, user)

	return Token{AccessToken: signed, TokenType: "bearer", ExpiresAt: expiresAt}, nil
}

// Verify validates a bearer token and returns the admin it identifies. The
// admin must still exist and be active at verification time.
func (s *Service) Verify(ctx context.Context, token string) (domain.AdminUser, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.clk.Now))
	if err != nil || !parsed.Valid {
		return domain.AdminUser{}, invalidToken()
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return domain.AdminUser{}, invalidToken()
	}

	user, err := s.repo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, adminrepo.ErrNotFound) {
			return domain.AdminUser{}, invalidToken()
		}
		return domain.AdminUser{}, err
	}
	if !user.IsActive {
		return domain.AdminUser{}, &Error{
			Status:  403,
			Code:    "USER_INACTIVE",
			Message: "this account is inactive",
		}
	}
	return user, nil
}

// Bootstrap creates the admin account if it does not exist yet. Used at
// startup to provision the account named in the environment.
func (s *Service) Bootstrap(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, adminrepo.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.repo.Create(ctx, domain.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    s.clk.Now(),
	})
	if errors.Is(err, adminrepo.ErrAlreadyExists) {
		return nil
	}
	return err
}

func invalidCredentials() *Error {
	return &Error{
		Status:  401,
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid username or password",
	}
}

func invalidToken() *Error {
	return &Error{
		Status:  401,
		Code:    "INVALID_TOKEN",
		Message: "invalid or expired token",
	}
}
