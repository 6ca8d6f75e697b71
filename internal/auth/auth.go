// Package auth issues and validates bearer access tokens and resolves them
// to user identities.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"chatrooms/internal/database"
	"chatrooms/internal/domain"
)

// TokenType is the bearer scheme name used in responses and the
// Authorization header.
const TokenType = "bearer"

// CookieName is the cookie carrying the access token for browser clients.
const CookieName = "Authorization"

const signingAlgorithm = "HS256"

var (
	// ErrInvalidCredentials is returned on a failed username/password login.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken covers expired, malformed and mis-signed tokens, and
	// tokens whose subject no longer exists.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrInactiveUser is returned when a valid token maps to a deactivated
	// account.
	ErrInactiveUser = errors.New("auth: inactive user")
)

// Token is the /login response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserStore is the slice of the database the service needs.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (domain.UserDB, error)
}

// Service authenticates users and mints/validates access tokens.
type Service struct {
	store     UserStore
	secretKey []byte
	tokenTTL  time.Duration
}

// NewService creates an auth service signing tokens with secretKey.
func NewService(store UserStore, secretKey string, tokenTTL time.Duration) *Service {
	return &Service{store: store, secretKey: []byte(secretKey), tokenTTL: tokenTTL}
}

// HashPassword returns the bcrypt digest of a password.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches the stored digest.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// Login checks the credentials and returns a fresh access token.
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("auth: login: %w", err)
	}
	if !VerifyPassword(password, user.Digest) {
		return Token{}, ErrInvalidCredentials
	}
	access, err := s.CreateAccessToken(user.Username)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: access, TokenType: TokenType}, nil
}

// CreateAccessToken signs an HS256 token with the username as subject.
func (s *Service) CreateAccessToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token and resolves its subject to the
// stored user. Any failure collapses to ErrInvalidToken; callers never learn
// whether the token or the user was the problem.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (domain.UserDB, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{signingAlgorithm}))
	if err != nil || !token.Valid {
		return domain.UserDB{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return domain.UserDB{}, ErrInvalidToken
	}
	user, err := s.store.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		return domain.UserDB{}, ErrInvalidToken
	}
	return user, nil
}

// ActiveUser validates the token and additionally rejects deactivated
// accounts. This is the check every authenticated endpoint goes through.
func (s *Service) ActiveUser(ctx context.Context, tokenString string) (domain.UserDB, error) {
	user, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return domain.UserDB{}, err
	}
	if !user.IsActive {
		return domain.UserDB{}, ErrInactiveUser
	}
	return user, nil
}

// BearerToken extracts the access token from the Authorization cookie or,
// failing that, the Authorization header. Websocket upgrades go through the
// same path, so browser clients authenticate with the cookie alone.
func BearerToken(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return stripScheme(cookie.Value)
	}
	if header := r.Header.Get("Authorization"); header != "" {
		return stripScheme(header)
	}
	return "", ErrInvalidToken
}

func stripScheme(value string) (string, error) {
	scheme, token, found := strings.Cut(value, " ")
	if !found || !strings.EqualFold(scheme, TokenType) || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
