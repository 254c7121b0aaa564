package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNoSession = errors.New("no session")
	ErrRevoked   = errors.New("session revoked")
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Revoker records revoked token ids until they would have expired anyway.
// cache.Cache satisfies it.
type Revoker interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Sessions issues and verifies signed session tokens carried in a cookie
// or an Authorization bearer header.
type Sessions struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	revoked    Revoker
	now        func() time.Time
}

// NewSessions returns a session manager. revoked may be nil, in which case
// logout only clears the cookie.
func NewSessions(secret string, ttl time.Duration, cookieName string, revoked Revoker) *Sessions {
	if cookieName == "" {
		cookieName = "session"
	}
	return &Sessions{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		revoked:    revoked,
		now:        time.Now,
	}
}

func (s *Sessions) Issue(userID uuid.UUID, email string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expires, nil
}

func (s *Sessions) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrNoSession
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.Exists(ctx, revokedKey(claims.ID))
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrRevoked
		}
	}
	return claims, nil
}

// Revoke blacklists the token id for the remainder of its lifetime.
func (s *Sessions) Revoke(ctx context.Context, claims *Claims) error {
	if s.revoked == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Set(ctx, revokedKey(claims.ID), true, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Authenticate resolves the caller's session from the request.
func (s *Sessions) Authenticate(r *http.Request) (*Claims, error) {
	return s.Verify(r.Context(), s.tokenFromRequest(r))
}

func (s *Sessions) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) tokenFromRequest(r *http.Request) string {
	if tok := extractBearerToken(r); tok != "" {
		return tok
	}
	if c, err := r.Cookie(s.cookieName); err == nil {
		return c.Value
	}
	return ""
}

func revokedKey(id string) string {
	return "revoked:" + id
}
