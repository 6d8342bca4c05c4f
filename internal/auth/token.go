package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long a bearer token stays valid after it is issued
const DefaultTokenTTL = 2 * time.Hour

var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carried by every bearer token. Only the user id is trusted; the role is
// always reloaded from the store when the token is presented.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 bearer tokens with a process-wide secret
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a TokenManager
type Option func(*TokenManager)

// WithClock replaces time.Now, used for issuing and for expiry checks
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

// WithTTL overrides DefaultTokenTTL
func WithTTL(ttl time.Duration) Option {
	return func(m *TokenManager) { m.ttl = ttl }
}

// NewTokenManager creates a TokenManager signing with secret
func NewTokenManager(secret string, opts ...Option) *TokenManager {
	m := &TokenManager{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the lifetime of issued tokens
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a signed token for userID expiring TTL from now
func (m *TokenManager) Issue(userID uint) (string, error) {
	issuedAt := m.now()
	return m.sign(userID, issuedAt, issuedAt.Add(m.ttl), "")
}

func (m *TokenManager) sign(userID uint, issuedAt, expiresAt time.Time, audience string) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("cannot issue token: empty user id")
	}
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies signature and expiry and returns the claims.
// Errors are always one of ErrTokenMissing, ErrTokenExpired or ErrTokenInvalid (possibly wrapped).
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
// It returns "" when the header is empty or does not use the Bearer scheme.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
