package security

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todo_app/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	jwxt "github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	signingAlgorithm = "HS256"

	claimUserID = "id"
	claimRole   = "role"
)

// Clock supplies the current time for issuing and validating tokens.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a TokenAuthority.
type Option func(*TokenAuthority)

// WithClock replaces the wall clock used for expiry.
func WithClock(c Clock) Option {
	return func(ta *TokenAuthority) { ta.clock = c }
}

// TokenAuthority issues and verifies HS256 bearer tokens. It holds no mutable
// state after construction and is safe for concurrent use.
type TokenAuthority struct {
	ja    *jwtauth.JWTAuth
	ttl   time.Duration
	clock Clock
}

// NewTokenAuthority signs with secret and issues tokens valid for ttl.
func NewTokenAuthority(secret []byte, ttl time.Duration, opts ...Option) *TokenAuthority {
	ta := &TokenAuthority{ttl: ttl, clock: systemClock{}}
	for _, opt := range opts {
		opt(ta)
	}
	ta.ja = jwtauth.New(signingAlgorithm, secret, nil, jwxt.WithClock(ta.clock))
	return ta
}

// Issue signs a token for the user that expires after the configured TTL.
func (ta *TokenAuthority) Issue(username string, userID int64, role string) (string, error) {
	return ta.IssueWithTTL(username, userID, role, ta.ttl)
}

// IssueWithTTL is Issue with an explicit lifetime.
func (ta *TokenAuthority) IssueWithTTL(username string, userID int64, role string, ttl time.Duration) (string, error) {
	now := ta.clock.Now()
	claims := jwt.MapClaims{
		"sub":       username,
		claimUserID: userID,
		claimRole:   role,
		"jti":       uuid.NewString(),
	}
	jwtauth.SetIssuedAt(claims, now)
	jwtauth.SetExpiry(claims, now.Add(ttl))

	_, tokenString, err := ta.ja.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the token's signature and expiry and returns the principal it
// names. Every failure wraps common.ErrUnauthorized.
func (ta *TokenAuthority) Verify(tokenString string) (Principal, error) {
	if tokenString == "" {
		return Principal{}, fmt.Errorf("%w: %w", common.ErrUnauthorized, jwtauth.ErrNoTokenFound)
	}
	token, err := jwtauth.VerifyToken(ta.ja, tokenString)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}
	if token == nil {
		return Principal{}, fmt.Errorf("%w: %w", common.ErrUnauthorized, errors.New("empty token"))
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}
	principal, err := PrincipalFromClaims(claims)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: invalid token claims: %w", common.ErrUnauthorized, err)
	}
	return principal, nil
}
