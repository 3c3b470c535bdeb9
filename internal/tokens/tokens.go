package tokens

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "type" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrInvalidToken indicates the token failed validation. Decoding never
// returns anything more specific; callers treat every failure uniformly.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims minted and verified by the codec. The tenant
// claim is the only cryptographically-backed binding between a credential and
// a tenant and must be corroborated against the resolved tenant on every
// protected request.
type Claims struct {
	Tenant    string `json:"tenant"`
	Scope     string `json:"scope,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Config holds signing material and lifetimes. Access and refresh tokens use
// distinct keys so compromise of one cannot forge the other.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Codec issues and verifies signed, expiring access and refresh tokens.
type Codec struct {
	cfg Config
	now func() time.Time
}

// Option configures optional Codec behavior.
type Option func(*Codec)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(c *Codec) {
		if fn != nil {
			c.now = fn
		}
	}
}

// NewCodec builds a Codec from an immutable config snapshot.
func NewCodec(cfg Config, opts ...Option) *Codec {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 30 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	c := &Codec{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IssueAccess mints a short-lived access token for the given subject and
// tenant slug.
func (c *Codec) IssueAccess(sub, tenantSlug, scope string) (string, time.Time, error) {
	return c.issue(TypeAccess, sub, tenantSlug, scope, c.cfg.AccessTTL, c.cfg.AccessSecret)
}

// IssueRefresh mints a long-lived refresh token. The jti is always set so the
// token can be tracked for revocation and rotation.
func (c *Codec) IssueRefresh(sub, tenantSlug, scope string) (string, time.Time, error) {
	return c.issue(TypeRefresh, sub, tenantSlug, scope, c.cfg.RefreshTTL, c.cfg.RefreshSecret)
}

func (c *Codec) issue(tokenType, sub, tenantSlug, scope string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := c.now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Tenant:    tenantSlug,
		Scope:     scope,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.cfg.Issuer,
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// DecodeAccess verifies signature, expiry and type of an access token. Any
// failure yields ErrInvalidToken.
func (c *Codec) DecodeAccess(token string) (*Claims, error) {
	claims, err := c.decode(token, c.cfg.AccessSecret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeRefresh verifies a refresh token, additionally requiring a jti.
func (c *Codec) DecodeRefresh(token string) (*Claims, error) {
	claims, err := c.decode(token, c.cfg.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TypeRefresh {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.ID) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) decode(token string, secret []byte) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.Tenant) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
