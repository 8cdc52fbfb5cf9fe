package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrEmptySecret  = errors.New("jwt secret is empty")
)

// Identity is who a token speaks for.
type Identity struct {
	ID    string
	Email string
	Role  string
}

type Claims struct {
	UID   string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{ID: c.UID, Email: c.Email, Role: c.Role}
}

// TokenConfig is fixed at startup and copied into the JWTer.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Leeway time.Duration
}

type JWTer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewJWTer(cfg TokenConfig) (*JWTer, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrEmptySecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Leeway < 0 {
		cfg.Leeway = 0
	}
	cfg.Secret = append([]byte(nil), cfg.Secret...)
	return &JWTer{cfg: cfg, now: time.Now}, nil
}

func (j *JWTer) TTL() time.Duration { return j.cfg.TTL }

// Issue signs a token for id. Every token gets a fresh jti, so two tokens for
// the same identity never collide even within the same second.
func (j *JWTer) Issue(id Identity) (string, error) {
	now := j.now()
	claims := Claims{
		UID:   id.ID,
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.ID,
			Issuer:    j.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.cfg.Secret)
}

// Verify checks the signature and then expiry. Expired tokens fail with
// ErrTokenExpired, everything else with ErrTokenInvalid.
func (j *JWTer) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenInvalid
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithLeeway(j.cfg.Leeway),
		jwt.WithTimeFunc(j.now),
	}
	if j.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.cfg.Issuer))
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return j.cfg.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UID == "" {
		return nil, ErrTokenInvalid
	}
	return c, nil
}
