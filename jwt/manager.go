package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by Verify when the token signature is
// sound but its expiry has passed.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned by Verify for every other verification
// failure: bad signature, malformed payload, wrong algorithm.
var ErrTokenInvalid = errors.New("token invalid")

// Config carries the signing material for a Manager. Instances are set
// once during initialization and then treated as immutable.
type Config struct {
	SigningSecret []byte
	TokenTTL      time.Duration
}

// Manager issues and verifies HS256 session tokens. Expiry is evaluated
// against the wall clock at each Verify call, never cached.
type Manager struct {
	config Config
}

// Claims is the session token payload: the account identity plus the
// registered issued-at and expiry claims.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// NewManager validates the config and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.SigningSecret) == 0 {
		return nil, errors.New("signing secret required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	return &Manager{config: cfg}, nil
}

// Issue signs a fresh token for the given identity. The issued-at and
// expiry claims are taken from the wall clock at call time.
func (m *Manager) Issue(email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.SigningSecret)
}

// Verify parses and validates a token. Expired tokens return
// ErrTokenExpired; all other failures return ErrTokenInvalid.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.SigningSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// DecodeUnverified extracts the claims without checking the signature or
// expiry. Used by the renewal path to recover the identity from an
// expired token; never trust the result for authorization on its own.
func (m *Manager) DecodeUnverified(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenStr, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
