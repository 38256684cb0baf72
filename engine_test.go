package goOrg

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goOrg/jwt"
	"github.com/MrEthical07/goOrg/store"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func testEngineConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.SigningSecret = testSecret
	// fast hashing for tests
	cfg.Password = PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
	return cfg
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return buildTestEngine(t, testEngineConfig(), nil)
}

func buildTestEngine(t *testing.T, cfg Config, sink AuditSink) *Engine {
	t.Helper()

	builder := New().WithConfig(cfg).WithRedis(newTestRedis(t))
	if sink != nil {
		builder = builder.WithAuditSink(sink)
	}
	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func mustCreateAccount(t *testing.T, e *Engine, name, email string, role store.Role) *store.Account {
	t.Helper()
	acct, err := e.CreateAccount(context.Background(), CreateAccountInput{
		Name:     name,
		Email:    email,
		Password: "password-123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create account %s: %v", name, err)
	}
	return acct
}

func mustCreateGroup(t *testing.T, e *Engine, name string) *store.Group {
	t.Helper()
	grp, err := e.CreateGroup(context.Background(), name)
	if err != nil {
		t.Fatalf("create group %s: %v", name, err)
	}
	return grp
}

// signedTestToken builds a token outside the engine so tests can set
// the expiry freely.
func signedTestToken(t *testing.T, email, role string, iat, exp time.Time) string {
	t.Helper()
	claims := jwt.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(iat),
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func expiredTestToken(t *testing.T, email, role string) string {
	return signedTestToken(t, email, role, time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour))
}
