package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goOrg "github.com/MrEthical07/goOrg"
	"github.com/MrEthical07/goOrg/jwt"
	"github.com/MrEthical07/goOrg/store"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestEngine(t *testing.T) *goOrg.Engine {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := goOrg.Config{}
	cfg.JWT.SigningSecret = testSecret
	cfg.JWT.TokenTTL = time.Hour
	cfg.Store.RedisPrefix = "og"
	cfg.Password = goOrg.PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}

	engine, err := goOrg.New().WithConfig(cfg).WithRedis(rdb).Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	return engine
}

func makeToken(t *testing.T, email, role string, iat, exp time.Time) string {
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
	require.NoError(t, err)
	return token
}

func validToken(t *testing.T, role string) string {
	return makeToken(t, "alice@example.com", role, time.Now(), time.Now().Add(time.Hour))
}

func expiredToken(t *testing.T, role string) string {
	return makeToken(t, "alice@example.com", role, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
}

func runGuard(t *testing.T, engine *goOrg.Engine, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	called := false
	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := ClaimsFromContext(r.Context())
		assert.True(t, ok, "claims missing from context")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, called
}

func bodyMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func TestGuardMissingToken(t *testing.T) {
	engine := newTestEngine(t)

	rec, called := runGuard(t, engine, "")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized", bodyMessage(t, rec))
}

func TestGuardValidToken(t *testing.T) {
	engine := newTestEngine(t)

	rec, called := runGuard(t, engine, "Bearer "+validToken(t, "standard"))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardRenewsExpiredToken(t *testing.T) {
	engine := newTestEngine(t)

	rec, called := runGuard(t, engine, "Bearer "+expiredToken(t, "standard"))
	assert.True(t, called, "expired token should be renewed, not rejected")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(1), engine.Metrics().Value(goOrg.MetricTokenRenewed))
}

func TestGuardGarbageTokenIsServerError(t *testing.T) {
	engine := newTestEngine(t)

	rec, called := runGuard(t, engine, "Bearer not-a-token")
	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func runRequireRole(t *testing.T, engine *goOrg.Engine, authHeader string, roles ...store.Role) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	called := false
	handler := RequireRole(engine, roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, called
}

func TestRequireRoleMissingToken(t *testing.T) {
	engine := newTestEngine(t)

	rec, called := runRequireRole(t, engine, "", store.RoleElevated)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not logged in", bodyMessage(t, rec))
}

func TestRequireRoleExpiredTokenNotRenewed(t *testing.T) {
	engine := newTestEngine(t)

	// Guard renews this token; the role gate must not.
	rec, called := runRequireRole(t, engine, "Bearer "+expiredToken(t, "elevated"), store.RoleElevated)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleWrongRole(t *testing.T) {
	engine := newTestEngine(t)

	rec, called := runRequireRole(t, engine, "Bearer "+validToken(t, "standard"), store.RoleElevated)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, ForbiddenMessage, bodyMessage(t, rec))
}

func TestRequireRoleAllowed(t *testing.T) {
	engine := newTestEngine(t)

	rec, called := runRequireRole(t, engine, "Bearer "+validToken(t, "elevated"), store.RoleElevated)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
