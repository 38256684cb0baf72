package goOrg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goOrg/store"
)

func TestLoginIssuesToken(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	mustCreateAccount(t, engine, "alice", "alice@example.com", store.RoleStandard)

	token, acct, err := engine.Login(ctx, "alice@example.com", "password-123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if acct.Email != "alice@example.com" {
		t.Fatalf("unexpected account: %+v", acct)
	}

	claims, err := engine.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate issued token: %v", err)
	}
	if claims.Email != "alice@example.com" || claims.Role != "standard" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if engine.Metrics().Value(MetricLoginSuccess) != 1 {
		t.Fatal("login success counter not bumped")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	mustCreateAccount(t, engine, "alice", "alice@example.com", store.RoleStandard)

	if _, _, err := engine.Login(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := engine.Login(ctx, "nobody@example.com", "password-123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if engine.Metrics().Value(MetricLoginFailure) != 2 {
		t.Fatal("login failure counter not bumped")
	}
}

func TestAuthenticateRenewsExpiredToken(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	expired := expiredTestToken(t, "alice@example.com", "standard")

	claims, err := engine.Authenticate(ctx, expired)
	if err != nil {
		t.Fatalf("expected transparent renewal, got %v", err)
	}
	if claims.Email != "alice@example.com" || claims.Role != "standard" {
		t.Fatalf("renewed claims lost identity: %+v", claims)
	}
	if !claims.ExpiresAt.Time.After(time.Now()) {
		t.Fatalf("renewed expiry not in the future: %v", claims.ExpiresAt.Time)
	}
	if engine.Metrics().Value(MetricTokenRenewed) != 1 {
		t.Fatal("renewal counter not bumped")
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Authenticate(ctx, "not-a-token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if engine.Metrics().Value(MetricAuthRejected) != 1 {
		t.Fatal("rejection counter not bumped")
	}
}

func TestAuthorizeRoleNeverRenews(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	// Same token Authenticate would renew.
	expired := expiredTestToken(t, "alice@example.com", "elevated")

	_, err := engine.AuthorizeRole(ctx, expired, store.RoleElevated)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthorizeRoleChecks(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	token := signedTestToken(t, "alice@example.com", "standard",
		time.Now(), time.Now().Add(time.Hour))

	if _, err := engine.AuthorizeRole(ctx, token, store.RoleElevated); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if engine.Metrics().Value(MetricRoleDenied) != 1 {
		t.Fatal("role denial counter not bumped")
	}

	claims, err := engine.AuthorizeRole(ctx, token, store.RoleElevated, store.RoleStandard)
	if err != nil {
		t.Fatalf("expected role match, got %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
