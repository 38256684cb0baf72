package goOrg

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goOrg/jwt"
	"github.com/MrEthical07/goOrg/password"
	"github.com/MrEthical07/goOrg/store"
)

// Engine is the accounts-and-groups core. Construct one with the
// Builder; all methods are safe for concurrent use.
type Engine struct {
	config  Config
	store   *store.Store
	tokens  *jwt.Manager
	hasher  *password.Argon2
	audit   *auditDispatcher
	metrics *Metrics
}

// Metrics exposes the engine counters.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// AuditDropped reports audit events discarded under backpressure.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	e.audit.Close()
}

// Login checks the credentials and issues a session token. The token
// carries the account email and role with issued-at and expiry claims.
func (e *Engine) Login(ctx context.Context, email, pass string) (string, *store.Account, error) {
	acct, err := e.store.FindAccountByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			e.metrics.Inc(MetricLoginFailure)
			e.emitAudit(ctx, auditLoginFailure, AuditEvent{Email: email, Error: "unknown email"})
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if acct.DeletedAt != nil {
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, auditLoginFailure, AuditEvent{AccountID: acct.ID, Error: "account deleted"})
		return "", nil, ErrInvalidCredentials
	}

	ok, err := e.hasher.Verify(pass, acct.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, auditLoginFailure, AuditEvent{AccountID: acct.ID, Error: "password mismatch"})
		return "", nil, ErrInvalidCredentials
	}

	token, err := e.tokens.Issue(acct.Email, string(acct.Role))
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.metrics.Inc(MetricTokenIssued)
	e.emitAudit(ctx, auditLoginSuccess, AuditEvent{AccountID: acct.ID, Success: true})
	return token, acct, nil
}

// Authenticate verifies a session token and returns its claims. An
// expired token with a sound signature is renewed transparently: the
// request proceeds under a fresh token, which is not handed back to the
// caller. Any other verification failure returns ErrTokenInvalid.
func (e *Engine) Authenticate(ctx context.Context, tokenStr string) (*jwt.Claims, error) {
	claims, err := e.tokens.Verify(tokenStr)
	if err == nil {
		return claims, nil
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		decoded, decErr := e.tokens.DecodeUnverified(tokenStr)
		if decErr != nil {
			e.metrics.Inc(MetricAuthRejected)
			e.emitAudit(ctx, auditAuthRejected, AuditEvent{Error: decErr.Error()})
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, decErr)
		}

		renewed, issueErr := e.tokens.Issue(decoded.Email, decoded.Role)
		if issueErr != nil {
			return nil, fmt.Errorf("renew token: %w", issueErr)
		}
		fresh, verifyErr := e.tokens.Verify(renewed)
		if verifyErr != nil {
			return nil, fmt.Errorf("renew token: %w", verifyErr)
		}

		e.metrics.Inc(MetricTokenRenewed)
		e.emitAudit(ctx, auditTokenRenewed, AuditEvent{Email: decoded.Email, Success: true})
		return fresh, nil
	}

	e.metrics.Inc(MetricAuthRejected)
	e.emitAudit(ctx, auditAuthRejected, AuditEvent{Error: err.Error()})
	return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
}

// AuthorizeRole verifies the token independently and checks its role
// claim against the allowed set. Unlike Authenticate it never renews:
// an expired or otherwise invalid token fails with ErrUnauthorized, a
// valid token with the wrong role fails with ErrForbidden.
func (e *Engine) AuthorizeRole(ctx context.Context, tokenStr string, roles ...store.Role) (*jwt.Claims, error) {
	claims, err := e.tokens.Verify(tokenStr)
	if err != nil {
		e.metrics.Inc(MetricAuthRejected)
		e.emitAudit(ctx, auditAuthRejected, AuditEvent{Error: err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	for _, role := range roles {
		if claims.Role == string(role) {
			return claims, nil
		}
	}

	e.metrics.Inc(MetricRoleDenied)
	e.emitAudit(ctx, auditRoleDenied, AuditEvent{Email: claims.Email, Error: "role " + claims.Role})
	return nil, ErrForbidden
}

// isNotFound reports whether a store error means the record is absent
// rather than the store being unreachable.
func isNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
