package goOrg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goOrg/store"
)

// CreateAccountInput carries the fields for a new account. Role
// defaults to RoleStandard when empty.
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
	Role     store.Role
}

// UpdateAccountInput carries optional account mutations. Nil fields are
// left unchanged. Group membership is never updated here; it moves only
// through the membership operations.
type UpdateAccountInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *store.Role
}

// CreateAccount validates the input, hashes the password and persists
// the account. The email must be unused.
func (e *Engine) CreateAccount(ctx context.Context, in CreateAccountInput) (*store.Account, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: name and valid email required", ErrAccountInvalid)
	}

	role := in.Role
	if role == "" {
		role = store.RoleStandard
	}
	if !role.Valid() {
		return nil, ErrAccountRoleInvalid
	}

	hash, err := e.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccountInvalid, err)
	}

	now := time.Now().UTC()
	acct := &store.Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Groups:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.store.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metrics.Inc(MetricAccountCreated)
	e.emitAudit(ctx, auditAccountCreated, AuditEvent{AccountID: acct.ID, Success: true})
	return acct, nil
}

// GetAccount fetches an account by id.
func (e *Engine) GetAccount(ctx context.Context, id string) (*store.Account, error) {
	acct, err := e.store.GetAccount(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return acct, nil
}

// ListAccounts fetches every account.
func (e *Engine) ListAccounts(ctx context.Context) ([]*store.Account, error) {
	accounts, err := e.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return accounts, nil
}

// UpdateAccount applies the non-nil fields of in to the account. A new
// password is re-hashed; a new email must be unused.
func (e *Engine) UpdateAccount(ctx context.Context, id string, in UpdateAccountInput) (*store.Account, error) {
	acct, err := e.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	prevEmail, prevName := acct.Email, acct.Name

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrAccountInvalid)
		}
		acct.Name = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: valid email required", ErrAccountInvalid)
		}
		acct.Email = email
	}
	if in.Password != nil {
		hash, err := e.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAccountInvalid, err)
		}
		acct.PasswordHash = hash
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, ErrAccountRoleInvalid
		}
		acct.Role = *in.Role
	}
	acct.UpdatedAt = time.Now().UTC()

	if err := e.store.UpdateAccount(ctx, acct, prevEmail, prevName); err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.emitAudit(ctx, auditAccountUpdated, AuditEvent{AccountID: acct.ID, Success: true})
	return acct, nil
}

// DeleteAccount removes the account record and its lookup indexes.
// Groups that still list the account keep a dangling id; reads skip
// dangling ids and RemoveMember repairs half-edges.
func (e *Engine) DeleteAccount(ctx context.Context, id string) error {
	acct, err := e.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	if err := e.store.DeleteAccount(ctx, acct); err != nil {
		if isNotFound(err) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metrics.Inc(MetricAccountDeleted)
	e.emitAudit(ctx, auditAccountDeleted, AuditEvent{AccountID: acct.ID, Success: true})
	return nil
}
