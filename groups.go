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

// CreateGroup persists a new, empty group. The name must be unused.
func (e *Engine) CreateGroup(ctx context.Context, name string) (*store.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrGroupInvalid)
	}

	now := time.Now().UTC()
	grp := &store.Group{
		ID:        uuid.NewString(),
		Name:      name,
		Users:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.store.CreateGroup(ctx, grp); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return nil, ErrGroupExists
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metrics.Inc(MetricGroupCreated)
	e.emitAudit(ctx, auditGroupCreated, AuditEvent{GroupID: grp.ID, Success: true})
	return grp, nil
}

// GetGroup fetches a group by id.
func (e *Engine) GetGroup(ctx context.Context, id string) (*store.Group, error) {
	grp, err := e.store.GetGroup(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return grp, nil
}

// ListGroups fetches every group.
func (e *Engine) ListGroups(ctx context.Context) ([]*store.Group, error) {
	groups, err := e.store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return groups, nil
}

// RenameGroup changes the group name. Member lists are never updated
// here; they move only through the membership operations.
func (e *Engine) RenameGroup(ctx context.Context, id, name string) (*store.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrGroupInvalid)
	}

	grp, err := e.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	prevName := grp.Name
	grp.Name = name
	grp.UpdatedAt = time.Now().UTC()

	if err := e.store.UpdateGroup(ctx, grp, prevName); err != nil {
		if isNotFound(err) {
			return nil, ErrGroupNotFound
		}
		if errors.Is(err, store.ErrDuplicateName) {
			return nil, ErrGroupExists
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.emitAudit(ctx, auditGroupUpdated, AuditEvent{GroupID: grp.ID, Success: true})
	return grp, nil
}

// DeleteGroup removes the group record and its name index. Accounts
// that still list the group keep a dangling id; reads skip dangling ids
// and RemoveMember repairs half-edges.
func (e *Engine) DeleteGroup(ctx context.Context, id string) error {
	grp, err := e.GetGroup(ctx, id)
	if err != nil {
		return err
	}

	if err := e.store.DeleteGroup(ctx, grp); err != nil {
		if isNotFound(err) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metrics.Inc(MetricGroupDeleted)
	e.emitAudit(ctx, auditGroupDeleted, AuditEvent{GroupID: grp.ID, Success: true})
	return nil
}
