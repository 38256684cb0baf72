package goOrg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goOrg/store"
)

// Membership is a bidirectional relation: an account lists its group
// ids and a group lists its member account ids. Every mutation below
// updates both sides in one atomic store write, account record first.

// AddMember links the named account to the group. The edge must not
// already exist on either side.
func (e *Engine) AddMember(ctx context.Context, groupID, accountName string) (*store.Group, error) {
	acct, err := e.store.FindAccountByName(ctx, accountName)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	grp, err := e.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if acct.HasGroup(grp.ID) || grp.HasUser(acct.ID) {
		e.metrics.Inc(MetricMembershipRejected)
		e.emitAudit(ctx, auditMembershipRejected, AuditEvent{
			AccountID: acct.ID, GroupID: grp.ID, Error: "already a member",
		})
		return nil, ErrAlreadyMember
	}

	now := time.Now().UTC()
	acct.AddGroup(grp.ID)
	grp.AddUser(acct.ID)
	acct.UpdatedAt = now
	grp.UpdatedAt = now

	if err := e.saveEdge(ctx, acct, grp); err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricMemberAdded)
	e.emitAudit(ctx, auditMemberAdded, AuditEvent{AccountID: acct.ID, GroupID: grp.ID, Success: true})
	return grp, nil
}

// RemoveMember unlinks the account from the group. The edge must exist
// on at least one side; a half-edge left by a divergent write is
// repaired by removing whichever side still holds it.
func (e *Engine) RemoveMember(ctx context.Context, groupID, accountID string) (*store.Group, error) {
	grp, err := e.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	acct, err := e.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !grp.HasUser(acct.ID) && !acct.HasGroup(grp.ID) {
		e.metrics.Inc(MetricMembershipRejected)
		e.emitAudit(ctx, auditMembershipRejected, AuditEvent{
			AccountID: acct.ID, GroupID: grp.ID, Error: "not a member",
		})
		return nil, ErrNotMember
	}

	now := time.Now().UTC()
	acct.RemoveGroup(grp.ID)
	grp.RemoveUser(acct.ID)
	acct.UpdatedAt = now
	grp.UpdatedAt = now

	if err := e.saveEdge(ctx, acct, grp); err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricMemberRemoved)
	e.emitAudit(ctx, auditMemberRemoved, AuditEvent{AccountID: acct.ID, GroupID: grp.ID, Success: true})
	return grp, nil
}

// AddGroupsToAccount links the account to every given group in one
// atomic write. If any group id is unknown the whole operation fails
// and nothing changes. Groups the account already belongs to are left
// as they are; the rest are added on both sides.
func (e *Engine) AddGroupsToAccount(ctx context.Context, accountID string, groupIDs []string) (*store.Account, error) {
	acct, err := e.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	groups := make([]*store.Group, 0, len(groupIDs))
	seen := make(map[string]bool, len(groupIDs))
	for _, id := range groupIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		grp, err := e.GetGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, grp)
	}

	now := time.Now().UTC()
	changed := make([]*store.Group, 0, len(groups))
	for _, grp := range groups {
		added := false
		if !acct.HasGroup(grp.ID) {
			acct.AddGroup(grp.ID)
			added = true
		}
		if !grp.HasUser(acct.ID) {
			grp.AddUser(acct.ID)
			added = true
		}
		if added {
			grp.UpdatedAt = now
			changed = append(changed, grp)
		}
	}

	if len(changed) == 0 {
		return acct, nil
	}
	acct.UpdatedAt = now

	if err := e.saveEdge(ctx, acct, changed...); err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricGroupsBulkAssigned)
	e.emitAudit(ctx, auditGroupsBulkAssigned, AuditEvent{
		AccountID: acct.ID, Success: true,
		Metadata: map[string]string{"groups": fmt.Sprintf("%d", len(changed))},
	})
	return acct, nil
}

// GroupsByAccountName resolves the account by name and returns every
// group whose member list contains it. The group side of the relation
// is authoritative for this read. An empty result is not an error.
func (e *Engine) GroupsByAccountName(ctx context.Context, accountName string) ([]*store.Group, error) {
	acct, err := e.store.FindAccountByName(ctx, accountName)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	groups, err := e.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*store.Group, 0, len(acct.Groups))
	for _, grp := range groups {
		if grp.HasUser(acct.ID) {
			out = append(out, grp)
		}
	}
	return out, nil
}

// AccountsByGroupName resolves the group by name and fetches its member
// accounts. Dangling ids left by account deletion are skipped. An empty
// result is not an error.
func (e *Engine) AccountsByGroupName(ctx context.Context, groupName string) ([]*store.Account, error) {
	grp, err := e.store.FindGroupByName(ctx, groupName)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	accounts, err := e.store.GetAccounts(ctx, grp.Users)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return accounts, nil
}

// saveEdge persists both sides of a membership change atomically.
func (e *Engine) saveEdge(ctx context.Context, acct *store.Account, groups ...*store.Group) error {
	err := e.store.SaveAccountAndGroups(ctx, acct, groups...)
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrRecordVanished) {
		// a record was deleted between read and write; nothing was saved
		return fmt.Errorf("%w: %v", ErrGroupNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
