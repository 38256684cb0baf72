package goOrg

import (
	"context"
	"time"
)

const (
	auditLoginSuccess       = "login_success"
	auditLoginFailure       = "login_failure"
	auditTokenRenewed       = "token_renewed"
	auditAuthRejected       = "auth_rejected"
	auditRoleDenied         = "role_denied"
	auditAccountCreated     = "account_created"
	auditAccountUpdated     = "account_updated"
	auditAccountDeleted     = "account_deleted"
	auditGroupCreated       = "group_created"
	auditGroupUpdated       = "group_updated"
	auditGroupDeleted       = "group_deleted"
	auditMemberAdded        = "member_added"
	auditMemberRemoved      = "member_removed"
	auditMembershipRejected = "membership_rejected"
	auditGroupsBulkAssigned = "groups_bulk_assigned"
)

func (e *Engine) emitAudit(ctx context.Context, eventType string, event AuditEvent) {
	if e.audit == nil {
		return
	}
	event.EventType = eventType
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	e.audit.Emit(ctx, event)
}
