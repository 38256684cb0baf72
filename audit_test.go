package goOrg

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goOrg/store"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

type captureSink struct {
	events chan AuditEvent
}

func newCaptureSink(buffer int) *captureSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &captureSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *captureSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func auditTestConfig() Config {
	cfg := testEngineConfig()
	cfg.Audit = AuditConfig{
		Enabled:    true,
		BufferSize: 64,
		DropIfFull: false,
	}
	return cfg
}

func waitForEvent(t *testing.T, sink *captureSink, eventType string) AuditEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-sink.events:
			if event.EventType == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("no %s event within deadline", eventType)
		}
	}
}

func TestAuditLoginEvents(t *testing.T) {
	sink := newCaptureSink(64)
	engine := buildTestEngine(t, auditTestConfig(), sink)
	ctx := context.Background()
	acct := mustCreateAccount(t, engine, "alice", "alice@example.com", store.RoleStandard)

	if _, _, err := engine.Login(ctx, "alice@example.com", "password-123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	event := waitForEvent(t, sink, auditLoginSuccess)
	if event.AccountID != acct.ID || !event.Success {
		t.Fatalf("unexpected event: %+v", event)
	}

	if _, _, err := engine.Login(ctx, "alice@example.com", "wrong-password"); err == nil {
		t.Fatal("expected login failure")
	}
	event = waitForEvent(t, sink, auditLoginFailure)
	if event.Success || event.Error == "" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestAuditMembershipEvents(t *testing.T) {
	sink := newCaptureSink(64)
	engine := buildTestEngine(t, auditTestConfig(), sink)
	ctx := context.Background()
	acct := mustCreateAccount(t, engine, "alice", "alice@example.com", store.RoleStandard)
	grp := mustCreateGroup(t, engine, "staff")

	if _, err := engine.AddMember(ctx, grp.ID, "alice"); err != nil {
		t.Fatalf("add member: %v", err)
	}
	event := waitForEvent(t, sink, auditMemberAdded)
	if event.AccountID != acct.ID || event.GroupID != grp.ID {
		t.Fatalf("unexpected event: %+v", event)
	}

	if _, err := engine.AddMember(ctx, grp.ID, "alice"); err == nil {
		t.Fatal("expected duplicate edge rejection")
	}
	event = waitForEvent(t, sink, auditMembershipRejected)
	if event.Error == "" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestAuditRenewalEvent(t *testing.T) {
	sink := newCaptureSink(64)
	engine := buildTestEngine(t, auditTestConfig(), sink)
	ctx := context.Background()

	if _, err := engine.Authenticate(ctx, expiredTestToken(t, "alice@example.com", "standard")); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	event := waitForEvent(t, sink, auditTokenRenewed)
	if event.Email != "alice@example.com" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestAuditCloseDrainsBuffer(t *testing.T) {
	sink := &countingSink{}
	engine := buildTestEngine(t, auditTestConfig(), sink)
	ctx := context.Background()

	const n = 10
	for i := 0; i < n; i++ {
		engine.emitAudit(ctx, auditAccountCreated, AuditEvent{Success: true})
	}
	engine.Close()

	if got := sink.count.Load(); got != n {
		t.Fatalf("expected %d events after close, got %d", n, got)
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	// no dispatcher when audit is disabled
	engine.emitAudit(ctx, auditAccountCreated, AuditEvent{})
	if engine.AuditDropped() != 0 {
		t.Fatal("disabled audit reported drops")
	}
}

func TestAuditDropIfFull(t *testing.T) {
	cfg := auditTestConfig()
	cfg.Audit.BufferSize = 1
	cfg.Audit.DropIfFull = true

	// a sink that never returns keeps the buffer full
	gate := make(chan struct{})
	defer close(gate)
	engine := buildTestEngine(t, cfg, blockingSink{gate: gate})
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		engine.emitAudit(ctx, auditAccountCreated, AuditEvent{})
	}
	if engine.AuditDropped() == 0 {
		t.Fatal("expected dropped events under backpressure")
	}
}

type blockingSink struct {
	gate chan struct{}
}

func (s blockingSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}
