package goOrg

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected logins.
	MetricLoginFailure
	// MetricTokenIssued counts tokens issued at login.
	MetricTokenIssued
	// MetricTokenRenewed counts expired tokens replaced by the renewal path.
	MetricTokenRenewed
	// MetricAuthRejected counts requests rejected during authentication.
	MetricAuthRejected
	// MetricRoleDenied counts requests rejected by the role gate.
	MetricRoleDenied
	// MetricAccountCreated counts account creations.
	MetricAccountCreated
	// MetricAccountDeleted counts account deletions.
	MetricAccountDeleted
	// MetricGroupCreated counts group creations.
	MetricGroupCreated
	// MetricGroupDeleted counts group deletions.
	MetricGroupDeleted
	// MetricMemberAdded counts membership edges added.
	MetricMemberAdded
	// MetricMemberRemoved counts membership edges removed.
	MetricMemberRemoved
	// MetricMembershipRejected counts membership operations refused for
	// duplicate or missing edges.
	MetricMembershipRejected
	// MetricGroupsBulkAssigned counts bulk group assignments that wrote
	// at least one new edge.
	MetricGroupsBulkAssigned
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds in-process counters. All methods are nil-safe and safe
// for concurrent use.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc bumps the counter. No-op when metrics are disabled.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters at once.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, int(metricIDCount)),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
