package chatclient

import "sync/atomic"

// MetricID defines a public type used by chatclient APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported constant or variable used by the chat client.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the chat client.
	MetricLoginFailure
	// MetricRefreshSuccess is an exported constant or variable used by the chat client.
	MetricRefreshSuccess
	// MetricRefreshFailure is an exported constant or variable used by the chat client.
	MetricRefreshFailure
	// MetricRefreshShared is an exported constant or variable used by the chat client.
	MetricRefreshShared
	// MetricReplayIssued is an exported constant or variable used by the chat client.
	MetricReplayIssued
	// MetricUnauthorizedBroadcast is an exported constant or variable used by the chat client.
	MetricUnauthorizedBroadcast
	// MetricResetRequest is an exported constant or variable used by the chat client.
	MetricResetRequest
	// MetricResetVerify is an exported constant or variable used by the chat client.
	MetricResetVerify
	// MetricResetConfirmSuccess is an exported constant or variable used by the chat client.
	MetricResetConfirmSuccess
	// MetricResetConfirmFailure is an exported constant or variable used by the chat client.
	MetricResetConfirmFailure
	// MetricAskSuccess is an exported constant or variable used by the chat client.
	MetricAskSuccess
	// MetricAskFailure is an exported constant or variable used by the chat client.
	MetricAskFailure
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by chatclient APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot defines a public type used by chatclient APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled describes the enabled operation and its observable behavior.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc describes the inc operation and its observable behavior.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value describes the value operation and its observable behavior.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot describes the snapshot operation and its observable behavior.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.Value(id)
	}
	return snap
}
