package hiveauth

import "sync/atomic"

// MetricID defines a public type used by hiveauth APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported constant or variable used by the authentication engine.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the authentication engine.
	MetricLoginFailure
	// MetricChallengeRound is an exported constant or variable used by the authentication engine.
	MetricChallengeRound
	// MetricChallengeSuspended is an exported constant or variable used by the authentication engine.
	MetricChallengeSuspended
	// MetricTokenCacheHit is an exported constant or variable used by the authentication engine.
	MetricTokenCacheHit
	// MetricRefreshSuccess is an exported constant or variable used by the authentication engine.
	MetricRefreshSuccess
	// MetricRefreshFailure is an exported constant or variable used by the authentication engine.
	MetricRefreshFailure
	// MetricDeviceConfirmSuccess is an exported constant or variable used by the authentication engine.
	MetricDeviceConfirmSuccess
	// MetricDeviceConfirmFailure is an exported constant or variable used by the authentication engine.
	MetricDeviceConfirmFailure
	// MetricLogout is an exported constant or variable used by the authentication engine.
	MetricLogout
	// MetricGlobalSignOut is an exported constant or variable used by the authentication engine.
	MetricGlobalSignOut

	metricIDCount
)

// paddedCounter keeps each counter on its own cache line to avoid false
// sharing between hot counters.
type paddedCounter struct {
	value uint64
	_     [56]byte
}

// Metrics defines a public type used by hiveauth APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot defines a public type used by hiveauth APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
	}
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
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters: map[MetricID]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, int(metricIDCount)),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	return s
}
