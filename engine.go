package hiveauth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine defines a public type used by hiveauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// An Engine orchestrates one account's authentication state: the in-progress
// login session, the device-trust lifecycle, and the cached token set with
// transparent refresh. All methods are safe for concurrent use.
type Engine struct {
	config   Config
	provider IdentityProvider
	srp      SRP

	// sessionMu is held for the full duration of a challenge round, since
	// each round depends on the continuation token of the previous one.
	sessionMu sync.Mutex
	session   *loginSession

	// deviceMu guards the tag transitions of the account-device union.
	// confirmMu additionally serializes whole confirmation protocols, so
	// the network half of ConfirmDevice never runs twice concurrently.
	deviceMu  sync.Mutex
	device    accountDevice
	confirmMu sync.Mutex

	// tokenMu guards the read-check-refresh-replace sequence. Holding it
	// across the refresh round trip is what collapses N concurrent
	// "needs refresh" callers into one provider call.
	tokenMu sync.Mutex
	tokens  *TokenSet

	audit   *auditDispatcher
	metrics *Metrics
}

// loginSession is the mutable pair tracking one multi-step challenge
// exchange. username starts as the caller-supplied identity and is
// overwritten with the provider-returned USER_ID_FOR_SRP after the password
// round; continuation is replaced after every round.
type loginSession struct {
	creds        Credentials
	username     string
	continuation string
}

// Close describes the close operation and its observable behavior.
//
// Close flushes and stops the audit dispatcher. It does not touch
// authentication state; a closed engine can still serve ValidTokens.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot returns a point-in-time copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, username, deviceKey string, failure error, metadata map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Username:  username,
		DeviceKey: deviceKey,
		Success:   success,
		Metadata:  metadata,
	}
	if failure != nil {
		event.Error = failure.Error()
	}

	e.audit.Emit(ctx, event)
}

// TrustedDevice returns the trusted device currently on file, if any.
// Callers persist it to skip multi-factor challenges on future logins.
func (e *Engine) TrustedDevice() (TrustedDevice, bool) {
	e.deviceMu.Lock()
	defer e.deviceMu.Unlock()

	if e.device.state != deviceTrusted {
		return TrustedDevice{}, false
	}
	return e.device.trusted, true
}

// trustedDeviceKey returns the device key to attach to auth parameters, or
// "" when no trusted device is on file.
func (e *Engine) trustedDeviceKey() string {
	e.deviceMu.Lock()
	defer e.deviceMu.Unlock()

	if e.device.state != deviceTrusted {
		return ""
	}
	return e.device.trusted.DeviceKey
}

func (e *Engine) deviceSnapshot() accountDevice {
	e.deviceMu.Lock()
	defer e.deviceMu.Unlock()
	return e.device
}

func (e *Engine) setUntrustedDevice(d UntrustedDevice) {
	e.deviceMu.Lock()
	defer e.deviceMu.Unlock()
	e.device = accountDevice{state: deviceUntrusted, untrusted: d}
}

func (e *Engine) setTrustedDevice(d TrustedDevice) {
	e.deviceMu.Lock()
	defer e.deviceMu.Unlock()
	e.device = accountDevice{state: deviceTrusted, trusted: d}
}

// ForgetDevice downgrades the device on file, trusted or not, back to
// absent. Downgrade is never automatic; this is the explicit caller action.
func (e *Engine) ForgetDevice() {
	e.deviceMu.Lock()
	defer e.deviceMu.Unlock()
	e.device = accountDevice{}
}
