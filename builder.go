package hiveauth

import "errors"

// Builder defines a public type used by hiveauth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config   Config
	provider IdentityProvider
	srp      SRP

	trustedDevice *TrustedDevice
	auditSink     AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New returns a Builder primed with the default configuration. Construction
// is allocation-only; no I/O happens until Engine methods are called.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithProvider describes the withprovider operation and its observable behavior.
//
// WithProvider supplies the identity provider client the engine will drive.
func (b *Builder) WithProvider(p IdentityProvider) *Builder {
	b.provider = p
	return b
}

// WithSRP describes the withsrp operation and its observable behavior.
//
// WithSRP supplies the SRP capability used to compute proofs and verifiers.
func (b *Builder) WithSRP(s SRP) *Builder {
	b.srp = s
	return b
}

// WithTrustedDevice describes the withtrusteddevice operation and its observable behavior.
//
// WithTrustedDevice seeds the engine with a device confirmed in a previous
// run, letting logins skip multi-factor challenges.
func (b *Builder) WithTrustedDevice(d TrustedDevice) *Builder {
	b.trustedDevice = &d
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithDeviceName describes the withdevicename operation and its observable behavior.
func (b *Builder) WithDeviceName(name string) *Builder {
	b.config.DeviceName = name
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build validates the configuration and assembles the Engine. A builder is
// single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.provider == nil {
		return nil, errors.New("identity provider is required")
	}
	if b.srp == nil {
		return nil, errors.New("srp capability is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	engine := &Engine{
		config:   b.config,
		provider: b.provider,
		srp:      b.srp,
		audit:    newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics:  NewMetrics(b.config.Metrics),
	}
	if b.trustedDevice != nil {
		engine.device = accountDevice{state: deviceTrusted, trusted: *b.trustedDevice}
	}

	b.built = true

	return engine, nil
}
