package hiveauth

import "errors"

// Hive fronts its identity service with a fixed Cognito user pool. The IDs
// below are published in the source of the Hive SSO web portal
// (window.HiveSSOCognitoClientId and window.HiveSSOPoolId) and are the
// defaults used by the cognito subpackage and any SRP implementation.
const (
	// DefaultClientID is an exported constant or variable used by the authentication engine.
	DefaultClientID = "3rl4i0ajrmtdm8sbre54p9dvd9"
	// DefaultPoolID is an exported constant or variable used by the authentication engine.
	DefaultPoolID = "eu-west-1_SamNfoWtf"
	// DefaultRegion is an exported constant or variable used by the authentication engine.
	DefaultRegion = "eu-west-1"
)

// Config defines a public type used by hiveauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// DeviceName is the friendly name shown on the account's trusted-device
	// page when this client is confirmed. Defaulted to a generated name
	// when empty.
	DeviceName string

	// AutoConfirmDevice promotes a freshly issued device identity to
	// trusted as soon as a login flow reaches terminal success. When
	// disabled the identity stays untrusted until the caller invokes
	// ConfirmDevice.
	AutoConfirmDevice bool

	// MaxChallengeRounds caps the number of challenge rounds the engine
	// will answer in one flow before failing with UnsupportedChallenge.
	// A misbehaving or spoofed provider must not be able to loop forever.
	MaxChallengeRounds int

	Audit   AuditConfig
	Metrics MetricsConfig
}

// AuditConfig defines a public type used by hiveauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by hiveauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		AutoConfirmDevice:  true,
		MaxChallengeRounds: 8,
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// Config holds no reference types today; a value copy is a deep copy.
	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.MaxChallengeRounds <= 0 {
		return errors.New("config: MaxChallengeRounds must be positive")
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize <= 0 {
		return errors.New("config: Audit.BufferSize must be positive when audit is enabled")
	}
	return nil
}
