package hiveauth

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoggedIn is an exported constant or variable used by the authentication engine.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrNoAuthenticationInProgress is an exported constant or variable used by the authentication engine.
	ErrNoAuthenticationInProgress = errors.New("no authentication in progress")
	// ErrRefreshFailed is an exported constant or variable used by the authentication engine.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrDeviceAlreadyTrusted is an exported constant or variable used by the authentication engine.
	ErrDeviceAlreadyTrusted = errors.New("device already trusted")
	// ErrDeviceConfirmationFailed is an exported constant or variable used by the authentication engine.
	ErrDeviceConfirmationFailed = errors.New("device confirmation failed")
	// ErrInvalidAuthResult is an exported constant or variable used by the authentication engine.
	ErrInvalidAuthResult = errors.New("authentication result missing required tokens")
)

// MissingChallengeParameterError reports a parameter absent from a
// challenge's parameter set. This is a protocol-contract violation by the
// remote side; the engine never defaults a missing parameter.
type MissingChallengeParameterError struct {
	Name string
}

func (e *MissingChallengeParameterError) Error() string {
	return fmt.Sprintf("challenge parameter %q missing from provider response", e.Name)
}

// UnsupportedChallengeError reports a challenge name the engine cannot
// answer, or a challenge sequence that exceeded the configured round cap.
type UnsupportedChallengeError struct {
	Name string
}

func (e *UnsupportedChallengeError) Error() string {
	return fmt.Sprintf("unsupported challenge %q", e.Name)
}

// ProviderError wraps a transport or service failure from the identity
// provider. The engine does not retry; retry policy, if any, belongs to the
// caller.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ProofError wraps a failure from the SRP capability, such as malformed
// server values that cannot be verified.
type ProofError struct {
	Err error
}

func (e *ProofError) Error() string {
	return fmt.Sprintf("srp proof computation failed: %v", e.Err)
}

func (e *ProofError) Unwrap() error {
	return e.Err
}
