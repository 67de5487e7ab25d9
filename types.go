package hiveauth

import "time"

// Credentials carries the username and password supplied by the caller for
// one login attempt. The username is the email address the Hive account was
// registered with.
//
// Credentials are immutable for the duration of the attempt; the identity
// the provider elects to track mid-flow is recorded in the login session,
// never written back here.
type Credentials struct {
	Username string
	Password string
}

// UntrustedDevice is a device identity issued by the identity provider after
// a fresh login. It is not yet usable for trust-based shortcuts; it must be
// confirmed through [Engine.ConfirmDevice] first.
type UntrustedDevice struct {
	DeviceGroupKey string
	DeviceKey      string
}

// TrustedDevice is a confirmed device identity holding the long-lived device
// secret generated during confirmation. Presenting it on future logins skips
// multi-factor challenges, and its key authorizes silent token refresh.
//
// Callers are expected to persist the three fields themselves and hand them
// back via [Builder.WithTrustedDevice] on the next run; the engine keeps
// device state in memory only.
type TrustedDevice struct {
	DeviceGroupKey string
	DeviceKey      string
	DevicePassword string
}

// ChallengeKind names a round of the authentication protocol. The values are
// the provider's challenge vocabulary and must be matched exactly.
type ChallengeKind string

const (
	// ChallengePasswordVerifier is the user password-proof round. Handled
	// transparently by the engine.
	ChallengePasswordVerifier ChallengeKind = "PASSWORD_VERIFIER"
	// ChallengeDeviceSRPAuth is the device-tracking proof round, applicable
	// only when a trusted device is on file. Handled transparently.
	ChallengeDeviceSRPAuth ChallengeKind = "DEVICE_SRP_AUTH"
	// ChallengeDevicePasswordVerifier is the device password-proof round.
	// Handled transparently.
	ChallengeDevicePasswordVerifier ChallengeKind = "DEVICE_PASSWORD_VERIFIER"
	// ChallengeSMSMFA requires a six-digit code delivered to the user's
	// phone. This is the only round requiring external input: the engine
	// suspends and the caller resumes it via [Engine.RespondToChallenge].
	ChallengeSMSMFA ChallengeKind = "SMS_MFA"
)

// ChallengeAnswer is the caller-supplied answer to a suspended challenge.
// Only [ChallengeSMSMFA] is answerable externally; Code carries the SMS code.
type ChallengeAnswer struct {
	Kind ChallengeKind
	Code string
}

// LoginResult is returned by [Engine.Login] and [Engine.RespondToChallenge].
// Exactly one of the two shapes is populated: a terminal result (Tokens set,
// optionally Device when a new device identity was confirmed during the
// flow), or a suspended challenge (ChallengeRequired true with Challenge
// naming the round awaiting caller input).
type LoginResult struct {
	Tokens *TokenSet
	Device *TrustedDevice

	ChallengeRequired bool
	Challenge         ChallengeKind
}

// TokenSet is the token triple authorizing calls to the Hive resource API,
// plus its expiry. Instances are immutable snapshots: a refresh produces a
// new TokenSet, it never mutates a cached one in place.
type TokenSet struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

func newTokenSet(idToken, accessToken, refreshToken string, expiresIn int32) *TokenSet {
	return &TokenSet{
		IDToken:      idToken,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
}

// Expired reports whether the set's expiry has passed at the given instant.
func (t *TokenSet) Expired(now time.Time) bool {
	return t == nil || t.ExpiresAt.Before(now)
}

// Authorization returns the value resource-API consumers stamp on the
// authorization header of outbound calls. The Hive API authenticates with
// the raw ID token, not a bearer-prefixed access token.
func (t *TokenSet) Authorization() string {
	if t == nil {
		return ""
	}
	return t.IDToken
}

// deviceState is the tag of the account-device union. Transitions are total:
// absent -> untrusted when the provider issues new-device metadata during
// login, untrusted -> trusted on confirmation, any -> absent on logout or
// ForgetDevice. A device is never both untrusted and trusted.
type deviceState uint8

const (
	deviceAbsent deviceState = iota
	deviceUntrusted
	deviceTrusted
)

type accountDevice struct {
	state     deviceState
	untrusted UntrustedDevice
	trusted   TrustedDevice
}
