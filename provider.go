package hiveauth

import "context"

// AuthFlow names an authentication flow understood by the identity provider.
type AuthFlow string

const (
	// FlowUserSRPAuth is an exported constant or variable used by the authentication engine.
	FlowUserSRPAuth AuthFlow = "USER_SRP_AUTH"
	// FlowRefreshTokenAuth is an exported constant or variable used by the authentication engine.
	FlowRefreshTokenAuth AuthFlow = "REFRESH_TOKEN_AUTH"
)

// Challenge and auth parameter names dictated by the identity provider.
// These are fixed strings and must be matched exactly.
const (
	paramUsername                 = "USERNAME"
	paramSRPA                     = "SRP_A"
	paramSRPB                     = "SRP_B"
	paramSalt                     = "SALT"
	paramSecretBlock              = "SECRET_BLOCK"
	paramUserIDForSRP             = "USER_ID_FOR_SRP"
	paramDeviceKey                = "DEVICE_KEY"
	paramRefreshToken             = "REFRESH_TOKEN"
	paramSMSMFACode               = "SMS_MFA_CODE"
	paramPasswordClaimSecretBlock = "PASSWORD_CLAIM_SECRET_BLOCK"
	paramPasswordClaimSignature   = "PASSWORD_CLAIM_SIGNATURE"
	paramTimestamp                = "TIMESTAMP"
)

// AuthResult is the completed payload of a terminal authentication response.
type AuthResult struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int32

	// NewDevice is populated when the provider issued new-device metadata
	// alongside the tokens. It is nil on refresh flows and on logins from
	// a device the provider already tracks.
	NewDevice *NewDeviceMetadata
}

// NewDeviceMetadata identifies a device the provider has just issued for
// this client instance.
type NewDeviceMetadata struct {
	DeviceGroupKey string
	DeviceKey      string
}

// AuthOutcome is the shape shared by initiate-auth and challenge responses:
// either a named challenge with its parameters and a continuation session,
// or a terminal Result.
type AuthOutcome struct {
	ChallengeName       string
	ChallengeParameters map[string]string

	// Session is the opaque continuation token tying together the rounds
	// of one multi-step exchange. Empty on terminal responses.
	Session string

	Result *AuthResult
}

// ConfirmDeviceRequest carries the device confirmation parameters submitted
// after a new device identity has been issued.
type ConfirmDeviceRequest struct {
	DeviceKey        string
	DeviceName       string
	PasswordVerifier string
	Salt             string
	AccessToken      string
}

// IdentityProvider is the RPC capability the engine consumes to talk to the
// remote identity service. Implementations own the wire protocol, the client
// ID, and any transport-level timeout policy; the engine imposes none.
//
// The cognito subpackage provides the production implementation.
type IdentityProvider interface {
	// InitiateAuth starts an authentication flow.
	InitiateAuth(ctx context.Context, flow AuthFlow, params map[string]string) (*AuthOutcome, error)

	// RespondToChallenge answers the named challenge, passing the
	// continuation session from the previous round.
	RespondToChallenge(ctx context.Context, name string, responses map[string]string, session string) (*AuthOutcome, error)

	// ConfirmDevice submits a device password verifier. The returned bool
	// reports whether the provider requires an explicit follow-up status
	// update before the device counts as remembered.
	ConfirmDevice(ctx context.Context, req ConfirmDeviceRequest) (bool, error)

	// UpdateDeviceStatus marks the device as remembered.
	UpdateDeviceStatus(ctx context.Context, deviceKey, accessToken string) error

	// GlobalSignOut invalidates the user's tokens server-side. This
	// revokes tokens for every device of the user, not just this client.
	GlobalSignOut(ctx context.Context, accessToken string) error
}
