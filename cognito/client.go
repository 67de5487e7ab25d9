// Package cognito adapts the AWS Cognito Identity Provider API to the
// hiveauth.IdentityProvider interface. It owns the client ID and the wire
// protocol; the engine stays SDK-free.
package cognito

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/hiveclient/hiveauth"
)

// Options configures the adapter. The zero value targets the Hive user pool.
type Options struct {
	// Region of the user pool. Defaults to hiveauth.DefaultRegion.
	Region string

	// ClientID of the app client. Defaults to hiveauth.DefaultClientID.
	ClientID string
}

func (o Options) withDefaults() Options {
	if o.Region == "" {
		o.Region = hiveauth.DefaultRegion
	}
	if o.ClientID == "" {
		o.ClientID = hiveauth.DefaultClientID
	}
	return o
}

// Client implements hiveauth.IdentityProvider over the AWS SDK.
type Client struct {
	api      cognitoAPI
	clientID string
}

// cognitoAPI is the slice of the SDK client the adapter uses.
type cognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	RespondToAuthChallenge(ctx context.Context, params *cip.RespondToAuthChallengeInput, optFns ...func(*cip.Options)) (*cip.RespondToAuthChallengeOutput, error)
	ConfirmDevice(ctx context.Context, params *cip.ConfirmDeviceInput, optFns ...func(*cip.Options)) (*cip.ConfirmDeviceOutput, error)
	UpdateDeviceStatus(ctx context.Context, params *cip.UpdateDeviceStatusInput, optFns ...func(*cip.Options)) (*cip.UpdateDeviceStatusOutput, error)
	GlobalSignOut(ctx context.Context, params *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
}

// New loads the default AWS configuration for the pool's region and returns
// a ready adapter. The authentication flows used here are unauthenticated
// API calls; no AWS credentials are required.
func New(ctx context.Context, opts Options) (*Client, error) {
	opts = opts.withDefaults()

	// Every operation the engine drives authenticates with a user pool
	// token or runs unauthenticated; none needs SigV4 credentials.
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		api:      cip.NewFromConfig(cfg),
		clientID: opts.ClientID,
	}, nil
}

// NewFromAPI wraps an already constructed SDK client. Used by callers that
// need custom SDK middleware and by tests.
func NewFromAPI(api cognitoAPI, opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		api:      api,
		clientID: opts.ClientID,
	}
}

// InitiateAuth implements hiveauth.IdentityProvider.
func (c *Client) InitiateAuth(ctx context.Context, flow hiveauth.AuthFlow, params map[string]string) (*hiveauth.AuthOutcome, error) {
	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowType(flow),
		ClientId:       aws.String(c.clientID),
		AuthParameters: params,
	})
	if err != nil {
		return nil, err
	}

	return &hiveauth.AuthOutcome{
		ChallengeName:       string(out.ChallengeName),
		ChallengeParameters: out.ChallengeParameters,
		Session:             aws.ToString(out.Session),
		Result:              convertResult(out.AuthenticationResult),
	}, nil
}

// RespondToChallenge implements hiveauth.IdentityProvider.
func (c *Client) RespondToChallenge(ctx context.Context, name string, responses map[string]string, session string) (*hiveauth.AuthOutcome, error) {
	input := &cip.RespondToAuthChallengeInput{
		ChallengeName:      types.ChallengeNameType(name),
		ClientId:           aws.String(c.clientID),
		ChallengeResponses: responses,
	}
	if session != "" {
		input.Session = aws.String(session)
	}

	out, err := c.api.RespondToAuthChallenge(ctx, input)
	if err != nil {
		return nil, err
	}

	return &hiveauth.AuthOutcome{
		ChallengeName:       string(out.ChallengeName),
		ChallengeParameters: out.ChallengeParameters,
		Session:             aws.ToString(out.Session),
		Result:              convertResult(out.AuthenticationResult),
	}, nil
}

// ConfirmDevice implements hiveauth.IdentityProvider.
func (c *Client) ConfirmDevice(ctx context.Context, req hiveauth.ConfirmDeviceRequest) (bool, error) {
	out, err := c.api.ConfirmDevice(ctx, &cip.ConfirmDeviceInput{
		AccessToken: aws.String(req.AccessToken),
		DeviceKey:   aws.String(req.DeviceKey),
		DeviceName:  aws.String(req.DeviceName),
		DeviceSecretVerifierConfig: &types.DeviceSecretVerifierConfigType{
			PasswordVerifier: aws.String(req.PasswordVerifier),
			Salt:             aws.String(req.Salt),
		},
	})
	if err != nil {
		return false, err
	}

	return out.UserConfirmationNecessary, nil
}

// UpdateDeviceStatus implements hiveauth.IdentityProvider.
func (c *Client) UpdateDeviceStatus(ctx context.Context, deviceKey, accessToken string) error {
	_, err := c.api.UpdateDeviceStatus(ctx, &cip.UpdateDeviceStatusInput{
		AccessToken:            aws.String(accessToken),
		DeviceKey:              aws.String(deviceKey),
		DeviceRememberedStatus: types.DeviceRememberedStatusTypeRemembered,
	})
	return err
}

// GlobalSignOut implements hiveauth.IdentityProvider.
func (c *Client) GlobalSignOut(ctx context.Context, accessToken string) error {
	_, err := c.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	return err
}

func convertResult(result *types.AuthenticationResultType) *hiveauth.AuthResult {
	if result == nil {
		return nil
	}

	converted := &hiveauth.AuthResult{
		IDToken:      aws.ToString(result.IdToken),
		AccessToken:  aws.ToString(result.AccessToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
	}

	if meta := result.NewDeviceMetadata; meta != nil {
		converted.NewDevice = &hiveauth.NewDeviceMetadata{
			DeviceGroupKey: aws.ToString(meta.DeviceGroupKey),
			DeviceKey:      aws.ToString(meta.DeviceKey),
		}
	}

	return converted
}
