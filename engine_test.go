package hiveauth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSRP returns deterministic proof material so tests can assert the exact
// challenge responses the engine submits.
type fakeSRP struct {
	userPublicErr error
	userProofErr  error
}

func (f *fakeSRP) UserPublicValue(c Credentials) (string, error) {
	if f.userPublicErr != nil {
		return "", f.userPublicErr
	}
	return "srp-a-user", nil
}

func (f *fakeSRP) UserProof(c Credentials, ch ProofChallenge) (Proof, error) {
	if f.userProofErr != nil {
		return Proof{}, f.userProofErr
	}
	return Proof{
		SecretBlock: ch.SecretBlock,
		Signature:   "user-signature-" + ch.UserID,
		Timestamp:   "Mon Jan 2 15:04:05 UTC 2006",
	}, nil
}

func (f *fakeSRP) DevicePublicValue(d TrustedDevice, username string) (string, error) {
	return "srp-a-device", nil
}

func (f *fakeSRP) DeviceProof(d TrustedDevice, username string, ch ProofChallenge) (Proof, error) {
	return Proof{
		SecretBlock: ch.SecretBlock,
		Signature:   "device-signature-" + d.DeviceKey,
		Timestamp:   "Mon Jan 2 15:04:05 UTC 2006",
	}, nil
}

func (f *fakeSRP) DeviceVerifier(d UntrustedDevice) (DeviceVerifier, error) {
	return DeviceVerifier{
		Verifier: "device-verifier",
		Salt:     "device-salt",
		Password: "generated-device-secret",
	}, nil
}

// fakeProvider scripts identity provider responses and counts round trips.
type fakeProvider struct {
	mu            sync.Mutex
	initiateCalls int
	refreshCalls  int
	respondCalls  []string
	confirmCalls  int
	statusCalls   int
	signOutCalls  int

	initiateFn   func(flow AuthFlow, params map[string]string) (*AuthOutcome, error)
	respondFn    func(name string, responses map[string]string, session string) (*AuthOutcome, error)
	confirmFn    func(req ConfirmDeviceRequest) (bool, error)
	statusErr    error
	signOutErr   error
	refreshDelay time.Duration
}

func (p *fakeProvider) InitiateAuth(ctx context.Context, flow AuthFlow, params map[string]string) (*AuthOutcome, error) {
	p.mu.Lock()
	p.initiateCalls++
	if flow == FlowRefreshTokenAuth {
		p.refreshCalls++
	}
	fn := p.initiateFn
	delay := p.refreshDelay
	p.mu.Unlock()

	if delay > 0 && flow == FlowRefreshTokenAuth {
		time.Sleep(delay)
	}
	if fn == nil {
		return nil, errors.New("fakeProvider: unexpected InitiateAuth")
	}
	return fn(flow, params)
}

func (p *fakeProvider) RespondToChallenge(ctx context.Context, name string, responses map[string]string, session string) (*AuthOutcome, error) {
	p.mu.Lock()
	p.respondCalls = append(p.respondCalls, name)
	fn := p.respondFn
	p.mu.Unlock()

	if fn == nil {
		return nil, errors.New("fakeProvider: unexpected RespondToChallenge")
	}
	return fn(name, responses, session)
}

func (p *fakeProvider) ConfirmDevice(ctx context.Context, req ConfirmDeviceRequest) (bool, error) {
	p.mu.Lock()
	p.confirmCalls++
	fn := p.confirmFn
	p.mu.Unlock()

	if fn == nil {
		return false, nil
	}
	return fn(req)
}

func (p *fakeProvider) UpdateDeviceStatus(ctx context.Context, deviceKey, accessToken string) error {
	p.mu.Lock()
	p.statusCalls++
	err := p.statusErr
	p.mu.Unlock()
	return err
}

func (p *fakeProvider) GlobalSignOut(ctx context.Context, accessToken string) error {
	p.mu.Lock()
	p.signOutCalls++
	err := p.signOutErr
	p.mu.Unlock()
	return err
}

func (p *fakeProvider) refreshCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshCalls
}

func terminalOutcome(idToken, accessToken, refreshToken string, expiresIn int32, device *NewDeviceMetadata) *AuthOutcome {
	return &AuthOutcome{
		Result: &AuthResult{
			IDToken:      idToken,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    expiresIn,
			NewDevice:    device,
		},
	}
}

func challengeOutcome(name ChallengeKind, session string, params map[string]string) *AuthOutcome {
	return &AuthOutcome{
		ChallengeName:       string(name),
		ChallengeParameters: params,
		Session:             session,
	}
}

func newTestEngine(t *testing.T, p *fakeProvider) *Engine {
	t.Helper()

	engine, err := New().
		WithProvider(p).
		WithSRP(&fakeSRP{}).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func newTestEngineWithConfig(t *testing.T, p *fakeProvider, cfg Config) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithProvider(p).
		WithSRP(&fakeSRP{}).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

// loginDirect drives a login that terminates without challenges, seeding the
// engine's token cache.
func loginDirect(t *testing.T, engine *Engine, p *fakeProvider, expiresIn int32, device *NewDeviceMetadata) *LoginResult {
	t.Helper()

	p.mu.Lock()
	p.initiateFn = func(flow AuthFlow, params map[string]string) (*AuthOutcome, error) {
		if flow == FlowRefreshTokenAuth {
			return terminalOutcome("id-refreshed", "access-refreshed", "", 3600, nil), nil
		}
		return terminalOutcome("id-1", "access-1", "refresh-1", expiresIn, device), nil
	}
	p.mu.Unlock()

	result, err := engine.Login(context.Background(), Credentials{Username: "user@example.com", Password: "hunter2"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return result
}
