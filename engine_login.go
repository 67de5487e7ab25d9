package hiveauth

import (
	"context"
)

const (
	auditEventLogin              = "login"
	auditEventChallengeRound     = "challenge_round"
	auditEventChallengeSuspended = "challenge_suspended"
	auditEventDeviceConfirm      = "device_confirm"
	auditEventRefresh            = "token_refresh"
	auditEventLogout             = "logout"
	auditEventGlobalSignOut      = "global_sign_out"
)

// Login describes the login operation and its observable behavior.
//
// Login starts an authentication flow with the supplied credentials and
// drives it until a terminal result or a challenge requiring caller input.
// If a trusted device is on file its key is presented, which lets the
// provider skip multi-factor rounds.
//
// A terminal result is returned as LoginResult.Tokens (plus .Device when a
// new device identity was issued and auto-confirmed). A suspended challenge
// is returned with ChallengeRequired set; the caller resumes the flow via
// [Engine.RespondToChallenge]. Protocol failures surface as
// MissingChallengeParameterError, UnsupportedChallengeError, ProviderError,
// or ProofError; none are retried internally.
//
// Starting a new login while another is in progress abandons the previous
// session; the abandoned flow can no longer be resumed.
func (e *Engine) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	e.sessionMu.Lock()
	defer e.sessionMu.Unlock()

	publicValue, err := e.srp.UserPublicValue(creds)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return nil, &ProofError{Err: err}
	}

	params := map[string]string{
		paramUsername: creds.Username,
		paramSRPA:     publicValue,
	}
	if deviceKey := e.trustedDeviceKey(); deviceKey != "" {
		params[paramDeviceKey] = deviceKey
	}

	out, err := e.provider.InitiateAuth(ctx, FlowUserSRPAuth, params)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLogin, false, creds.Username, "", err, nil)
		return nil, &ProviderError{Op: "initiate_auth", Err: err}
	}

	// Replaces any abandoned session outright; only one login flow exists
	// per engine instance.
	e.session = &loginSession{
		creds:        creds,
		username:     creds.Username,
		continuation: out.Session,
	}

	return e.runChallengeLoop(ctx, out)
}

// RespondToChallenge describes the respondtochallenge operation and its observable behavior.
//
// RespondToChallenge resumes a login flow suspended on a challenge that
// required caller input. Only [ChallengeSMSMFA] is answerable externally;
// any other kind fails with UnsupportedChallengeError. Calling this with no
// flow in progress fails with ErrNoAuthenticationInProgress.
func (e *Engine) RespondToChallenge(ctx context.Context, answer ChallengeAnswer) (*LoginResult, error) {
	e.sessionMu.Lock()
	defer e.sessionMu.Unlock()

	if e.session == nil {
		return nil, ErrNoAuthenticationInProgress
	}

	if answer.Kind != ChallengeSMSMFA {
		return nil, &UnsupportedChallengeError{Name: string(answer.Kind)}
	}

	out, err := e.answerSMSCode(ctx, answer.Code)
	if err != nil {
		return nil, err
	}
	e.session.continuation = out.Session

	return e.runChallengeLoop(ctx, out)
}

// ConfirmSMSCode describes the confirmsmscode operation and its observable behavior.
//
// ConfirmSMSCode is shorthand for RespondToChallenge with an SMS answer.
func (e *Engine) ConfirmSMSCode(ctx context.Context, code string) (*LoginResult, error) {
	return e.RespondToChallenge(ctx, ChallengeAnswer{Kind: ChallengeSMSMFA, Code: code})
}

// runChallengeLoop sequences challenge rounds until terminal success, a
// round requiring caller input, or failure. The round counter caps the
// provider-driven recursion of the original protocol; a provider that keeps
// issuing challenges past the cap is treated as unsupported.
//
// Caller must hold sessionMu.
func (e *Engine) runChallengeLoop(ctx context.Context, out *AuthOutcome) (*LoginResult, error) {
	for round := 0; ; round++ {
		if round >= e.config.MaxChallengeRounds {
			e.metricInc(MetricLoginFailure)
			e.clearSessionLocked()
			return nil, &UnsupportedChallengeError{Name: out.ChallengeName}
		}

		var err error

		switch ChallengeKind(out.ChallengeName) {
		case ChallengeKind(""):
			return e.finishLogin(ctx, out)

		case ChallengePasswordVerifier:
			out, err = e.answerPasswordVerifier(ctx, out.ChallengeParameters)

		case ChallengeDeviceSRPAuth:
			out, err = e.answerDeviceSRPAuth(ctx)

		case ChallengeDevicePasswordVerifier:
			out, err = e.answerDevicePasswordVerifier(ctx, out.ChallengeParameters)

		case ChallengeSMSMFA:
			e.metricInc(MetricChallengeSuspended)
			e.emitAudit(ctx, auditEventChallengeSuspended, true, e.session.username, "", nil, map[string]string{
				"challenge": string(ChallengeSMSMFA),
			})
			return &LoginResult{ChallengeRequired: true, Challenge: ChallengeSMSMFA}, nil

		default:
			e.metricInc(MetricLoginFailure)
			e.clearSessionLocked()
			return nil, &UnsupportedChallengeError{Name: out.ChallengeName}
		}

		if err != nil {
			e.metricInc(MetricLoginFailure)
			return nil, err
		}

		e.metricInc(MetricChallengeRound)
		e.session.continuation = out.Session
	}
}

// finishLogin handles a terminal response: caches the token set, records any
// new device identity, and optionally auto-confirms it.
//
// Caller must hold sessionMu.
func (e *Engine) finishLogin(ctx context.Context, out *AuthOutcome) (*LoginResult, error) {
	res := out.Result
	if res == nil || res.IDToken == "" || res.AccessToken == "" || res.RefreshToken == "" {
		e.metricInc(MetricLoginFailure)
		return nil, ErrInvalidAuthResult
	}

	tokens := newTokenSet(res.IDToken, res.AccessToken, res.RefreshToken, res.ExpiresIn)
	e.storeTokens(tokens)

	username := e.session.username
	e.clearSessionLocked()

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLogin, true, username, "", nil, nil)

	result := &LoginResult{Tokens: tokens}

	if res.NewDevice != nil {
		untrusted := UntrustedDevice{
			DeviceGroupKey: res.NewDevice.DeviceGroupKey,
			DeviceKey:      res.NewDevice.DeviceKey,
		}
		e.setUntrustedDevice(untrusted)

		if e.config.AutoConfirmDevice {
			trusted, err := e.confirmUntrusted(ctx, e.config.DeviceName, untrusted, tokens)
			if err != nil {
				// The login itself succeeded and the tokens stay
				// cached; only the trust upgrade failed.
				return nil, err
			}
			e.setTrustedDevice(trusted)
			result.Device = &trusted
		}
	}

	return result, nil
}

// clearSessionLocked discards the in-progress session. Caller must hold
// sessionMu.
func (e *Engine) clearSessionLocked() {
	e.session = nil
}
