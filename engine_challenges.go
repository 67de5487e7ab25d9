package hiveauth

import "context"

// requireParam fetches a named challenge parameter. A missing parameter is a
// protocol-contract violation from the remote side and is never defaulted.
func requireParam(params map[string]string, name string) (string, error) {
	value, ok := params[name]
	if !ok || value == "" {
		return "", &MissingChallengeParameterError{Name: name}
	}
	return value, nil
}

// answerPasswordVerifier computes and submits the user password proof.
//
// Caller must hold sessionMu.
func (e *Engine) answerPasswordVerifier(ctx context.Context, params map[string]string) (*AuthOutcome, error) {
	secretBlock, err := requireParam(params, paramSecretBlock)
	if err != nil {
		return nil, err
	}
	userID, err := requireParam(params, paramUserIDForSRP)
	if err != nil {
		return nil, err
	}

	// The provider-returned user id must replace the caller-supplied
	// username for the remainder of the session. Authentication succeeds
	// either way, but device confirmation fails silently with an invalid
	// device key if the original username is used from here on.
	e.session.username = userID

	salt, err := requireParam(params, paramSalt)
	if err != nil {
		return nil, err
	}
	serverPublic, err := requireParam(params, paramSRPB)
	if err != nil {
		return nil, err
	}

	proof, err := e.srp.UserProof(e.session.creds, ProofChallenge{
		SecretBlock:       secretBlock,
		Salt:              salt,
		ServerPublicValue: serverPublic,
		UserID:            userID,
	})
	if err != nil {
		return nil, &ProofError{Err: err}
	}

	responses := map[string]string{
		paramUsername:                 userID,
		paramPasswordClaimSecretBlock: proof.SecretBlock,
		paramPasswordClaimSignature:   proof.Signature,
		paramTimestamp:                proof.Timestamp,
	}
	if deviceKey := e.trustedDeviceKey(); deviceKey != "" {
		responses[paramDeviceKey] = deviceKey
	}

	return e.respond(ctx, ChallengePasswordVerifier, responses)
}

// answerDeviceSRPAuth computes and submits the device ephemeral public
// value. Only applicable when a trusted device is on file.
//
// Caller must hold sessionMu.
func (e *Engine) answerDeviceSRPAuth(ctx context.Context) (*AuthOutcome, error) {
	device := e.deviceSnapshot()
	if device.state != deviceTrusted {
		return nil, ErrNoAuthenticationInProgress
	}

	publicValue, err := e.srp.DevicePublicValue(device.trusted, e.session.username)
	if err != nil {
		return nil, &ProofError{Err: err}
	}

	return e.respond(ctx, ChallengeDeviceSRPAuth, map[string]string{
		paramUsername:  e.session.username,
		paramSRPA:      publicValue,
		paramDeviceKey: device.trusted.DeviceKey,
	})
}

// answerDevicePasswordVerifier mirrors the user password proof, using the
// device secret in place of the user's password.
//
// Caller must hold sessionMu.
func (e *Engine) answerDevicePasswordVerifier(ctx context.Context, params map[string]string) (*AuthOutcome, error) {
	device := e.deviceSnapshot()
	if device.state != deviceTrusted {
		return nil, ErrNoAuthenticationInProgress
	}

	serverPublic, err := requireParam(params, paramSRPB)
	if err != nil {
		return nil, err
	}
	salt, err := requireParam(params, paramSalt)
	if err != nil {
		return nil, err
	}
	secretBlock, err := requireParam(params, paramSecretBlock)
	if err != nil {
		return nil, err
	}

	proof, err := e.srp.DeviceProof(device.trusted, e.session.username, ProofChallenge{
		SecretBlock:       secretBlock,
		Salt:              salt,
		ServerPublicValue: serverPublic,
	})
	if err != nil {
		return nil, &ProofError{Err: err}
	}

	return e.respond(ctx, ChallengeDevicePasswordVerifier, map[string]string{
		paramUsername:                 e.session.username,
		paramPasswordClaimSecretBlock: proof.SecretBlock,
		paramPasswordClaimSignature:   proof.Signature,
		paramTimestamp:                proof.Timestamp,
		paramDeviceKey:                device.trusted.DeviceKey,
	})
}

// answerSMSCode submits a caller-supplied SMS MFA code.
//
// Caller must hold sessionMu.
func (e *Engine) answerSMSCode(ctx context.Context, code string) (*AuthOutcome, error) {
	responses := map[string]string{
		paramSMSMFACode: code,
		paramUsername:   e.session.username,
	}
	if deviceKey := e.trustedDeviceKey(); deviceKey != "" {
		responses[paramDeviceKey] = deviceKey
	}

	return e.respond(ctx, ChallengeSMSMFA, responses)
}

// respond sends one challenge answer through the provider, passing the
// session continuation token from the previous round.
//
// Caller must hold sessionMu.
func (e *Engine) respond(ctx context.Context, kind ChallengeKind, responses map[string]string) (*AuthOutcome, error) {
	out, err := e.provider.RespondToChallenge(ctx, string(kind), responses, e.session.continuation)
	if err != nil {
		e.emitAudit(ctx, auditEventChallengeRound, false, e.session.username, "", err, map[string]string{
			"challenge": string(kind),
		})
		return nil, &ProviderError{Op: "respond_to_auth_challenge", Err: err}
	}

	e.emitAudit(ctx, auditEventChallengeRound, true, e.session.username, "", nil, map[string]string{
		"challenge": string(kind),
	})

	return out, nil
}
