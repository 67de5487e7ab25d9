package hiveauth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ConfirmDevice describes the confirmdevice operation and its observable behavior.
//
// ConfirmDevice promotes the untrusted device identity issued by the last
// login to a trusted device, generating its long-lived secret in the
// process. deviceName is the friendly name shown on the account's
// trusted-device page; when empty, Config.DeviceName or a generated name is
// used.
//
// Confirming when the device on file is already trusted fails with
// ErrDeviceAlreadyTrusted rather than silently re-confirming, since
// re-confirmation would invalidate the previously stored secret. Confirming
// with no device identity on file fails with ErrNotLoggedIn.
func (e *Engine) ConfirmDevice(ctx context.Context, deviceName string) (*TrustedDevice, error) {
	e.confirmMu.Lock()
	defer e.confirmMu.Unlock()

	device := e.deviceSnapshot()
	switch device.state {
	case deviceTrusted:
		return nil, ErrDeviceAlreadyTrusted
	case deviceAbsent:
		return nil, ErrNotLoggedIn
	}

	tokens, err := e.ValidTokens(ctx)
	if err != nil {
		return nil, err
	}

	trusted, err := e.confirmUntrusted(ctx, deviceName, device.untrusted, tokens)
	if err != nil {
		return nil, err
	}
	e.setTrustedDevice(trusted)

	return &trusted, nil
}

// confirmUntrusted runs the confirmation protocol: derive a device password
// verifier, submit it, and issue the follow-up status update when the
// provider reports the confirmation needs one.
func (e *Engine) confirmUntrusted(ctx context.Context, deviceName string, device UntrustedDevice, tokens *TokenSet) (TrustedDevice, error) {
	if deviceName == "" {
		deviceName = e.config.DeviceName
	}
	if deviceName == "" {
		deviceName = "hiveauth-" + uuid.NewString()[:8]
	}

	verifier, err := e.srp.DeviceVerifier(device)
	if err != nil {
		e.metricInc(MetricDeviceConfirmFailure)
		return TrustedDevice{}, &ProofError{Err: err}
	}

	confirmationNecessary, err := e.provider.ConfirmDevice(ctx, ConfirmDeviceRequest{
		DeviceKey:        device.DeviceKey,
		DeviceName:       deviceName,
		PasswordVerifier: verifier.Verifier,
		Salt:             verifier.Salt,
		AccessToken:      tokens.AccessToken,
	})
	if err != nil {
		e.metricInc(MetricDeviceConfirmFailure)
		e.emitAudit(ctx, auditEventDeviceConfirm, false, "", device.DeviceKey, err, nil)
		return TrustedDevice{}, fmt.Errorf("%w: %w", ErrDeviceConfirmationFailed, err)
	}

	if confirmationNecessary {
		// The pool does not finish the confirmation on its own; it has
		// to be prompted to record the device as remembered.
		if err := e.provider.UpdateDeviceStatus(ctx, device.DeviceKey, tokens.AccessToken); err != nil {
			e.metricInc(MetricDeviceConfirmFailure)
			e.emitAudit(ctx, auditEventDeviceConfirm, false, "", device.DeviceKey, err, nil)
			return TrustedDevice{}, fmt.Errorf("%w: %w", ErrDeviceConfirmationFailed, err)
		}
	}

	e.metricInc(MetricDeviceConfirmSuccess)
	e.emitAudit(ctx, auditEventDeviceConfirm, true, "", device.DeviceKey, nil, map[string]string{
		"device_name": deviceName,
	})

	return TrustedDevice{
		DeviceGroupKey: device.DeviceGroupKey,
		DeviceKey:      device.DeviceKey,
		DevicePassword: verifier.Password,
	}, nil
}
