package hiveauth

import (
	"context"
	"fmt"
	"time"
)

// ValidTokens describes the validtokens operation and its observable behavior.
//
// ValidTokens returns a token set that is valid at the time of the call,
// refreshing the cached one first if it has expired. It never returns an
// expired set. Refresh happens while the token guard is held, so concurrent
// callers that all observe an expired set serialize behind a single provider
// round trip rather than each issuing their own.
//
// ErrNotLoggedIn means no login has succeeded on this engine; ErrRefreshFailed
// means a refresh was attempted and failed. Callers must distinguish the two.
func (e *Engine) ValidTokens(ctx context.Context) (*TokenSet, error) {
	e.tokenMu.Lock()
	defer e.tokenMu.Unlock()

	if e.tokens == nil {
		return nil, ErrNotLoggedIn
	}

	if !e.tokens.Expired(time.Now()) {
		e.metricInc(MetricTokenCacheHit)
		return e.tokens, nil
	}

	refreshed, err := e.refreshLocked(ctx, e.tokens)
	if err != nil {
		return nil, err
	}
	e.tokens = refreshed

	return refreshed, nil
}

// RefreshNow describes the refreshnow operation and its observable behavior.
//
// RefreshNow forces a refresh of the cached token set regardless of expiry
// and replaces the cache with the result.
func (e *Engine) RefreshNow(ctx context.Context) (*TokenSet, error) {
	e.tokenMu.Lock()
	defer e.tokenMu.Unlock()

	if e.tokens == nil {
		return nil, ErrNotLoggedIn
	}

	refreshed, err := e.refreshLocked(ctx, e.tokens)
	if err != nil {
		return nil, err
	}
	e.tokens = refreshed

	return refreshed, nil
}

// refreshLocked performs one refresh round trip. The refresh token is
// carried forward unchanged; the provider does not rotate it on this flow.
//
// Caller must hold tokenMu.
func (e *Engine) refreshLocked(ctx context.Context, current *TokenSet) (*TokenSet, error) {
	params := map[string]string{
		paramRefreshToken: current.RefreshToken,
	}
	if deviceKey := e.trustedDeviceKey(); deviceKey != "" {
		params[paramDeviceKey] = deviceKey
	}

	out, err := e.provider.InitiateAuth(ctx, FlowRefreshTokenAuth, params)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefresh, false, "", "", err, nil)
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	res := out.Result
	if res == nil || res.IDToken == "" || res.AccessToken == "" {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefresh, false, "", "", ErrInvalidAuthResult, nil)
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, ErrInvalidAuthResult)
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefresh, true, "", "", nil, nil)

	return newTokenSet(res.IDToken, res.AccessToken, current.RefreshToken, res.ExpiresIn), nil
}

func (e *Engine) storeTokens(tokens *TokenSet) {
	e.tokenMu.Lock()
	defer e.tokenMu.Unlock()
	e.tokens = tokens
}

// Logout describes the logout operation and its observable behavior.
//
// Logout drops the cached session, device reference, and token set. It is
// local-only: the refresh token is deliberately not invalidated server-side,
// because the only server-side primitive available invalidates tokens for
// every device of the user. Use [Engine.SignOutEverywhere] for that.
func (e *Engine) Logout(ctx context.Context) {
	e.sessionMu.Lock()
	e.session = nil
	e.sessionMu.Unlock()

	e.ForgetDevice()

	e.tokenMu.Lock()
	e.tokens = nil
	e.tokenMu.Unlock()

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, "", "", nil, nil)
}

// SignOutEverywhere describes the signouteverywhere operation and its observable behavior.
//
// SignOutEverywhere asks the provider to invalidate the user's tokens
// server-side and then clears local state. The invalidation applies to every
// device of the user, not just this client; prefer [Engine.Logout] unless
// that collateral scope is intended.
func (e *Engine) SignOutEverywhere(ctx context.Context) error {
	e.tokenMu.Lock()
	tokens := e.tokens
	e.tokenMu.Unlock()

	if tokens == nil {
		return ErrNotLoggedIn
	}

	if err := e.provider.GlobalSignOut(ctx, tokens.AccessToken); err != nil {
		e.emitAudit(ctx, auditEventGlobalSignOut, false, "", "", err, nil)
		return &ProviderError{Op: "global_sign_out", Err: err}
	}

	e.metricInc(MetricGlobalSignOut)
	e.emitAudit(ctx, auditEventGlobalSignOut, true, "", "", nil, nil)

	e.Logout(ctx)

	return nil
}
