// Package hiveauth provides a challenge-response authentication engine for the
// Hive home-automation platform, which fronts its identity service with an AWS
// Cognito user pool using the Secure Remote Password (SRP) protocol.
//
// The package is designed for concurrent client workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// hiveauth is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (TokenSet, TrustedDevice, LoginResult, etc.). The engine
// orchestrates the challenge flow; it does not implement the SRP arithmetic
// itself, nor the identity provider's wire protocol. Those are consumed
// through the [SRP] and [IdentityProvider] interfaces. The cognito subpackage
// supplies an IdentityProvider backed by the AWS SDK.
//
// # What this package must NOT do
//
//   - Expose provider SDK types, internal session state, or SRP internals in
//     its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Retry provider calls internally. Recovery, including prompting for an
//     SMS code and calling back in through [Engine.RespondToChallenge], is
//     entirely caller-driven.
//
// # Concurrency contract
//
// ValidTokens is the hot path. Concurrent callers that find the cached token
// set expired serialize behind one in-flight refresh; the engine never issues
// redundant refresh round trips. One challenge round is in flight at a time
// per engine instance, since each round depends on the continuation token
// produced by the previous one.
package hiveauth
