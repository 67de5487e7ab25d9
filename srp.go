package hiveauth

// ProofChallenge carries the server-issued parameters of one proof round.
// UserID is the provider-returned identity to prove against; it is unused
// for device proofs, where the identity is bound into the device credential.
type ProofChallenge struct {
	SecretBlock       string
	Salt              string
	ServerPublicValue string
	UserID            string
}

// Proof is a computed challenge answer: the echoed secret block, the
// password-claim signature, and the timestamp the signature covers.
type Proof struct {
	SecretBlock string
	Signature   string
	Timestamp   string
}

// DeviceVerifier is the password-verifier material derived for a device
// confirmation: the verifier value, its salt, and the freshly generated
// device secret the verifier commits to.
type DeviceVerifier struct {
	Verifier string
	Salt     string
	Password string
}

// SRP is the cryptographic capability the engine consumes. Implementations
// perform the Secure Remote Password arithmetic for two credential kinds,
// user (username and password) and device (group key and key, plus the
// device secret once trusted); the engine itself never sees a password
// proof's internals.
//
// Implementations must be safe for concurrent use; the engine may compute a
// refresh-path device proof while a login flow is in flight.
type SRP interface {
	// UserPublicValue returns the ephemeral public value (SRP_A) for a
	// user credential.
	UserPublicValue(c Credentials) (string, error)

	// UserProof answers a password-proof challenge for a user credential.
	UserProof(c Credentials, ch ProofChallenge) (Proof, error)

	// DevicePublicValue returns the ephemeral public value for a trusted
	// device credential.
	DevicePublicValue(d TrustedDevice, username string) (string, error)

	// DeviceProof answers a device password-proof challenge for a trusted
	// device credential.
	DeviceProof(d TrustedDevice, username string, ch ProofChallenge) (Proof, error)

	// DeviceVerifier derives confirmation material for an untrusted
	// device, generating the device secret in the process.
	DeviceVerifier(d UntrustedDevice) (DeviceVerifier, error)
}
