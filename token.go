package hiveauth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var errNoIDToken = errors.New("token set has no id token")

// Claims parses the ID token's claim set without verifying its signature.
// The engine is a client of the identity provider; signature verification is
// the provider's job, and the claims here are only for reading identity
// fields (sub, email) out of a token the provider itself issued over TLS.
func (t *TokenSet) Claims() (jwt.MapClaims, error) {
	if t == nil || t.IDToken == "" {
		return nil, errNoIDToken
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(t.IDToken, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// Subject returns the sub claim of the ID token, the provider's canonical
// user id. This is the same identity the provider returns as
// USER_ID_FOR_SRP during the password-proof round.
func (t *TokenSet) Subject() (string, error) {
	claims, err := t.Claims()
	if err != nil {
		return "", err
	}
	return claims.GetSubject()
}
