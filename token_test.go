package hiveauth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestTokenSetClaims(t *testing.T) {
	tokens := &TokenSet{
		IDToken: signedIDToken(t, jwt.MapClaims{
			"sub":   "abc-123",
			"email": "user@example.com",
		}),
	}

	claims, err := tokens.Claims()
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	if claims["email"] != "user@example.com" {
		t.Fatalf("email claim = %v, want user@example.com", claims["email"])
	}

	sub, err := tokens.Subject()
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	if sub != "abc-123" {
		t.Fatalf("subject = %q, want abc-123", sub)
	}
}

func TestTokenSetClaimsWithoutIDToken(t *testing.T) {
	tokens := &TokenSet{AccessToken: "access-1"}

	if _, err := tokens.Claims(); !errors.Is(err, errNoIDToken) {
		t.Fatalf("expected errNoIDToken, got %v", err)
	}
	if _, err := (*TokenSet)(nil).Claims(); !errors.Is(err, errNoIDToken) {
		t.Fatalf("expected errNoIDToken on nil set, got %v", err)
	}
}

func TestTokenSetClaimsMalformed(t *testing.T) {
	tokens := &TokenSet{IDToken: "not-a-jwt"}

	if _, err := tokens.Claims(); err == nil {
		t.Fatal("expected parse error for a malformed token")
	}
}

func TestTokenSetExpired(t *testing.T) {
	now := time.Now()
	live := &TokenSet{ExpiresAt: now.Add(time.Hour)}
	stale := &TokenSet{ExpiresAt: now.Add(-time.Second)}

	if live.Expired(now) {
		t.Fatal("live set reported expired")
	}
	if !stale.Expired(now) {
		t.Fatal("stale set reported live")
	}
	if !(*TokenSet)(nil).Expired(now) {
		t.Fatal("nil set reported live")
	}
}

func TestTokenSetAuthorization(t *testing.T) {
	tokens := &TokenSet{IDToken: "id-1", AccessToken: "access-1"}

	if got := tokens.Authorization(); got != "id-1" {
		t.Fatalf("authorization = %q, want the raw id token", got)
	}
	if got := (*TokenSet)(nil).Authorization(); got != "" {
		t.Fatalf("authorization on nil set = %q, want empty", got)
	}
}
