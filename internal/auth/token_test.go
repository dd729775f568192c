package auth

import (
	"testing"
)

func TestGenerateAndParseToken(t *testing.T) {
	manager := NewTokenManager("unit-secret", 5)

	token, expiresAt, err := manager.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if expiresAt.IsZero() {
		t.Fatal("zero expiry")
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id %d, want 42", claims.UserID)
	}
	if claims.Subject != "42" {
		t.Fatalf("subject %q, want \"42\"", claims.Subject)
	}
	if claims.ID == "" {
		t.Fatal("missing jti")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 5)
	verifier := NewTokenManager("secret-b", 5)

	token, _, err := issuer.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("unit-secret", 5)
	if _, err := manager.ParseToken("not.a.jwt"); err == nil {
		t.Fatal("garbage must not parse")
	}
}

func TestTokenIDsAreUnique(t *testing.T) {
	manager := NewTokenManager("unit-secret", 5)
	first, _, err := manager.GenerateToken(1)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	second, _, err := manager.GenerateToken(1)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	a, err := manager.ParseToken(first)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	b, err := manager.ParseToken(second)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if a.ID == b.ID {
		t.Fatal("two tokens for the same user share a jti")
	}
}
