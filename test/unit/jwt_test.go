package unit

import (
	"testing"
	"time"

	"github.com/investplatform/admin-backend/internal/auth"
)

func TestJWTMintAndParse(t *testing.T) {
	m := auth.NewJWTManager("issuer", "aud", "secret")
	tok, err := m.Mint("a1", "s1", auth.TokenAccess, 5*time.Minute)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.AdminID != "a1" || claims.SessionID != "s1" || claims.Type != auth.TokenAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTRejectsWrongIssuer(t *testing.T) {
	minter := auth.NewJWTManager("other-issuer", "aud", "secret")
	tok, err := minter.Mint("a1", "s1", auth.TokenAccess, 5*time.Minute)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}

	m := auth.NewJWTManager("issuer", "aud", "secret")
	if _, err := m.Parse(tok); err == nil {
		t.Fatalf("expected issuer mismatch error")
	}
}

func TestJWTRejectsWrongAudience(t *testing.T) {
	minter := auth.NewJWTManager("issuer", "other-aud", "secret")
	tok, err := minter.Mint("a1", "s1", auth.TokenAccess, 5*time.Minute)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}

	m := auth.NewJWTManager("issuer", "aud", "secret")
	if _, err := m.Parse(tok); err == nil {
		t.Fatalf("expected audience mismatch error")
	}
}

func TestJWTRejectsWrongKey(t *testing.T) {
	minter := auth.NewJWTManager("issuer", "aud", "other-secret")
	tok, err := minter.Mint("a1", "s1", auth.TokenRefresh, 5*time.Minute)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}

	m := auth.NewJWTManager("issuer", "aud", "secret")
	if _, err := m.Parse(tok); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	m := auth.NewJWTManager("issuer", "aud", "secret")
	tok, err := m.Mint("a1", "s1", auth.TokenAccess, -time.Minute)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := m.Parse(tok); err == nil {
		t.Fatalf("expected expiry error")
	}
}
