package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignAndVerify(t *testing.T) {
	secret := []byte("test-secret")

	token, exp, err := Sign("acct-1", "Amina", "user", "MFSPay", secret, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatal("expected expiry in the future")
	}

	claims, err := Verify(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "acct-1" {
		t.Fatalf("expected subject acct-1, got %s", claims.Subject)
	}
	if claims.Name != "Amina" || claims.Kind != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := Sign("acct-1", "", "user", "MFSPay", []byte("secret-a"), time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Verify(token, []byte("secret-b")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, _, err := Sign("acct-1", "", "user", "MFSPay", secret, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Verify(token, secret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for expired claim, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	if _, err := Verify("not.a.token", []byte("test-secret")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
