package jwtauth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/jwtauth"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("test-secret")

func TestSignAndVerify(t *testing.T) {
	token, err := jwtauth.Sign(secret, "user-1", "ana@example.com", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, err := jwtauth.Verify(secret, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "user-1" || id.Email != "ana@example.com" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestVerify_Expired(t *testing.T) {
	token, err := jwtauth.Sign(secret, "user-1", "ana@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = jwtauth.Verify(secret, token)
	var unauth *domain.ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if unauth.RedirectTo != "/login" {
		t.Errorf("expected redirect to /login, got %q", unauth.RedirectTo)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, _ := jwtauth.Sign(secret, "user-1", "ana@example.com", time.Hour)
	if _, err := jwtauth.Verify([]byte("other"), token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := jwtauth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := jwtauth.Verify(secret, token); err == nil {
		t.Fatal("expected unsigned token to be rejected")
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	claims := jwtauth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if _, err := jwtauth.Verify(secret, token); err == nil {
		t.Fatal("expected token without sub to be rejected")
	}
}
