package auth

import (
	"errors"
	"testing"
	"time"

	"eshop/pkg/apperror"

	"github.com/google/uuid"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", 30*time.Minute, 7*24*time.Hour)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	tokenString, err := m.IssueAccessToken("alice@example.com", "buyer", userID)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	claims, err := m.VerifyAccess(tokenString)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Errorf("subject = %q, want alice@example.com", claims.Subject)
	}
	if claims.Role != "buyer" {
		t.Errorf("role = %q, want buyer", claims.Role)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %v, want %v", claims.UserID, userID)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("token type = %q, want %q", claims.TokenType, TokenTypeAccess)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute, -time.Minute)

	tokenString, err := m.IssueAccessToken("alice@example.com", "buyer", uuid.New())
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	_, err = m.VerifyAccess(tokenString)
	if !errors.Is(err, apperror.ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := newTestManager()

	tokenString, err := m.IssueAccessToken("alice@example.com", "buyer", uuid.New())
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	tampered := tokenString + "A"
	if _, err := m.VerifyAccess(tampered); !errors.Is(err, apperror.ErrInvalidToken) {
		t.Errorf("tampered signature: err = %v, want ErrInvalidToken", err)
	}

	if _, err := m.VerifyAccess("not-a-jwt"); !errors.Is(err, apperror.ErrInvalidToken) {
		t.Errorf("garbage input: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewTokenManager("other-secret", 30*time.Minute, 7*24*time.Hour)

	tokenString, err := other.IssueAccessToken("alice@example.com", "buyer", uuid.New())
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if _, err := m.VerifyAccess(tokenString); !errors.Is(err, apperror.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	accessToken, err := m.IssueAccessToken("alice@example.com", "buyer", userID)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	refreshToken, err := m.IssueRefreshToken("alice@example.com", "buyer", userID)
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	// an access token is not a refresh credential and vice versa
	if _, err := m.VerifyRefresh(accessToken); !errors.Is(err, apperror.ErrWrongTokenType) {
		t.Errorf("VerifyRefresh(access): err = %v, want ErrWrongTokenType", err)
	}
	if _, err := m.VerifyAccess(refreshToken); !errors.Is(err, apperror.ErrWrongTokenType) {
		t.Errorf("VerifyAccess(refresh): err = %v, want ErrWrongTokenType", err)
	}
}
