package auth

import (
	"errors"
	"time"

	"eshop/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type claim values. Access tokens authenticate ordinary requests;
// refresh tokens are only accepted by the refresh exchange.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the validated identity carried by a token.
type Claims struct {
	Subject   string // user email
	Role      string
	UserID    uuid.UUID
	TokenType string
}

// TokenManager issues and verifies HS256-signed JWTs. The secret and TTLs
// are fixed at construction and constant for the process lifetime; rotating
// the secret invalidates every outstanding token.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a TokenManager from explicit configuration.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken signs a short-lived access token for the given identity.
func (m *TokenManager) IssueAccessToken(subject, role string, userID uuid.UUID) (string, error) {
	return m.issue(subject, role, userID, TokenTypeAccess, m.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for the given identity.
func (m *TokenManager) IssueRefreshToken(subject, role string, userID uuid.UUID) (string, error) {
	return m.issue(subject, role, userID, TokenTypeRefresh, m.refreshTTL)
}

func (m *TokenManager) issue(subject, role string, userID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":        subject,
		"role":       role,
		"id":         userID.String(),
		"token_type": tokenType,
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyAccess validates a bearer access token. Refresh tokens are rejected
// with ErrWrongTokenType so they cannot double as bearer credentials.
func (m *TokenManager) VerifyAccess(tokenString string) (*Claims, error) {
	return m.verify(tokenString, TokenTypeAccess)
}

// VerifyRefresh validates a refresh token for the refresh exchange.
func (m *TokenManager) VerifyRefresh(tokenString string) (*Claims, error) {
	return m.verify(tokenString, TokenTypeRefresh)
}

func (m *TokenManager) verify(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		// Expiry is distinguished from forgery/malformation so callers can
		// tell the client to refresh instead of re-authenticate.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.ErrExpiredToken
		}
		return nil, apperror.ErrInvalidToken
	}
	if !token.Valid {
		return nil, apperror.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.ErrInvalidToken
	}

	subject, _ := mapClaims["sub"].(string)
	tokenType, _ := mapClaims["token_type"].(string)
	if subject == "" || tokenType != wantType {
		return nil, apperror.ErrWrongTokenType
	}

	role, _ := mapClaims["role"].(string)
	idStr, _ := mapClaims["id"].(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	return &Claims{
		Subject:   subject,
		Role:      role,
		UserID:    userID,
		TokenType: tokenType,
	}, nil
}
