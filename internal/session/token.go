package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents session token claims.
type Claims struct {
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the session cookie value.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. An empty secret is replaced with
// a random per-process one, so cookies do not survive a restart.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// GenerateToken generates a signed token for the session ID.
func (s *TokenService) GenerateToken(sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates a token and returns the session ID it carries and
// when the token expires. The expiry is zero for a service without a TTL.
func (s *TokenService) ValidateToken(tokenString string) (uuid.UUID, time.Time, error) {
	if tokenString == "" {
		return uuid.Nil, time.Time{}, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return uuid.Nil, time.Time{}, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return uuid.Nil, time.Time{}, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return uuid.Nil, time.Time{}, fmt.Errorf("malformed token: %w", err)
		}
		return uuid.Nil, time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return uuid.Nil, time.Time{}, fmt.Errorf("token is not valid")
	}
	if claims.SessionID == uuid.Nil || claims.Subject != claims.SessionID.String() {
		return uuid.Nil, time.Time{}, fmt.Errorf("token does not name a session")
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return claims.SessionID, expiresAt, nil
}
