package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload. Role travels as a claim so admin access
// never depends on a hard-coded operator list.
type Claims struct {
	SubjectID string          `json:"sub"`
	Role      domain.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT for the subject, returning the signed
// string alongside the issued token metadata.
func (tm *TokenManager) GenerateToken(subjectID string, role domain.UserRole) (string, domain.Token, error) {
	issuedAt := time.Now()
	meta := domain.Token{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(tm.ttl),
	}
	claims := &Claims{
		SubjectID: subjectID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        meta.ID,
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(meta.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", domain.Token{}, err
	}
	return tokenString, meta, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
