// Package auth проверка access-токенов, выпущенных сервисом идентификации.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
)

// accessClaims полезная нагрузка access-токена: sub содержит userID.
type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager выпускает и проверяет HS256 access-токены.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// IssueAccess выпускает токен для участника. Используется в тестах и служебных сценариях.
func (m *TokenManager) IssueAccess(actor valueobject.Actor) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseAccess проверяет подпись и срок токена и возвращает участника.
func (m *TokenManager) ParseAccess(raw string) (valueobject.Actor, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return valueobject.Actor{}, err
	}
	if !parsed.Valid {
		return valueobject.Actor{}, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return valueobject.Actor{}, fmt.Errorf("auth: некорректный sub: %w", err)
	}
	actor := valueobject.Actor{UserID: userID, Role: valueobject.Role(claims.Role)}
	if err := actor.Validate(); err != nil {
		return valueobject.Actor{}, err
	}
	if !actor.Role.IsValid() {
		return valueobject.Actor{}, fmt.Errorf("auth: неизвестная роль %q", claims.Role)
	}
	return actor, nil
}
