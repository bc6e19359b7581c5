package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const sessionTokenLifetime = time.Hour * 12

type Role string

const (
	RoleHost Role = "host"
	RoleJoin Role = "join"
)

var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims identify one player of one game.
type SessionClaims struct {
	GameID string `json:"game-id"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// SessionTokens signs the host and joiner identities handed out on match so
// the game service can check them without asking us.
type SessionTokens struct {
	secret []byte
}

func NewSessionTokens(secret string) *SessionTokens {
	return &SessionTokens{[]byte(secret)}
}

func (s SessionTokens) Issue(gameCode string, role Role, id uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		GameID: gameCode,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenLifetime)),
		},
	})
	return token.SignedString(s.secret)
}

func (s SessionTokens) Verify(tokenString string) (SessionClaims, error) {
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || (claims.Role != RoleHost && claims.Role != RoleJoin) || claims.GameID == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	return claims, nil
}
