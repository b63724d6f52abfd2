package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/alumnihub/membership-server/internal/model"
)

// Claims represents session token claims: who the actor is and what
// capability they carry.
type Claims struct {
	jwt.RegisteredClaims
	ActorID   uuid.UUID       `json:"actor_id"`
	ActorRole model.ActorRole `json:"actor_role"`
	TokenType string          `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) model.TokenManager {
	return &JWT{secretKey: secretKey}
}

const (
	accessTTL  = 15 * time.Minute
	typeAccess = "access"
)

// GenerateAccessToken creates a short-lived session token for the actor.
func (j *JWT) GenerateAccessToken(actor model.Actor) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
		},
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates a session token and rebuilds the actor.
func (j *JWT) ParseAccessToken(tokenString string) (model.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return model.Actor{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	if !token.Valid {
		return model.Actor{}, fmt.Errorf("access token is invalid")
	}
	if claims.TokenType != typeAccess {
		return model.Actor{}, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}

	return model.Actor{ID: claims.ActorID, Role: claims.ActorRole}, nil
}
