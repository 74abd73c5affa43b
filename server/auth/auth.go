// Package auth issues and verifies the stateless access tokens used by the
// API layer.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/habitloop/habitloop/store"
)

const (
	issuer = "habitloop"
	// AccessTokenDuration is the lifetime of an issued access token.
	AccessTokenDuration = 7 * 24 * time.Hour
)

// ContextKey is the type for context value keys set by the auth layer.
type ContextKey string

// UserIDContextKey carries the authenticated user's ID.
const UserIDContextKey ContextKey = "user-id"

// ClaimsMessage is the payload embedded in access tokens.
type ClaimsMessage struct {
	UserID int32 `json:"userId"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a token for the user with the instance secret.
func GenerateAccessToken(user *store.User, secret string, now time.Time) (string, error) {
	claims := &ClaimsMessage{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken parses and validates a token, returning its claims.
func VerifyAccessToken(tokenString, secret string) (*ClaimsMessage, error) {
	claims := &ClaimsMessage{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	return claims, nil
}

// SetUserIDInContext stores the authenticated user ID.
func SetUserIDInContext(ctx context.Context, userID int32) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(ctx context.Context) (int32, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(int32)
	return userID, ok
}
