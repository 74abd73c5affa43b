package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop/store"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	user := &store.User{ID: 42, Username: "alice"}

	token, err := GenerateAccessToken(user, "secret", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, int32(42), claims.UserID)
	assert.Equal(t, "alice", claims.Subject)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	user := &store.User{ID: 1, Username: "bob"}
	token, err := GenerateAccessToken(user, "secret", time.Now())
	require.NoError(t, err)

	_, err = VerifyAccessToken(token, "other-secret")
	assert.Error(t, err)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	user := &store.User{ID: 1, Username: "bob"}
	issuedAt := time.Now().Add(-AccessTokenDuration - time.Hour)
	token, err := GenerateAccessToken(user, "secret", issuedAt)
	require.NoError(t, err)

	_, err = VerifyAccessToken(token, "secret")
	assert.Error(t, err)
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	_, err := VerifyAccessToken("not-a-token", "secret")
	assert.Error(t, err)
}

func TestUserIDContext(t *testing.T) {
	ctx := context.Background()
	_, ok := UserIDFromContext(ctx)
	assert.False(t, ok)

	ctx = SetUserIDInContext(ctx, 7)
	userID, ok := UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int32(7), userID)
}
