package auth

import (
	"testing"
	"time"

	"github.com/erp/proposals/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-very-long-test-secret-for-hs256-signing"

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "identity"})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.IssueAccessToken(userID, []string{"admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.NotEmpty(t, claims.ID)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, userID, actor.UserID)
	assert.True(t, actor.HasAnyRole("ADMIN"))
}

func TestJWTService_Rejections(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	t.Run("expired", func(t *testing.T) {
		token, err := svc.IssueAccessToken(userID, nil, -time.Minute)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-of-sufficient-length!!", Issuer: "identity"})
		token, err := other.IssueAccessToken(userID, nil, time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "someone-else"})
		token, err := other.IssueAccessToken(userID, nil, time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token", func(t *testing.T) {
		token := sign(t, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "identity", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			UserID:           userID.String(),
			TokenType:        "refresh",
		})
		_, err := svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("missing user", func(t *testing.T) {
		token := sign(t, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "identity", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			TokenType:        TokenTypeAccess,
		})
		_, err := svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrMissingUserID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_ActorInvalidUser(t *testing.T) {
	_, err := (&Claims{UserID: "nope"}).Actor()
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func sign(t *testing.T, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}
