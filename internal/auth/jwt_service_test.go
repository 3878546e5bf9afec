package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")
	memberID := uuid.New()

	token, err := service.GenerateAccessToken(memberID, "ana@x.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, memberID, claims.MemberID)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, memberID.String(), claims.Subject)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateAccessToken(uuid.New(), "ana@x.com")
	assert.NoError(t, err)

	claims, err := NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	claims, err := NewJWTService("test-secret").ValidateToken("not-a-token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ExtractTokenID(t *testing.T) {
	service := NewJWTService("test-secret")
	memberID := uuid.New()

	tokenID, refreshToken, err := service.GenerateRefreshToken(memberID, "ana@x.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenID)

	extracted, err := service.ExtractTokenID(refreshToken)
	assert.NoError(t, err)
	assert.Equal(t, tokenID, extracted)

	// Access tokens carry no JTI.
	accessToken, err := service.GenerateAccessToken(memberID, "ana@x.com")
	assert.NoError(t, err)
	_, err = service.ExtractTokenID(accessToken)
	assert.Error(t, err)
}
