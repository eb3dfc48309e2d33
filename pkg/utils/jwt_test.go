package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndValidateToken(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.New()

	token, err := CreateToken(secret, userID, "traveler", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "traveler", claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := CreateToken([]byte("one"), uuid.New(), "traveler", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken([]byte("two"), token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := CreateToken(secret, uuid.New(), "traveler", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(secret, token)
	assert.Error(t, err)
}
