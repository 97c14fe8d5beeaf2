package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "dance-studio-backend/pkg/errors"
)

const testSecret = "test-signing-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "another-secret")
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
}

func TestValidateToken_TamperedAnywhere(t *testing.T) {
	token, err := GenerateToken(uuid.New(), testSecret, time.Hour)
	require.NoError(t, err)

	// Flipping any single byte of header, payload or signature must fail.
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if string(mutated) == token {
			continue
		}

		_, err := ValidateToken(string(mutated), testSecret)
		assert.Error(t, err, "tampered byte at offset %d must not verify", i)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken(uuid.New(), testSecret, -time.Second)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, appErrors.ErrTokenExpired)
}

func TestValidateToken_Malformed(t *testing.T) {
	_, err := ValidateToken("not.a.jwt", testSecret)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)

	_, err = ValidateToken("", testSecret)
	assert.ErrorIs(t, err, appErrors.ErrTokenInvalid)
}

func TestGenerateToken_DefaultTTL(t *testing.T) {
	token, err := GenerateToken(uuid.New(), testSecret, 0)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	expected := time.Now().Add(DefaultTokenTTL)
	assert.WithinDuration(t, expected, claims.ExpiresAt.Time, time.Minute)
}
