package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("secret", time.Hour)

	token, err := svc.GenerateToken(7, []string{"TEACHER", "ADMIN"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.True(t, claims.HasRole("ADMIN"))
	assert.False(t, claims.HasRole("STUDENT"))
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("one", time.Hour).GenerateToken(1, []string{"STUDENT"})
	require.NoError(t, err)

	_, err = New("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	svc := New("secret", -time.Minute)
	token, err := svc.GenerateToken(1, []string{"STUDENT"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
