package jwtsign

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseRoundTrip(t *testing.T) {
	signer := New("secret")

	claims := jwt.MapClaims{
		"sub": "subject-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := signer.Sign(context.Background(), claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "subject-1", parsed["sub"])
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, err := New("secret").Sign(context.Background(), jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = New("other-secret").Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsTampering(t *testing.T) {
	signer := New("secret")
	token, err := signer.Sign(context.Background(), jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = signer.Parse(token + "x")
	assert.Error(t, err)
}
