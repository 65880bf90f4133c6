package authclient_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/sweetshoplabs/sweetshop-web/authclient"
)

func signedTokenWithExpiry(t *testing.T, expiry time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenExpiry_ReadsExpClaimWithoutVerification(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedTokenWithExpiry(t, expiry)

	got, ok := authclient.TokenExpiry(raw)
	require.True(t, ok)
	require.True(t, expiry.Equal(got))
}

func TestTokenExpiry_MalformedToken(t *testing.T) {
	_, ok := authclient.TokenExpiry("not-a-jwt")
	require.False(t, ok)

	_, ok = authclient.TokenExpiry("")
	require.False(t, ok)
}

func TestTokenExpiry_MissingExpClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, ok := authclient.TokenExpiry(signed)
	require.False(t, ok)
}
