package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	secret := []byte("test-jwt-secret")
	exp := time.Now().Add(AccessTTL).UTC()

	token, err := SignAccessToken(42, secret, exp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	token, err := SignAccessToken(42, []byte("right"), time.Now().Add(AccessTTL))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, []byte("wrong"))
	require.Error(t, err)
}

func TestClaimsFromToken_MalformedNeverNilNil(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		claims, err := AccessClaimsFromToken(raw, []byte("secret"))
		require.Error(t, err)
		assert.Nil(t, claims)

		refresh, err := RefreshClaimsFromToken(raw, []byte("secret"))
		require.Error(t, err)
		assert.Nil(t, refresh)
	}
}

func TestAccessToken_Expired(t *testing.T) {
	secret := []byte("test-jwt-secret")
	token, err := SignAccessToken(42, secret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, secret)
	require.Error(t, err)
}

func TestRefreshToken_CarriesUniqueJTI(t *testing.T) {
	secret := []byte("test-refresh-secret")
	exp := time.Now().Add(RefreshTTL)

	first, err := SignRefreshToken(7, secret, exp)
	require.NoError(t, err)
	second, err := SignRefreshToken(7, secret, exp)
	require.NoError(t, err)

	firstClaims, err := RefreshClaimsFromToken(first, secret)
	require.NoError(t, err)
	secondClaims, err := RefreshClaimsFromToken(second, secret)
	require.NoError(t, err)

	require.NotEmpty(t, firstClaims.ID)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestDeleteCookie_Expires(t *testing.T) {
	ck := DeleteCookie(AccessCookie, "/")
	assert.Equal(t, AccessCookie, ck.Name)
	assert.Empty(t, ck.Value)
	assert.Negative(t, ck.MaxAge)
}

func TestSha256Hex_Deterministic(t *testing.T) {
	assert.Equal(t, Sha256Hex("token"), Sha256Hex("token"))
	assert.NotEqual(t, Sha256Hex("token"), Sha256Hex("other"))
	assert.Len(t, Sha256Hex("token"), 64)
}
