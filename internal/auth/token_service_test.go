package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService("test-secret")
	id := NewSessionID()

	token, err := svc.Issue(id, 7, "alice", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.ID)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "7", claims.Subject)
}

func TestTokenService_RejectsOtherSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue(NewSessionID(), 1, "alice", time.Hour)
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Parse(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret")
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, err := svc.Issue(NewSessionID(), 1, "alice", time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenService_RejectsUnsignedAndGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for _, tok := range []string{"", "not-a-token", raw, "your_secure_secret_key_here"} {
		_, err := svc.Parse(tok)
		assert.Error(t, err, "token %q", tok)
	}
}

func TestNewSessionID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
