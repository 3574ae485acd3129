package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/engine/internal/models"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	m := NewTokenManager([]byte("0123456789abcdef0123"), time.Hour)
	uid := uuid.New()

	tok, issued, err := m.Issue(uid, models.RoleReceiver)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, models.RoleReceiver, claims.Role)
	require.Equal(t, issued.ID, claims.ID)
	got, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, uid, got)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager([]byte("0123456789abcdef0123"), time.Minute)
	tok, _, err := m.Issue(uuid.New(), models.RoleDonor)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Parse(tok)
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseRejectsForeignSecret(t *testing.T) {
	tok, _, err := NewTokenManager([]byte("0123456789abcdef0123"), time.Hour).Issue(uuid.New(), models.RoleDonor)
	require.NoError(t, err)

	_, err = NewTokenManager([]byte("another-secret-of-length"), time.Hour).Parse(tok)
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseRejectsUnknownRoleAndAlgNone(t *testing.T) {
	secret := []byte("0123456789abcdef0123")
	m := NewTokenManager(secret, time.Hour)
	now := time.Now()

	forged := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			ID:        "x",
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, forged).SignedString(secret)
	require.NoError(t, err)
	_, err = m.Parse(tok)
	require.True(t, errors.Is(err, ErrInvalidToken))

	forged.Role = models.RoleDonor
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, forged).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(none)
	require.True(t, errors.Is(err, ErrInvalidToken))
}
