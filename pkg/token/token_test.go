package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
)

var identity = models.Identity{ID: "user-1", Name: "Asha", Role: models.RoleAdmin}

func TestIssuePairRoundTrip(t *testing.T) {
	codec := NewCodec("secret", "masterminds-api", time.Hour)
	pair, err := codec.IssuePair(identity)
	require.NoError(t, err)

	session, err := codec.VerifySession(pair.Session)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.ID)
	assert.Equal(t, models.RoleAdmin, session.Role)
	assert.Equal(t, pair.ExpiresAt.Unix(), session.ExpiresAt.Unix())

	display, err := codec.VerifyDisplay(pair.Display)
	require.NoError(t, err)
	assert.Equal(t, "Asha", display.Name)
	assert.Equal(t, pair.ExpiresAt.Unix(), display.ExpiresAt.Unix())
}

func TestDisplayTokenRejectedAsSession(t *testing.T) {
	codec := NewCodec("secret", "", time.Hour)
	pair, err := codec.IssuePair(identity)
	require.NoError(t, err)

	_, err = codec.VerifySession(pair.Display)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.VerifyDisplay(pair.Session)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySessionFailures(t *testing.T) {
	codec := NewCodec("secret", "", time.Hour)
	pair, err := codec.IssuePair(identity)
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := codec.VerifySession("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := codec.VerifySession("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewCodec("other", "", time.Hour)
		_, err := other.VerifySession(pair.Session)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewCodec("secret", "", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.VerifySession(pair.Session)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		claims := &models.SessionClaims{
			ID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				Audience:  jwt.ClaimStrings{AudienceSession},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = codec.VerifySession(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		pair, err := codec.IssuePair(models.Identity{ID: "user-1", Name: "Asha", Role: models.UserRole("superuser")})
		require.NoError(t, err)
		_, err = codec.VerifySession(pair.Session)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		pair, err := codec.IssuePair(models.Identity{Name: "ghost", Role: models.RoleStudent})
		require.NoError(t, err)
		_, err = codec.VerifySession(pair.Session)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
