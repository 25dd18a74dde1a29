package identity

import (
	"context"
	"testing"
	"time"

	"remino/cmd/internal/domain/sqlite"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newLocal(t *testing.T, ttl time.Duration) *LocalProvider {
	t.Helper()

	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)
	return NewLocalProvider(db, "test-secret", ttl, WithBcryptCost(bcrypt.MinCost))
}

func TestLocalRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	p := newLocal(t, time.Hour)

	sub, err := p.Register(ctx, "alice", "alice@x.com", "Secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, sub)

	_, err = p.Register(ctx, "alice", "other@x.com", "Secret123")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	session, err := p.Authenticate(ctx, "alice", "Secret123")
	require.NoError(t, err)

	data, err := p.Verify(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sub, data.Sub)
	assert.NotEmpty(t, data.JTI)
	assert.Greater(t, data.ExpiresAt, time.Now().UnixMilli())
}

func TestLocalAuthenticateRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	p := newLocal(t, time.Hour)

	_, err := p.Register(ctx, "bob", "bob@x.com", "Secret123")
	require.NoError(t, err)

	_, err = p.Authenticate(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.Authenticate(ctx, "nobody", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	ctx := context.Background()
	p := newLocal(t, -time.Minute)

	_, err := p.Register(ctx, "carol", "carol@x.com", "Secret123")
	require.NoError(t, err)

	session, err := p.Authenticate(ctx, "carol", "Secret123")
	require.NoError(t, err)

	_, err = p.Verify(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    localIssuer,
		Subject:   "x",
		ID:        "y",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := foreign.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, err = p.Verify(ctx, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLocalRemoveDropsCredentials(t *testing.T) {
	ctx := context.Background()
	p := newLocal(t, time.Hour)

	_, err := p.Register(ctx, "dave", "dave@x.com", "Secret123")
	require.NoError(t, err)
	require.NoError(t, p.Remove(ctx, "dave"))

	_, err = p.Authenticate(ctx, "dave", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	token, ok = BearerToken("bearer   xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", token)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)

	_, ok = BearerToken("")
	assert.False(t, ok)
}
