package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokenService(clock *fakeClock) *TokenService {
	return NewTokenService([]byte("test-secret"), 30*time.Minute, WithClock(clock.Now))
}

func TestTokenService_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := newTestTokenService(clock)

	for _, subject := range []string{"test@example.com", "Mixed.Case@Example.com", "ünïcødé@example.com"} {
		token, err := svc.Issue(subject)
		require.NoError(t, err)

		got, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, subject, got)
	}
}

func TestTokenService_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := newTestTokenService(clock)

	token, err := svc.Issue("test@example.com")
	require.NoError(t, err)

	clock.Advance(29*time.Minute + 59*time.Second)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)

	clock.Advance(time.Hour)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestTokenService_InvalidSignature(t *testing.T) {
	clock := &fakeClock{t: time.Now().Truncate(time.Second)}
	issuer := NewTokenService([]byte("other-secret"), time.Minute, WithClock(clock.Now))
	verifier := newTestTokenService(clock)

	token, err := issuer.Issue("test@example.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{t: time.Now().Truncate(time.Second)}
	svc := newTestTokenService(clock)

	claims := jwt.RegisteredClaims{
		Subject:   "test@example.com",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Minute)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenService_Malformed(t *testing.T) {
	clock := &fakeClock{t: time.Now().Truncate(time.Second)}
	svc := newTestTokenService(clock)

	for _, token := range []string{"", "garbage", "a.b.c", "only.two"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", token)
	}
}

func TestTokenService_MissingClaims(t *testing.T) {
	clock := &fakeClock{t: time.Now().Truncate(time.Second)}
	svc := newTestTokenService(clock)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "test@example.com",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(noExpiry)
	assert.ErrorIs(t, err, ErrMalformed)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Minute)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(noSubject)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSigningKey(t *testing.T) {
	key, generated, err := SigningKey("pinned")
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, []byte("pinned"), key)

	first, generated, err := SigningKey("")
	require.NoError(t, err)
	assert.True(t, generated)
	assert.Len(t, first, 32)

	second, _, err := SigningKey("")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
