package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := NewCodec(testSecret, 0)

	token, err := codec.Issue(Claims{UserID: 42, Email: "user@example.com"}, time.Hour)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	identity, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, "user@example.com", identity.Email)
}

func TestIssueDefaultTTL(t *testing.T) {
	codec := NewCodec(testSecret, 0)

	token, err := codec.Issue(Claims{UserID: 7}, 0)
	require.NoError(t, err)

	payload := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, payload, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	exp, err := payload.GetExpirationTime()
	require.NoError(t, err)
	remaining := time.Until(exp.Time)
	assert.Greater(t, remaining, 14*time.Minute)
	assert.LessOrEqual(t, remaining, DefaultTokenTTL)
}

func TestVerifyExpired(t *testing.T) {
	codec := NewCodec(testSecret, 0)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(42),
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	raw, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTamperedSignature(t *testing.T) {
	codec := NewCodec(testSecret, 0)

	token, err := codec.Issue(Claims{UserID: 42}, time.Hour)
	require.NoError(t, err)

	// Flip one byte inside the signature segment.
	dot := strings.LastIndex(token, ".")
	sig := []byte(token[dot+1:])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := token[:dot+1] + string(sig)

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewCodec("secret-one", 0)
	verifier := NewCodec("secret-two", 0)

	token, err := issuer.Issue(Claims{UserID: 42}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyMalformed(t *testing.T) {
	codec := NewCodec(testSecret, 0)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := codec.Verify(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", raw)
	}
}

func TestVerifyMissingExpiry(t *testing.T) {
	codec := NewCodec(testSecret, 0)

	eternal := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(42),
	})
	raw, err := eternal.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.Error(t, err)
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	codec := NewCodec(testSecret, 0)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": int64(42),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.Error(t, err)
}
