package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-commerce/meridian/internal/shared"
)

func TestCookieExtractor(t *testing.T) {
	extractor := CookieExtractor{Name: DefaultCookieName}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := extractor.Extract(req)
	assert.False(t, ok, "no cookie should signal absence")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "raw-token"})
	token, ok := extractor.Extract(req)
	require.True(t, ok)
	assert.Equal(t, "raw-token", token)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "Bearer prefixed-token"})
	token, ok = extractor.Extract(req)
	require.True(t, ok)
	assert.Equal(t, "prefixed-token", token)
}

func TestBearerExtractor(t *testing.T) {
	extractor := BearerExtractor{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := extractor.Extract(req)
	assert.False(t, ok, "no header should signal absence")

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, ok = extractor.Extract(req)
	assert.False(t, ok, "unrecognized scheme should signal absence")

	req.Header.Set("Authorization", "Bearer ")
	_, ok = extractor.Extract(req)
	assert.False(t, ok, "empty remainder should signal absence")

	req.Header.Set("Authorization", "Bearer the-token")
	token, ok := extractor.Extract(req)
	require.True(t, ok)
	assert.Equal(t, "the-token", token)
}

func TestBearerExtractorSchemeIsCaseInsensitive(t *testing.T) {
	extractor := BearerExtractor{}

	for _, scheme := range []string{"bearer", "BEARER", "BeArEr"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", scheme+" the-token")
		token, ok := extractor.Extract(req)
		require.True(t, ok, "scheme %q should be accepted", scheme)
		assert.Equal(t, "the-token", token)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "bearer prefixed-token"})
	token, ok := CookieExtractor{Name: DefaultCookieName}.Extract(req)
	require.True(t, ok)
	assert.Equal(t, "prefixed-token", token)
}

func TestAuthenticateCookieWinsOverBearer(t *testing.T) {
	codec := NewCodec(testSecret, 0)
	authenticator := NewAuthenticator(codec, DefaultCookieName, nil)

	cookieToken, err := codec.Issue(Claims{UserID: 1}, time.Hour)
	require.NoError(t, err)
	bearerToken, err := codec.Issue(Claims{UserID: 2}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	identity, err := authenticator.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.UserID, "cookie extractor is first in the chain")
}

func TestAuthenticateFallsBackToBearer(t *testing.T) {
	codec := NewCodec(testSecret, 0)
	authenticator := NewAuthenticator(codec, DefaultCookieName, nil)

	bearerToken, err := codec.Issue(Claims{UserID: 2}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	identity, err := authenticator.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), identity.UserID)
}

func TestAuthenticateSkipsInvalidCookie(t *testing.T) {
	codec := NewCodec(testSecret, 0)
	authenticator := NewAuthenticator(codec, DefaultCookieName, nil)

	bearerToken, err := codec.Issue(Claims{UserID: 2}, time.Hour)
	require.NoError(t, err)

	// An unverifiable cookie must not short-circuit the chain.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "not-a-token"})
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	identity, err := authenticator.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), identity.UserID)
}

func TestAuthenticateUniformFailure(t *testing.T) {
	codec := NewCodec(testSecret, 0)
	authenticator := NewAuthenticator(codec, DefaultCookieName, nil)

	cases := map[string]func(*http.Request){
		"no credentials": func(*http.Request) {},
		"garbage cookie": func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "garbage"})
		},
		"garbage bearer": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer garbage")
		},
		"foreign bearer": func(r *http.Request) {
			other := NewCodec("other-secret", 0)
			token, err := other.Issue(Claims{UserID: 1}, time.Hour)
			require.NoError(t, err)
			r.Header.Set("Authorization", "Bearer "+token)
		},
	}
	for name, arrange := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			arrange(req)
			_, err := authenticator.Authenticate(req)
			assert.ErrorIs(t, err, shared.ErrUnauthenticated)
		})
	}
}
