package auth

import (
	"net/http"
	"strings"
)

// DefaultCookieName is the session cookie carrying the signed token.
const DefaultCookieName = "access_token"

const bearerScheme = "Bearer "

// trimBearer strips the bearer scheme prefix, matching the scheme
// case-insensitively as HTTP auth schemes are.
func trimBearer(value string) (string, bool) {
	if len(value) <= len(bearerScheme) || !strings.EqualFold(value[:len(bearerScheme)], bearerScheme) {
		return value, false
	}
	return value[len(bearerScheme):], true
}

// TokenExtractor pulls a raw token string out of one specific transport
// mechanism on an inbound request. A miss is signaled by ok=false, not an
// error; the chain simply moves on to the next extractor.
type TokenExtractor interface {
	Extract(r *http.Request) (token string, ok bool)
}

// CookieExtractor reads the configured session cookie.
type CookieExtractor struct {
	Name string
}

// Extract returns the raw cookie value when present.
func (e CookieExtractor) Extract(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(e.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	// Some browser clients store the value with the bearer prefix.
	if token, ok := trimBearer(cookie.Value); ok {
		return token, true
	}
	return cookie.Value, true
}

// BearerExtractor reads the standard Authorization header.
type BearerExtractor struct{}

// Extract strips the bearer scheme prefix and returns the rest.
func (BearerExtractor) Extract(r *http.Request) (string, bool) {
	token, ok := trimBearer(r.Header.Get("Authorization"))
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
