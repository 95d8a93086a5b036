package auth

import (
	"log/slog"
	"net/http"

	"github.com/meridian-commerce/meridian/internal/shared"
)

// Authenticator resolves a caller identity by trying an ordered chain of
// credential extractors. The cookie is consulted before the bearer header
// so browser sessions win when a request carries both.
type Authenticator struct {
	codec      *Codec
	extractors []TokenExtractor
	logger     *slog.Logger
}

// NewAuthenticator builds the default chain: cookie first, bearer second.
func NewAuthenticator(codec *Codec, cookieName string, logger *slog.Logger) *Authenticator {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Authenticator{
		codec: codec,
		extractors: []TokenExtractor{
			CookieExtractor{Name: cookieName},
			BearerExtractor{},
		},
		logger: logger,
	}
}

// NewAuthenticatorWithExtractors builds an Authenticator with an explicit
// extractor order. Order is policy: the first verified identity wins.
func NewAuthenticatorWithExtractors(codec *Codec, logger *slog.Logger, extractors ...TokenExtractor) *Authenticator {
	return &Authenticator{codec: codec, extractors: extractors, logger: logger}
}

// Authenticate returns the identity asserted by the first extractor whose
// token verifies. Extractor misses and verification failures are logged
// and skipped; when the chain is exhausted the caller gets a uniform
// unauthenticated error that does not reveal which mechanism was tried.
func (a *Authenticator) Authenticate(r *http.Request) (Identity, error) {
	for _, extractor := range a.extractors {
		raw, ok := extractor.Extract(r)
		if !ok {
			continue
		}
		identity, err := a.codec.Verify(raw)
		if err != nil {
			if a.logger != nil {
				a.logger.Debug("token rejected", slog.Any("error", err))
			}
			continue
		}
		return identity, nil
	}
	return Identity{}, shared.ErrUnauthenticated
}
