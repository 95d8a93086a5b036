package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification outcomes. Callers that need to distinguish why a
// token was rejected can errors.Is against these; the HTTP layer
// surfaces all of them uniformly as unauthenticated.
var (
	ErrTokenMalformed = errors.New("auth: malformed token")
	ErrTokenSignature = errors.New("auth: invalid token signature")
	ErrTokenExpired   = errors.New("auth: token expired")
)

// Claims carries the verified assertions embedded in a signed token.
type Claims struct {
	UserID int64
	Email  string
}

// Codec issues and verifies signed, time-bounded identity tokens. The
// signing secret and algorithm (HS256) are fixed for the process at
// construction time.
type Codec struct {
	secret     []byte
	defaultTTL time.Duration
}

// DefaultTokenTTL applies when Issue is called without an explicit TTL.
const DefaultTokenTTL = 15 * time.Minute

// NewCodec constructs a Codec with the shared signing secret.
func NewCodec(secret string, defaultTTL time.Duration) *Codec {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &Codec{secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue signs a compact token carrying the claims and an absolute expiry
// ttl from now. A non-positive ttl falls back to the codec default.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	payload := jwt.MapClaims{
		"user_id": claims.UserID,
		"exp":     time.Now().UTC().Add(ttl).Unix(),
	}
	if claims.Email != "" {
		payload["email"] = claims.Email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a raw token and returns the
// identity it asserts. Expiry is evaluated against wall-clock time at the
// moment of verification.
func (c *Codec) Verify(raw string) (Identity, error) {
	payload := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, payload, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, ErrTokenSignature
		default:
			return Identity{}, ErrTokenMalformed
		}
	}

	userID, ok := numericClaim(payload["user_id"])
	if !ok || userID <= 0 {
		return Identity{}, ErrTokenMalformed
	}
	email, _ := payload["email"].(string)
	return Identity{UserID: userID, Email: email}, nil
}

// numericClaim normalizes the user_id claim, which arrives as float64
// after a JSON round trip but as int64 on freshly issued tokens.
func numericClaim(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
