package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-commerce/meridian/internal/shared"
)

// LoginTokenTTL is the expiry requested by the interactive login flow,
// longer than the codec's short default for programmatic issuance.
const LoginTokenTTL = time.Hour

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	codec    *Codec
	loginTTL time.Duration
}

// NewService constructs a new Service.
func NewService(repo Repository, codec *Codec, loginTTL time.Duration) *Service {
	if loginTTL <= 0 {
		loginTTL = LoginTokenTTL
	}
	return &Service{repo: repo, codec: codec, loginTTL: loginTTL}
}

// LoginTTL reports the token lifetime used by Login.
func (s *Service) LoginTTL() time.Duration {
	return s.loginTTL
}

// Login validates username/password credentials and issues a signed
// token. All failure modes collapse into invalid credentials so callers
// cannot probe which part of the check failed.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}
	token, err := s.codec.Issue(Claims{UserID: user.ID, Email: user.Email}, s.loginTTL)
	if err != nil {
		return "", nil, err
	}
	_ = s.repo.TouchLastActive(ctx, user.ID)
	return token, user, nil
}

// Profile returns the account record for an authenticated caller.
func (s *Service) Profile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}
