package auth

import (
	"time"

	"github.com/mfspay/mfs_backend/internal/account"
	"github.com/mfspay/mfs_backend/internal/config"
)

// Service issues session tokens for authenticated accounts.
type Service struct {
	cfg config.Config
}

// NewService creates a token-issuing service.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// Session is the successful login payload.
type Session struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Issue signs a session token scoped to the account.
func (s *Service) Issue(acct account.Account) (Session, error) {
	token, exp, err := Sign(acct.ID, acct.Name, string(acct.Kind), s.cfg.AppName, []byte(s.cfg.JWTSecret), s.cfg.TokenTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresIn: int64(time.Until(exp).Seconds())}, nil
}
