package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"forum/internal/auth"
	apperrors "forum/internal/errors"
	"forum/internal/model"
)

// SessionService issues, checks and revokes login sessions.
type SessionService interface {
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, token string) error
	Authorize(ctx context.Context, token string) (*auth.Session, error)
	TTL() time.Duration
}

type sessionService struct {
	accounts AccountService
	tokens   *auth.TokenService
	store    auth.SessionStoreInterface
	ttl      time.Duration
	log      logrus.FieldLogger
}

// NewSessionService creates a new session service. A non-positive ttl falls
// back to auth.DefaultSessionTTL.
func NewSessionService(accounts AccountService, tokens *auth.TokenService, store auth.SessionStoreInterface, ttl time.Duration, log logrus.FieldLogger) SessionService {
	if ttl <= 0 {
		ttl = auth.DefaultSessionTTL
	}
	return &sessionService{
		accounts: accounts,
		tokens:   tokens,
		store:    store,
		ttl:      ttl,
		log:      log,
	}
}

func (s *sessionService) TTL() time.Duration {
	return s.ttl
}

// Login authenticates the user and starts a new session. The returned token is
// the cookie value.
func (s *sessionService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	session := &auth.Session{
		ID:       auth.NewSessionID(),
		UserID:   user.ID,
		Username: user.Username,
	}
	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.tokens.Issue(session.ID, user.ID, user.Username, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	s.log.WithField("username", user.Username).Info("user logged in")
	return token, user, nil
}

// Logout revokes the session behind token. Revoking an unknown session is
// ErrUnauthenticated.
func (s *sessionService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return apperrors.ErrUnauthenticated
	}

	removed, err := s.store.Delete(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if !removed {
		return apperrors.ErrUnauthenticated
	}

	s.log.WithField("username", claims.Username).Info("user logged out")
	return nil
}

// Authorize resolves a token to its live session. It fails closed: any doubt,
// including an unreachable session store, is ErrUnauthenticated.
func (s *sessionService) Authorize(ctx context.Context, token string) (*auth.Session, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}

	session, err := s.store.Get(ctx, claims.ID)
	if err != nil {
		s.log.WithError(err).Error("session lookup failed")
		return nil, apperrors.ErrUnauthenticated
	}
	if session == nil || session.UserID != claims.UserID {
		return nil, apperrors.ErrUnauthenticated
	}
	return session, nil
}
