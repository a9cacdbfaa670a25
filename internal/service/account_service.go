package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "forum/internal/errors"
	"forum/internal/model"
	"forum/internal/repository"
)

const (
	bcryptCost        = 10
	maxUsernameLength = 50
	// bcrypt ignores input past 72 bytes
	maxPasswordLength = 72
)

// AccountService handles account registration and credential checks.
type AccountService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

type accountService struct {
	users repository.UserRepository
	log   logrus.FieldLogger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAccountService creates a new account service.
func NewAccountService(users repository.UserRepository, log logrus.FieldLogger) AccountService {
	return &accountService{users: users, log: log}
}

// Register creates a new user with a bcrypt password hash. It does not log the user in.
func (s *accountService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateUser
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.WithField("username", username).Info("user registered")
	return user, nil
}

// Authenticate returns the user when the password matches. Unknown users and
// wrong passwords yield the same ErrInvalidCredentials.
func (s *accountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		// spend the same time as a real comparison
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.log.WithField("username", username).Warn("invalid login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.WithField("username", username).Warn("invalid login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *accountService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	})
	return s.dummyHash
}

func validateCredentials(username, password string) error {
	switch {
	case username == "":
		return apperrors.Validation("username is required")
	case utf8.RuneCountInString(username) > maxUsernameLength:
		return apperrors.Validation(fmt.Sprintf("username must be at most %d characters", maxUsernameLength))
	case password == "":
		return apperrors.Validation("password is required")
	case len(password) > maxPasswordLength:
		return apperrors.Validation(fmt.Sprintf("password must be at most %d bytes", maxPasswordLength))
	}
	return nil
}
