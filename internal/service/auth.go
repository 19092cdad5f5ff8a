package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	MinUsernameLen = 3
	MinPasswordLen = 6

	defaultAccessTTL = 24 * time.Hour
)

type AuthService struct {
	Repo      *repo.GormRepo
	Hasher    *hash.Hasher
	Events    events.Publisher
	JWTSecret []byte
	AccessTTL time.Duration

	dummyOnce sync.Once
	dummySalt string
	dummyHash string
}

func (s *AuthService) hasher() *hash.Hasher {
	if s.Hasher == nil {
		return hash.New(0)
	}
	return s.Hasher
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLen)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < MinUsernameLen {
		return nil, fmt.Errorf("%w: username must be at least %d characters", ErrInvalidInput, MinUsernameLen)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	salt, err := hash.NewSalt()
	if err != nil {
		l.Error("register_error", "reason", "cannot generate salt", "error", err)
		return nil, err
	}
	pwHash, err := s.hasher().HashPassword(salt, password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		PasswordSalt: salt,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, storageErr("create user", err)
	}

	l.Info("user_registered", "user_id", user.ID)
	publish(ctx, s.Events, events.TopicUserEvents, strconv.FormatUint(uint64(user.ID), 10),
		events.TypeUserRegistered, map[string]any{"user_id": user.ID, "username": user.Username})
	return user, nil
}

// Authenticate reports ErrInvalidCredentials both for unknown users and wrong passwords.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate")

	user, err := s.Repo.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.burnDummyCheck(password)
			return nil, ErrInvalidCredentials
		}
		l.Error("authenticate_error", "reason", "cannot load user", "error", err)
		return nil, storageErr("load user", err)
	}

	if !s.hasher().CheckPassword(user.PasswordHash, user.PasswordSalt, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// burnDummyCheck spends the same hashing work as a real check so unknown usernames
// are not distinguishable by response time.
func (s *AuthService) burnDummyCheck(password string) {
	s.dummyOnce.Do(func() {
		s.dummySalt, _ = hash.NewSalt()
		s.dummyHash, _ = s.hasher().HashPassword(s.dummySalt, "dummy-password")
	})
	_ = s.hasher().CheckPassword(s.dummyHash, s.dummySalt, password)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password", "user_id", userID)

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return storageErr("load user", err)
	}
	if !s.hasher().CheckPassword(user.PasswordHash, user.PasswordSalt, oldPassword) {
		return ErrInvalidCredentials
	}

	salt, err := hash.NewSalt()
	if err != nil {
		return err
	}
	pwHash, err := s.hasher().HashPassword(salt, newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, userID, pwHash, salt); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		l.Error("change_password_error", "reason", "cannot store password", "error", err)
		return storageErr("update password", err)
	}

	l.Info("password_changed")
	publish(ctx, s.Events, events.TopicUserEvents, strconv.FormatUint(uint64(userID), 10),
		events.TypePasswordChanged, map[string]any{"user_id": userID})
	return nil
}

func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = defaultAccessTTL
	}
	exp := time.Now().Add(ttl)
	tok, err := tokens.NewAccessToken(s.JWTSecret, strconv.FormatUint(uint64(user.ID), 10), user.Role(), exp)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// EnsureAdmin creates an administrator when none exists yet and reports whether it did.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	exists, err := s.Repo.AdminExists(ctx)
	if err != nil {
		return false, storageErr("check admin", err)
	}
	if exists {
		return false, nil
	}

	salt, err := hash.NewSalt()
	if err != nil {
		return false, err
	}
	pwHash, err := s.hasher().HashPassword(salt, password)
	if err != nil {
		return false, err
	}

	admin := &models.User{
		Username:     strings.TrimSpace(username),
		PasswordHash: pwHash,
		PasswordSalt: salt,
		IsAdmin:      true,
	}
	if err := s.Repo.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return false, fmt.Errorf("%w: %s", ErrDuplicateUsername, admin.Username)
		}
		return false, storageErr("create admin", err)
	}
	logging.FromContext(ctx).Info("admin_seeded", "svc", "auth.ensure_admin", "username", admin.Username)
	return true, nil
}
