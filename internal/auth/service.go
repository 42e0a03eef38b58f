package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/database/users"
	"github.com/mrlokans/consultorio/internal/entities"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrInvalidRole      = errors.New("invalid role")
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrAccountLocked    = errors.New("account is locked due to too many failed login attempts")
	ErrUsernameInvalid  = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid     = errors.New("invalid email format")
)

// UserStore is the persistence the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *entities.User) error
	GetUserByID(ctx context.Context, id uint) (*entities.User, error)
	GetUserByLogin(ctx context.Context, login string) (*entities.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
	CountUsers(ctx context.Context) (int64, error)
	RecordLogin(ctx context.Context, id uint, at time.Time) error
	RecordFailure(ctx context.Context, id uint, count int, lockedUntil *time.Time) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

// Service handles authentication and user management.
type Service struct {
	users  UserStore
	config config.Auth
	now    func() time.Time
}

func NewService(store UserStore, cfg config.Auth) *Service {
	return &Service{users: store, config: cfg, now: time.Now}
}

func (s *Service) lookup(err error) error {
	if errors.Is(err, users.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// CreateUser creates a new user with password authentication.
func (s *Service) CreateUser(ctx context.Context, username, email, password string, role entities.UserRole) (*entities.User, error) {
	switch {
	case username == "":
		return nil, ErrUsernameRequired
	case email == "":
		return nil, ErrEmailRequired
	case password == "":
		return nil, ErrPasswordRequired
	case !usernamePattern.MatchString(username):
		return nil, ErrUsernameInvalid
	case len(email) > 254 || !emailPattern.MatchString(email):
		return nil, ErrEmailInvalid
	}

	switch role {
	case entities.UserRoleAdmin, entities.UserRoleEditor, entities.UserRoleViewer:
	default:
		return nil, ErrInvalidRole
	}

	exists, err := s.users.Exists(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate validates credentials and returns the user. The account is
// locked for LockoutDuration after MaxLoginAttempts consecutive failures.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*entities.User, error) {
	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, s.lookup(err)
	}

	now := s.now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return nil, ErrAccountLocked
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		s.recordFailedLogin(ctx, user, now)
		return nil, err
	}

	if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
		log.Printf("Failed to record login for user %d: %v", user.ID, err)
	}
	user.LastLoginAt = &now
	user.FailedLoginCount = 0
	user.LockedUntil = nil
	return user, nil
}

func (s *Service) recordFailedLogin(ctx context.Context, user *entities.User, now time.Time) {
	user.FailedLoginCount++

	maxAttempts := s.config.MaxLoginAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	var lockedUntil *time.Time
	if user.FailedLoginCount >= maxAttempts {
		lockout := s.config.LockoutDuration
		if lockout == 0 {
			lockout = 30 * time.Minute
		}
		until := now.Add(lockout)
		lockedUntil = &until
	}

	if err := s.users.RecordFailure(ctx, user.ID, user.FailedLoginCount, lockedUntil); err != nil {
		log.Printf("Failed to record failed login for user %d: %v", user.ID, err)
	}
}

func (s *Service) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, s.lookup(err)
	}
	return user, nil
}

// ChangePassword updates a user's password after checking the old one.
func (s *Service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckPassword(oldPassword, user.PasswordHash); err != nil {
		return err
	}

	newHash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}
	return s.lookup(s.users.UpdatePassword(ctx, userID, newHash))
}

// HasUsers returns true if any users exist in the database.
func (s *Service) HasUsers(ctx context.Context) (bool, error) {
	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsAuthEnabled returns true if authentication is required.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}
