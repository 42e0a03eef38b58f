package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/database/users"
	"github.com/mrlokans/consultorio/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestService(t *testing.T, cfg config.Auth) *Service {
	t.Helper()
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 4
	}
	return NewService(users.NewRepository(setupTestDB(t)), cfg)
}

func TestService_CreateUser(t *testing.T) {
	svc := newTestService(t, config.Auth{})
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		role     entities.UserRole
		wantErr  error
	}{
		{"valid admin user", "admin", "admin@templo.com.br", "password12345", entities.UserRoleAdmin, nil},
		{"missing username", "", "test@example.com", "password12345", entities.UserRoleViewer, ErrUsernameRequired},
		{"missing email", "testuser", "", "password12345", entities.UserRoleViewer, ErrEmailRequired},
		{"missing password", "testuser", "test@example.com", "", entities.UserRoleViewer, ErrPasswordRequired},
		{"password too short", "testuser", "test@example.com", "short", entities.UserRoleViewer, ErrPasswordTooShort},
		{"invalid role", "testuser", "test@example.com", "password12345", "superuser", ErrInvalidRole},
		{"invalid username", "a b", "test@example.com", "password12345", entities.UserRoleViewer, ErrUsernameInvalid},
		{"invalid email", "testuser", "not-an-email", "password12345", entities.UserRoleViewer, ErrEmailInvalid},
		{"duplicate username", "admin", "other@example.com", "password12345", entities.UserRoleViewer, ErrUserExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.CreateUser(ctx, tt.username, tt.email, tt.password, tt.role)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateUser() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if user.ID == 0 {
					t.Error("expected user to be persisted")
				}
				if user.PasswordHash == tt.password {
					t.Error("password stored in plain text")
				}
			}
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := newTestService(t, config.Auth{MaxLoginAttempts: 3, LockoutDuration: time.Hour})
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "pai_joao", "joao@templo.com.br", "correct-horse-battery", entities.UserRoleEditor); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	t.Run("by username", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "pai_joao", "correct-horse-battery")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if user.LastLoginAt == nil {
			t.Error("expected last login to be set")
		}
	})

	t.Run("by email", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "joao@templo.com.br", "correct-horse-battery"); err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "whatever-password")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("got %v, want ErrUserNotFound", err)
		}
	})

	t.Run("lockout after repeated failures", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := svc.Authenticate(ctx, "pai_joao", "wrong-password")
			if !errors.Is(err, ErrInvalidPassword) {
				t.Fatalf("attempt %d: got %v, want ErrInvalidPassword", i, err)
			}
		}
		_, err := svc.Authenticate(ctx, "pai_joao", "correct-horse-battery")
		if !errors.Is(err, ErrAccountLocked) {
			t.Fatalf("got %v, want ErrAccountLocked", err)
		}

		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { svc.now = time.Now }()
		if _, err := svc.Authenticate(ctx, "pai_joao", "correct-horse-battery"); err != nil {
			t.Fatalf("expected lock to expire, got %v", err)
		}
	})
}

func TestService_ChangePassword(t *testing.T) {
	svc := newTestService(t, config.Auth{})
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "admin", "admin@templo.com.br", "old-password-123", entities.UserRoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "wrong-password-1", "new-password-456"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("got %v, want ErrInvalidPassword", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "old-password-123", "new-password-456"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "admin", "new-password-456"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if err := svc.ChangePassword(ctx, 999, "x", "y"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}

func TestService_HasUsers(t *testing.T) {
	svc := newTestService(t, config.Auth{})
	ctx := context.Background()

	has, err := svc.HasUsers(ctx)
	if err != nil || has {
		t.Fatalf("HasUsers() = %v, %v; want false, nil", has, err)
	}
	if _, err := svc.CreateUser(ctx, "admin", "admin@templo.com.br", "password12345", entities.UserRoleAdmin); err != nil {
		t.Fatal(err)
	}
	has, err = svc.HasUsers(ctx)
	if err != nil || !has {
		t.Fatalf("HasUsers() = %v, %v; want true, nil", has, err)
	}
}

func TestService_IsAuthEnabled(t *testing.T) {
	if NewService(nil, config.Auth{Mode: config.AuthModeNone}).IsAuthEnabled() {
		t.Error("none mode should not require auth")
	}
	if !NewService(nil, config.Auth{Mode: config.AuthModeLocal}).IsAuthEnabled() {
		t.Error("local mode should require auth")
	}
}
