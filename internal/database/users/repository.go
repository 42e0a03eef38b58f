// Package users provides database operations for back office accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByLogin(ctx, "admin")
package users

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/consultorio/internal/entities"
)

var ErrNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *Repository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByLogin matches either the username or the email.
func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Exists reports whether a user with this username or email is present.
func (r *Repository) Exists(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error
	return count, err
}

// RecordLogin resets the failure counter and stamps the login time.
func (r *Repository) RecordLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"last_login_at":      at,
		"failed_login_count": 0,
		"locked_until":       nil,
	}).Error
}

// RecordFailure stores the new failure count and, when lockedUntil is
// non-nil, the lock expiry.
func (r *Repository) RecordFailure(ctx context.Context, id uint, count int, lockedUntil *time.Time) error {
	updates := map[string]any{"failed_login_count": count}
	if lockedUntil != nil {
		updates["locked_until"] = *lockedUntil
	}
	return r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
