package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mernspace/auth-service/internal/models"
)

// CreateUser persists a new user. The email unique index is the source of
// truth for duplicates; a race past the pre-check surfaces as ErrEmailTaken
// all the same.
func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", u.Email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repo) CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
