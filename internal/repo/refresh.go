package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mernspace/auth-service/internal/models"
)

// PersistRefresh creates one row per issued refresh token. The generated id
// is what gets embedded into the refresh token payload.
func (r *Repo) PersistRefresh(ctx context.Context, userID uint, expiresAt time.Time) (*models.RefreshToken, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	row := models.RefreshToken{
		UserID:    userID,
		ExpiresAt: expiresAt.Unix(),
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repo) FindRefreshByID(ctx context.Context, id uint) (*models.RefreshToken, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	return findRefresh(r.DB.WithContext(ctx), id)
}

// RevokeRefresh marks a row revoked. Revoking an unknown id reports
// ErrRefreshNotFound so callers can tell a stale cookie from a store failure.
func (r *Repo) RevokeRefresh(ctx context.Context, id uint) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	result := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRefreshNotFound
	}
	return nil
}

// RotateRefresh atomically revokes the old row and creates its replacement.
// A row that is missing, expired or already revoked aborts the transaction.
func (r *Repo) RotateRefresh(ctx context.Context, oldID, userID uint, expiresAt time.Time) (*models.RefreshToken, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	fresh := models.RefreshToken{
		UserID:    userID,
		ExpiresAt: expiresAt.Unix(),
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := findRefresh(tx, oldID)
		if err != nil {
			return err
		}
		if old.Revoked || old.ExpiresAt < time.Now().Unix() {
			return ErrRefreshUnusable
		}
		if err := tx.Model(&models.RefreshToken{}).
			Where("id = ?", oldID).
			Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(&fresh).Error
	})
	if err != nil {
		return nil, err
	}
	return &fresh, nil
}

func findRefresh(db *gorm.DB, id uint) (*models.RefreshToken, error) {
	var row models.RefreshToken
	if err := db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshNotFound
		}
		return nil, err
	}
	return &row, nil
}
