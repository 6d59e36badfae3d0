package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// queryTimeout bounds every persistence call; a hung database surfaces as an
// internal error instead of a stuck request.
const queryTimeout = 5 * time.Second

var (
	ErrEmailTaken      = errors.New("email already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrRefreshNotFound = errors.New("refresh token not found")
	ErrRefreshUnusable = errors.New("refresh token expired or revoked")
)

// Repo is the gorm-backed user directory and refresh token store. The handle
// is constructed once at startup and passed down; nothing here holds global
// state.
type Repo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{DB: db}
}

func bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}
