package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mernspace/auth-service/internal/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	return New(db)
}

func testUser() *models.User {
	return &models.User{
		FirstName: "A",
		LastName:  "B",
		Email:     "a@b.com",
		Password:  "$2a$10$notarealhashnotarealhashnotarealhashnotarealhashnota",
		Role:      models.RoleCustomer,
	}
}

func TestRepo_CreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, testUser()))

	err := r.CreateUser(ctx, testUser())
	assert.ErrorIs(t, err, ErrEmailTaken)

	count, err := r.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRepo_FindUserByEmail(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, r.CreateUser(ctx, u))
	require.NotZero(t, u.ID)

	found, err := r.FindUserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, models.RoleCustomer, found.Role)

	_, err = r.FindUserByEmail(ctx, "missing@b.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepo_FindUserByID(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, r.CreateUser(ctx, u))

	found, err := r.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, found.Email)

	_, err = r.FindUserByID(ctx, u.ID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepo_PersistRefresh(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, r.CreateUser(ctx, u))

	exp := time.Now().Add(24 * time.Hour)
	row, err := r.PersistRefresh(ctx, u.ID, exp)
	require.NoError(t, err)
	require.NotZero(t, row.ID)
	assert.Equal(t, u.ID, row.UserID)
	assert.Equal(t, exp.Unix(), row.ExpiresAt)
	assert.False(t, row.Revoked)

	found, err := r.FindRefreshByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, row.ID, found.ID)
}

func TestRepo_RevokeRefresh(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, r.CreateUser(ctx, u))

	row, err := r.PersistRefresh(ctx, u.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, r.RevokeRefresh(ctx, row.ID))

	found, err := r.FindRefreshByID(ctx, row.ID)
	require.NoError(t, err)
	assert.True(t, found.Revoked)

	assert.ErrorIs(t, r.RevokeRefresh(ctx, row.ID+100), ErrRefreshNotFound)
}

func TestRepo_RotateRefresh(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, r.CreateUser(ctx, u))

	old, err := r.PersistRefresh(ctx, u.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	fresh, err := r.RotateRefresh(ctx, old.ID, u.ID, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID)

	revoked, err := r.FindRefreshByID(ctx, old.ID)
	require.NoError(t, err)
	assert.True(t, revoked.Revoked)

	// second use of the revoked id must fail
	_, err = r.RotateRefresh(ctx, old.ID, u.ID, time.Now().Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrRefreshUnusable)
}

func TestRepo_RotateRefresh_ExpiredRow(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := testUser()
	require.NoError(t, r.CreateUser(ctx, u))

	old, err := r.PersistRefresh(ctx, u.ID, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = r.RotateRefresh(ctx, old.ID, u.ID, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrRefreshUnusable)
}

func TestRepo_RotateRefresh_UnknownID(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)

	_, err := r.RotateRefresh(context.Background(), 12345, 1, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrRefreshNotFound)
}
