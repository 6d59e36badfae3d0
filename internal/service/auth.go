package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mernspace/auth-service/internal/events"
	"github.com/mernspace/auth-service/internal/hash"
	"github.com/mernspace/auth-service/internal/httperrors"
	"github.com/mernspace/auth-service/internal/logging"
	"github.com/mernspace/auth-service/internal/models"
	"github.com/mernspace/auth-service/internal/repo"
	"github.com/mernspace/auth-service/internal/tokens"
)

// AuthService composes the user directory, credential verifier, token signer
// and refresh token store into the register/login/self/refresh/logout flows.
type AuthService struct {
	Repo   *repo.Repo
	Signer *tokens.Signer
	Events *events.Producer

	// BcryptCost overrides the hashing cost when non-zero; tests use a low
	// cost to keep the suite fast.
	BcryptCost int
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type TokenPair struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	cost := s.BcryptCost
	if cost == 0 {
		cost = hash.DefaultCost
	}
	hashed, err := hash.HashPasswordCost(in.Password, cost)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, nil, httperrors.Internal(err)
	}

	user := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hashed,
		Role:      models.RoleCustomer,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_failed", "reason", "email_taken")
			return nil, nil, httperrors.Wrap(httperrors.KindConflict, "Email already exists", err)
		}
		l.Error("register_failed", "reason", "db_error", "error", err)
		return nil, nil, httperrors.Internal(err)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		// the user row is already committed; a retry simply goes through
		// the login flow
		return nil, nil, err
	}

	l.Info("register_success", "user_id", user.ID)
	s.publish(ctx, events.TypeUserRegistered, user)
	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			// same rejection as a wrong password, no user enumeration
			l.Warn("login_failed", "reason", "unknown_email")
			return nil, nil, httperrors.BadCredentials()
		}
		l.Error("login_failed", "reason", "db_error", "error", err)
		return nil, nil, httperrors.Internal(err)
	}

	if !hash.CheckPassword(user.Password, password) {
		l.Warn("login_failed", "reason", "password_mismatch", "user_id", user.ID)
		return nil, nil, httperrors.BadCredentials()
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	s.publish(ctx, events.TypeUserLoggedIn, user)
	return user, pair, nil
}

func (s *AuthService) Self(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, httperrors.New(httperrors.KindNotFound, "user not found")
		}
		return nil, httperrors.Internal(err)
	}
	return user, nil
}

// Refresh rotates a verified refresh token: the old row is revoked and a new
// pair is issued against a fresh row, all inside one transaction.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Signer.VerifyRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "reason", "verify", "error", err)
		return nil, nil, httperrors.Wrap(httperrors.KindUnauthorized, "invalid refresh token", err)
	}

	oldID, err := parseID(claims.TokenID)
	if err != nil {
		l.Warn("refresh_failed", "reason", "bad_token_id")
		return nil, nil, httperrors.New(httperrors.KindUnauthorized, "invalid refresh token")
	}
	userID, err := parseID(claims.Subject)
	if err != nil {
		l.Warn("refresh_failed", "reason", "bad_subject")
		return nil, nil, httperrors.New(httperrors.KindUnauthorized, "invalid refresh token")
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("refresh_failed", "reason", "user_gone", "user_id", userID)
			return nil, nil, httperrors.New(httperrors.KindUnauthorized, "invalid refresh token")
		}
		return nil, nil, httperrors.Internal(err)
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	row, err := s.Repo.RotateRefresh(ctx, oldID, user.ID, refreshExp)
	if err != nil {
		if errors.Is(err, repo.ErrRefreshNotFound) || errors.Is(err, repo.ErrRefreshUnusable) {
			l.Warn("refresh_failed", "reason", "row_unusable", "token_id", oldID)
			return nil, nil, httperrors.Wrap(httperrors.KindUnauthorized, "invalid refresh token", err)
		}
		return nil, nil, httperrors.Internal(err)
	}

	pair, err := s.signPair(user, row, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	l.Info("refresh_success", "user_id", user.ID, "token_id", row.ID)
	return user, pair, nil
}

// Logout revokes the presented refresh token. A token that does not verify
// or was already removed is treated as logged out.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	claims, err := s.Signer.VerifyRefresh(refreshToken)
	if err != nil {
		l.Warn("logout_ignored", "reason", "verify", "error", err)
		return nil
	}
	id, err := parseID(claims.TokenID)
	if err != nil {
		return nil
	}

	if err := s.Repo.RevokeRefresh(ctx, id); err != nil {
		if errors.Is(err, repo.ErrRefreshNotFound) {
			return nil
		}
		l.Error("logout_failed", "reason", "cannot revoke", "error", err)
		return httperrors.Internal(err)
	}

	l.Info("logout_success", "token_id", id)
	return nil
}

// issuePair persists a refresh token row and signs both tokens against it.
func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	l := logging.FromContext(ctx)

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	row, err := s.Repo.PersistRefresh(ctx, user.ID, refreshExp)
	if err != nil {
		l.Error("token_issue_failed", "reason", "cannot persist refresh token", "error", err)
		return nil, httperrors.Internal(err)
	}
	return s.signPair(user, row, refreshExp)
}

func (s *AuthService) signPair(user *models.User, row *models.RefreshToken, refreshExp time.Time) (*TokenPair, error) {
	sub := strconv.FormatUint(uint64(user.ID), 10)

	accessExp := time.Now().Add(tokens.AccessTTL)
	accessToken, err := s.Signer.SignAccess(sub, user.Role, accessExp)
	if err != nil {
		return nil, httperrors.Internal(err)
	}

	tokenID := strconv.FormatUint(uint64(row.ID), 10)
	refreshToken, err := s.Signer.SignRefresh(sub, user.Role, tokenID, refreshExp)
	if err != nil {
		return nil, httperrors.Internal(err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		AccessExp:    accessExp,
		RefreshToken: refreshToken,
		RefreshExp:   refreshExp,
	}, nil
}

// publish sends a user lifecycle event; failures are logged, never surfaced.
func (s *AuthService) publish(ctx context.Context, eventType string, user *models.User) {
	l := logging.FromContext(ctx)

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event := events.UserEvent{
		ID:     uuid.NewString(),
		Type:   eventType,
		UserID: user.ID,
		Email:  user.Email,
	}
	if err := s.Events.PublishEvent(pubCtx, events.TopicUserEvents, fmt.Sprint(user.ID), event); err != nil {
		l.Error("kafka publish error", "error", err)
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
