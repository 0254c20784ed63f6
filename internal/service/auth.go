package service

import (
	"context"
	"errors"

	"github.com/nmoreau/daylist/internal/hash"
	"github.com/nmoreau/daylist/internal/logging"
	"github.com/nmoreau/daylist/internal/models"
	"github.com/nmoreau/daylist/internal/repo"
	"github.com/nmoreau/daylist/internal/token"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	Repo   *repo.Repo
	Hasher hash.Hasher
	Signer token.Signer
}

type AuthResult struct {
	Token string
	User  *models.User
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	pwHash, err := s.Hasher.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Theme:        "light",
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			l.Warn("register_failed", "reason", "duplicate username or email")
			return nil, err
		}
		l.Error("register_failed", "error", err)
		return nil, err
	}

	tok, err := s.Signer.Issue(user.ID)
	if err != nil {
		l.Error("register_failed", "reason", "cannot issue token", "error", err)
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	return &AuthResult{Token: tok, User: &user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	if !s.Hasher.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	tok, err := s.Signer.Issue(user.ID)
	if err != nil {
		l.Error("login_failed", "reason", "cannot issue token", "error", err)
		return nil, err
	}

	l.Info("user_logged_in", "user_id", user.ID)
	return &AuthResult{Token: tok, User: user}, nil
}
