// Package service implements the login, logout and user management rules
// on top of the user and token stores.
package service

import (
	"context"
	"fmt"

	"github.com/patric-chuzhbe/userauth/internal/hasher"
	"github.com/patric-chuzhbe/userauth/internal/logger"
	"github.com/patric-chuzhbe/userauth/internal/models"
	"github.com/patric-chuzhbe/userauth/internal/user"
)

type userKeeper interface {
	FindByUsername(ctx context.Context, name string) (user.User, bool, error)
	FindByID(ctx context.Context, id int) (user.User, bool, error)
	All(ctx context.Context) ([]user.User, error)
	Create(ctx context.Context, usr user.User) (user.User, error)
	Delete(ctx context.Context, id int) error
}

type tokenKeeper interface {
	Issue(ctx context.Context, usr user.User) (string, error)
	Revoke(ctx context.Context, token string) (bool, error)
	Count() int
}

type Service struct {
	users  userKeeper
	tokens tokenKeeper
}

func New(users userKeeper, tokens tokenKeeper) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

// Login checks the credentials and issues a new session token.
// An unknown username and a wrong password both yield models.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (token string, message string, err error) {
	usr, found, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if !found || !hasher.Verify(password, usr.Password) {
		logger.Log.Infow("login failed: invalid credentials", "username", username)
		return "", "", models.ErrUnauthorized
	}

	token, err = s.tokens.Issue(ctx, usr)
	if err != nil {
		return "", "", fmt.Errorf("issuing token for %s: %w", usr.Username, err)
	}

	logger.Log.Infow("login successful", "username", usr.Username, "active_tokens", s.tokens.Count())

	return token, fmt.Sprintf("Login successful for %s!", usr.Username), nil
}

// Logout revokes the token. Unknown tokens yield models.ErrUnauthorized.
func (s *Service) Logout(ctx context.Context, token string) error {
	revoked, err := s.tokens.Revoke(ctx, token)
	if err != nil {
		return err
	}
	if !revoked {
		logger.Log.Infoln("logout failed: token not found in store")
		return models.ErrUnauthorized
	}

	logger.Log.Infow("logout successful", "active_tokens", s.tokens.Count())

	return nil
}

func (s *Service) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.users.All(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int) (user.User, error) {
	usr, found, err := s.users.FindByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	if !found {
		return user.User{}, models.ErrNotFound
	}

	return usr, nil
}

// CreateUser stores newUser on behalf of caller, who must be an admin.
// Only the password is changed: it is stored as its digest.
func (s *Service) CreateUser(ctx context.Context, caller user.User, newUser user.User) (user.User, error) {
	if !caller.IsAdmin {
		return user.User{}, models.ErrNotAdmin
	}

	return s.users.Create(ctx, newUser)
}

// DeleteUser removes the user with the given id on behalf of caller,
// who must be an admin.
func (s *Service) DeleteUser(ctx context.Context, caller user.User, id int) error {
	if !caller.IsAdmin {
		return models.ErrNotAdmin
	}

	return s.users.Delete(ctx, id)
}
