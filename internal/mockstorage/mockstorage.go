// Package mockstorage provides testify-based mocks of the user and token
// stores. They let service and router tests simulate storage failures.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/userauth/internal/user"
)

// UserStorageMock mocks the user store.
type UserStorageMock struct {
	mock.Mock
}

func (m *UserStorageMock) FindByUsername(ctx context.Context, name string) (user.User, bool, error) {
	args := m.Called(ctx, name)
	usr, _ := args.Get(0).(user.User)
	return usr, args.Bool(1), args.Error(2)
}

func (m *UserStorageMock) FindByID(ctx context.Context, id int) (user.User, bool, error) {
	args := m.Called(ctx, id)
	usr, _ := args.Get(0).(user.User)
	return usr, args.Bool(1), args.Error(2)
}

func (m *UserStorageMock) All(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]user.User)
	return users, args.Error(1)
}

func (m *UserStorageMock) Create(ctx context.Context, usr user.User) (user.User, error) {
	args := m.Called(ctx, usr)
	stored, _ := args.Get(0).(user.User)
	return stored, args.Error(1)
}

func (m *UserStorageMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TokenStorageMock mocks the token store.
//
// OnCount, when set, replaces the testify handler for Count, which is only
// used for log lines and rarely worth an expectation.
type TokenStorageMock struct {
	mock.Mock

	OnCount func() int
}

func (m *TokenStorageMock) Issue(ctx context.Context, usr user.User) (string, error) {
	args := m.Called(ctx, usr)
	return args.String(0), args.Error(1)
}

func (m *TokenStorageMock) Resolve(ctx context.Context, token string) (user.User, bool, error) {
	args := m.Called(ctx, token)
	usr, _ := args.Get(0).(user.User)
	return usr, args.Bool(1), args.Error(2)
}

func (m *TokenStorageMock) Revoke(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *TokenStorageMock) Count() int {
	if m.OnCount != nil {
		return m.OnCount()
	}
	return 0
}
