// Package memorystorage keeps the registered users in process memory.
// Users are kept in insertion order and looked up by linear scan.
package memorystorage

import (
	"context"
	"strings"
	"sync"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/userauth/internal/hasher"
	"github.com/patric-chuzhbe/userauth/internal/models"
	"github.com/patric-chuzhbe/userauth/internal/user"
)

// MemoryStorage is the user store. All methods are safe for concurrent use.
type MemoryStorage struct {
	mu    sync.RWMutex
	users []user.User
}

// Seed returns the users present at start-up when no seed file is configured.
// Passwords are plaintext; New hashes them.
func Seed() []user.User {
	return []user.User{
		{ID: 1, Username: "ezio", Password: "password123", Fullname: "Ezio Auditore", Email: "ezio@example.com", Address: "Florence", AddedBy: "System"},
		{ID: 2, Username: "fzkn4", Password: "securepass", Fullname: "Fzkn4 Test", Email: "fzkn4@example.com", Address: "Rome", AddedBy: "System"},
		{ID: 3, Username: "auditore", Password: "anotherpass", Fullname: "Auditore Da Firenze", Email: "auditore@example.com", Address: "Venice", AddedBy: "System"},
		{ID: 99, Username: "admin", Password: "adminpass", Fullname: "Super Admin", Email: "admin@example.com", Address: "Headquarters", AddedBy: "System", IsAdmin: true},
	}
}

// New creates a store holding the given users with their plaintext
// passwords replaced by digests. Users repeating an earlier id are skipped.
func New(seed ...user.User) (*MemoryStorage, error) {
	theStorage := &MemoryStorage{
		users: make([]user.User, 0, len(seed)),
	}
	for _, usr := range seed {
		if theStorage.indexByID(usr.ID) >= 0 {
			continue
		}
		theStorage.users = append(theStorage.users, usr.WithPassword(hasher.Hash(usr.Password)))
	}

	return theStorage, nil
}

func (theStorage *MemoryStorage) indexByID(id int) int {
	for i := range theStorage.users {
		if theStorage.users[i].ID == id {
			return i
		}
	}

	return -1
}

// FindByUsername returns the first user whose username equals name ignoring case.
func (theStorage *MemoryStorage) FindByUsername(ctx context.Context, name string) (user.User, bool, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	found := funk.Find(theStorage.users, func(usr user.User) bool {
		return strings.EqualFold(usr.Username, name)
	})
	if found == nil {
		return user.User{}, false, nil
	}

	return found.(user.User), true, nil
}

func (theStorage *MemoryStorage) FindByID(ctx context.Context, id int) (user.User, bool, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	i := theStorage.indexByID(id)
	if i < 0 {
		return user.User{}, false, nil
	}

	return theStorage.users[i], true, nil
}

// All returns a snapshot of the stored users in insertion order.
func (theStorage *MemoryStorage) All(ctx context.Context) ([]user.User, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	result := make([]user.User, len(theStorage.users))
	copy(result, theStorage.users)

	return result, nil
}

// Create stores usr with its password hashed and returns the stored record.
// It fails with models.ErrConflict when the id is taken.
func (theStorage *MemoryStorage) Create(ctx context.Context, usr user.User) (user.User, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	if theStorage.indexByID(usr.ID) >= 0 {
		return user.User{}, models.ErrConflict
	}

	stored := usr.WithPassword(hasher.Hash(usr.Password))
	theStorage.users = append(theStorage.users, stored)

	return stored, nil
}

// Delete removes the user with the given id. Admin users cannot be removed.
func (theStorage *MemoryStorage) Delete(ctx context.Context, id int) error {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	i := theStorage.indexByID(id)
	if i < 0 {
		return models.ErrNotFound
	}
	if theStorage.users[i].IsAdmin {
		return models.ErrForbidden
	}

	theStorage.users = funk.Filter(theStorage.users, func(usr user.User) bool {
		return usr.ID != id
	}).([]user.User)

	return nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
