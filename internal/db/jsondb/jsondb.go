// Package jsondb reads the start-up user list from a JSON file.
// The file is only read; the service never writes it back.
package jsondb

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/patric-chuzhbe/userauth/internal/user"
)

func parseJSONFile(fileName string, users *[]user.User) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	err = decoder.Decode(users)
	if err != nil {
		return err
	}

	return nil
}

// LoadUsers reads a JSON array of users with plaintext passwords.
func LoadUsers(fileName string) ([]user.User, error) {
	var users []user.User
	if err := parseJSONFile(fileName, &users); err != nil {
		return nil, fmt.Errorf("error reading seed file %s: %w", fileName, err)
	}

	return users, nil
}

// HasAdmin reports whether any of the users is an admin.
func HasAdmin(users []user.User) bool {
	for _, usr := range users {
		if usr.IsAdmin {
			return true
		}
	}

	return false
}
