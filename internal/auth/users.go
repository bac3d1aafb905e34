// ABOUTME: Password users checked with bcrypt for HTTP Basic authentication
// ABOUTME: Unknown users still pay for a bcrypt comparison to keep timing uniform

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user or wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is compared against when the user does not exist.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// User is a login allowed to reach protected routes.
type User struct {
	Name         string
	PasswordHash string // bcrypt
}

// Users is a set of password users keyed by name.
type Users struct {
	byName map[string]string
}

// NewUsers builds a user set. Hashes are checked for bcrypt format.
func NewUsers(users []User) (*Users, error) {
	u := &Users{byName: make(map[string]string, len(users))}
	for _, user := range users {
		if user.Name == "" {
			return nil, errors.New("user name is required")
		}
		if _, err := bcrypt.Cost([]byte(user.PasswordHash)); err != nil {
			return nil, fmt.Errorf("user %q: password_hash is not a bcrypt hash: %w", user.Name, err)
		}
		u.byName[user.Name] = user.PasswordHash
	}
	return u, nil
}

// Len returns the number of users.
func (u *Users) Len() int {
	if u == nil {
		return 0
	}
	return len(u.byName)
}

// Check verifies a name and password.
func (u *Users) Check(name, password string) error {
	hash, ok := "", false
	if u != nil {
		hash, ok = u.byName[name]
	}
	if !ok {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for User.PasswordHash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
