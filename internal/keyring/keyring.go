package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/wth/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested name
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get retrieves the secret stored under user.
func Get(user string) (string, error) {
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret under user.
func Set(user, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", user)
	}
	if err := keyring.Set(constants.AppName, user, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", user, err)
	}
	return nil
}

// Delete removes the secret stored under user.
func Delete(user string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", user, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string.
func GetConnectionString() (string, error) {
	return Get(constants.KeyringDBConnection)
}

// SetConnectionString stores the database connection string.
func SetConnectionString(connStr string) error {
	return Set(constants.KeyringDBConnection, connStr)
}

// DeleteConnectionString removes the database connection string.
func DeleteConnectionString() error {
	return Delete(constants.KeyringDBConnection)
}

// GetProfileToken retrieves the cached profile JWT.
func GetProfileToken() (string, error) {
	return Get(constants.KeyringProfileToken)
}

// SetProfileToken stores the profile JWT.
func SetProfileToken(token string) error {
	return Set(constants.KeyringProfileToken, token)
}

// DeleteProfileToken removes the profile JWT.
func DeleteProfileToken() error {
	return Delete(constants.KeyringProfileToken)
}

// IsAvailable checks if the OS keyring is available on the current system.
// ErrNotFound still means the keyring answered.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
