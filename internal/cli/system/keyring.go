package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/keyring"
	"github.com/julianstephens/wth/internal/storage"
)

// KeyringSetCmd stores database connection credentials in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !storage.IsPostgresConnString(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := storage.ValidateConnString(cmd.ConnectionString); err != nil {
		if errors.Is(err, storage.ErrEmbeddedCredentials) {
			// The keyring is encrypted, so embedded credentials are allowed here
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   It will be stored as-is in the encrypted OS keyring, which is a secure place for credentials.")
			fmt.Println("   If you prefer to keep passwords separate from connection strings, consider using .pgpass or environment variables instead.")
		} else {
			return fmt.Errorf("invalid connection string: %w", err)
		}
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println("✓ Connection string stored successfully in OS keyring")
	fmt.Println("  You can now use wth without the --config flag")
	return nil
}

// KeyringGetCmd retrieves database connection credentials from the OS keyring
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'wth keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	fmt.Println("Connection string retrieved from keyring:")
	fmt.Println(maskPassword(connStr))
	return nil
}

// KeyringDeleteCmd removes database connection credentials from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	if _, err := keyring.GetConnectionString(); err == nil {
		fmt.Println("✓ Connection string is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("ℹ No connection string stored in keyring")
	}
	if _, err := keyring.GetProfileToken(); err == nil {
		fmt.Println("✓ Profile token is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("ℹ No profile token stored in keyring")
	}
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if storage.IsPostgresConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil || u.User == nil {
			return connStr
		}
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
		}
		return u.String()
	}

	fields := strings.Fields(connStr)
	for i, field := range fields {
		if key, _, ok := strings.Cut(field, "="); ok && strings.EqualFold(key, "password") {
			fields[i] = key + "=****"
		}
	}
	return strings.Join(fields, " ")
}
