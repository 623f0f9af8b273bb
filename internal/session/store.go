// Package session persists the single Monarch API token in the OS secret
// store and builds clients from it.
package session

import (
	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService and KeyringAccount address the token in the secret store.
	KeyringService = "com.mcp.monarch-mcp-server"
	KeyringAccount = "monarch-token"
)

// ErrNotFound is returned by a SecretStore when no secret exists.
var ErrNotFound = errors.New("secret not found")

// SecretStore is a service/account addressed secret store.
type SecretStore interface {
	Set(service, account, secret string) error
	Get(service, account string) (string, error)
	Delete(service, account string) error
}

// KeyringStore is the OS keyring: Keychain on macOS, the Secret Service on
// Linux and the Credential Manager on Windows.
type KeyringStore struct{}

var _ SecretStore = KeyringStore{}

func (KeyringStore) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

func (KeyringStore) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return secret, err
}

func (KeyringStore) Delete(service, account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
