package secrets

import (
	"errors"

	"github.com/99designs/keyring"
)

const serviceName = "expair"

// Store keeps secrets in the OS keyring
type Store struct {
	ring keyring.Keyring
}

// Open connects to the first available desktop keyring backend
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.WinCredBackend,
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
		},
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, err
	}
	return NewStore(ring), nil
}

func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Get returns the secret stored under name, or "" when there is none
func (s *Store) Get(name string) (string, error) {
	item, err := s.ring.Get(name)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (s *Store) Set(name, value string) error {
	if value == "" {
		return s.Delete(name)
	}
	return s.ring.Set(keyring.Item{
		Key:   name,
		Data:  []byte(value),
		Label: serviceName + " " + name + " API key",
	})
}

func (s *Store) Delete(name string) error {
	err := s.ring.Remove(name)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
