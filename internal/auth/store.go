package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/99designs/keyring"
	"golang.org/x/oauth2"
)

const keyringService = "graph-mail"

// Store persists an OAuth2 token between runs.
type Store interface {
	// Load returns ErrTokenNotSet when nothing has been saved yet.
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
}

// FileStore keeps the token as JSON in a file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the token file.
func (s *FileStore) Load() (*oauth2.Token, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrTokenNotSet
		}

		return nil, fmt.Errorf("os.Open failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("json.NewDecoder.Decode failed: %w", err)
	}

	return token, nil
}

// Save overwrites the token file.
func (s *FileStore) Save(tok *oauth2.Token) error {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("os.OpenFile failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("json.NewEncoder.Encode failed: %w", err)
	}

	return nil
}

// KeyringStore keeps the token in the system keyring under key.
type KeyringStore struct {
	ring keyring.Keyring
	key  string
}

// NewKeyringStore creates a KeyringStore on an opened keyring.
func NewKeyringStore(ring keyring.Keyring, key string) *KeyringStore {
	return &KeyringStore{ring: ring, key: key}
}

// OpenKeyring opens the platform keyring, falling back to an encrypted file
// backend under ~/.config/graph-mail/credentials.
func OpenKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: keyringService,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/graph-mail/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("graph-mail-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("keyring.Open failed: %w", err)
	}

	return ring, nil
}

// Load reads the token from the keyring.
func (s *KeyringStore) Load() (*oauth2.Token, error) {
	item, err := s.ring.Get(s.key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrTokenNotSet
		}

		return nil, fmt.Errorf("ring.Get(%s) failed: %w", s.key, err)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(item.Data, token); err != nil {
		return nil, fmt.Errorf("json.Unmarshal failed: %w", err)
	}

	return token, nil
}

// Save writes the token to the keyring.
func (s *KeyringStore) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("json.Marshal failed: %w", err)
	}

	err = s.ring.Set(keyring.Item{
		Key:         s.key,
		Data:        data,
		Label:       "graph-mail OAuth token",
		Description: "Microsoft Graph delegated token",
	})
	if err != nil {
		return fmt.Errorf("ring.Set(%s) failed: %w", s.key, err)
	}

	return nil
}
