package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"cipherchat/internal/domain"
	"cipherchat/internal/util/memzero"
)

// ErrNoIdentity is returned by LoadIdentity when the file does not exist.
var ErrNoIdentity = errors.New("no identity file")

// IdentityFileStore persists a keypair to a single passphrase-sealed file.
type IdentityFileStore struct {
	path string
	kdf  kdfParams
	mu   sync.Mutex
}

// NewIdentityFileStore returns a store for the file at path.
func NewIdentityFileStore(path string) *IdentityFileStore {
	return &IdentityFileStore{path: path, kdf: defaultKDF}
}

// Path returns the file the store reads and writes.
func (s *IdentityFileStore) Path() string { return s.path }

// Exists reports whether the identity file is present.
func (s *IdentityFileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// SaveIdentity seals id under passphrase and writes it out, creating the
// parent directory if needed.
func (s *IdentityFileStore) SaveIdentity(passphrase string, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	b, err := seal(passphrase, raw, s.kdf)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return writeFile(s.path, b, 0o600)
}

// LoadIdentity reads and opens the identity file.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Identity{}, ErrNoIdentity
	}
	if err != nil {
		return domain.Identity{}, err
	}
	pt, err := open(passphrase, b)
	if err != nil {
		return domain.Identity{}, err
	}
	defer memzero.Zero(pt)

	var id domain.Identity
	if err := json.Unmarshal(pt, &id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
