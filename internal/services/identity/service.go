package identity

import (
	"errors"
	"fmt"
	"unicode"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
	"cipherchat/internal/services/keyring"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	// ErrCorruptIdentity is returned when a stored private key does not
	// match its stored public key.
	ErrCorruptIdentity = errors.New("stored identity is inconsistent")
)

// Service manages identity key creation and access using a backing store.
type Service struct {
	store domain.IdentityStore
}

// New returns an identity service backed by the given store.
func New(s domain.IdentityStore) *Service { return &Service{store: s} }

// GenerateIdentity creates a new keypair, saves it encrypted with the
// passphrase, and returns it with its fingerprint.
func (s *Service) GenerateIdentity(passphrase string) (domain.Identity, domain.Fingerprint, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, "", ErrWeakPassphrase
	}

	id, err := crypto.GenerateIdentity()
	if err != nil {
		return domain.Identity{}, "", err
	}
	if err := s.store.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, "", err
	}
	return id, crypto.Fingerprint(id.Public), nil
}

// LoadIdentity decrypts and returns the stored keypair.
func (s *Service) LoadIdentity(passphrase string) (domain.Identity, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return domain.Identity{}, err
	}
	pub, err := crypto.PublicFromPrivate(id.Private)
	if err != nil || pub != id.Public {
		return domain.Identity{}, ErrCorruptIdentity
	}
	return id, nil
}

// LoadKeyring returns a keyring holding the stored keypair.
func (s *Service) LoadKeyring(passphrase string) (*keyring.Keyring, error) {
	id, err := s.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	return keyring.FromIdentity(id), nil
}

// FingerprintIdentity returns a short fingerprint of the stored public key.
func (s *Service) FingerprintIdentity(passphrase string) (domain.Fingerprint, error) {
	id, err := s.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(id.Public), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
