package keyring

import (
	"encoding/base64"
	"fmt"
	"sync"
	"unicode/utf8"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
	"cipherchat/internal/util/memzero"
)

// Keyring implements domain.KeyStore.
type Keyring struct {
	id     domain.Identity
	pubStr string

	mu    sync.RWMutex
	peers map[string]domain.X25519Public
}

// New returns a keyring with a freshly generated keypair.
func New() (*Keyring, error) {
	id, err := crypto.GenerateIdentity()
	if err != nil {
		return nil, err
	}
	return FromIdentity(id), nil
}

// FromIdentity returns a keyring using an existing keypair.
func FromIdentity(id domain.Identity) *Keyring {
	return &Keyring{
		id:     id,
		pubStr: crypto.EncodePublicKey(id.Public),
		peers:  make(map[string]domain.X25519Public),
	}
}

// PublicKey returns this node's public key.
func (k *Keyring) PublicKey() domain.X25519Public { return k.id.Public }

// PublicKeyString returns this node's public key in wire form.
func (k *Keyring) PublicKeyString() string { return k.pubStr }

// Fingerprint returns a short fingerprint of this node's public key.
func (k *Keyring) Fingerprint() domain.Fingerprint { return crypto.Fingerprint(k.id.Public) }

// AddPeerKey stores the decoded keyString for identity. An identity that
// already has a key must be removed first.
func (k *Keyring) AddPeerKey(identity, keyString string) error {
	pub, err := crypto.DecodePublicKey(keyString)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.peers[identity]; ok {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateIdentity, identity)
	}
	k.peers[identity] = pub
	return nil
}

// RemovePeerKey drops the key for identity and reports whether one existed.
func (k *Keyring) RemovePeerKey(identity string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	_, ok := k.peers[identity]
	delete(k.peers, identity)
	return ok
}

// HasPeerKey reports whether a key is stored for identity.
func (k *Keyring) HasPeerKey(identity string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()

	_, ok := k.peers[identity]
	return ok
}

// EncryptFor seals plaintext to identity's stored key.
func (k *Keyring) EncryptFor(identity, plaintext string) (string, error) {
	k.mu.RLock()
	pub, ok := k.peers[identity]
	k.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownPeer, identity)
	}

	sealed, err := crypto.Seal(pub, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return crypto.B64(sealed), nil
}

// DecryptOwn opens a ciphertext addressed to this node.
func (k *Keyring) DecryptOwn(ciphertext string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecryptionFailed, err)
	}
	msg, ok := crypto.Open(k.id, sealed)
	if !ok {
		return "", domain.ErrDecryptionFailed
	}
	defer memzero.Zero(msg)

	if !utf8.Valid(msg) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", domain.ErrDecryptionFailed)
	}
	return string(msg), nil
}

// Compile-time assertion that Keyring implements domain.KeyStore.
var _ domain.KeyStore = (*Keyring)(nil)
