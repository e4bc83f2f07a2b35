package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"cipherchat/internal/util/memzero"
)

const envelopeVersion = 1

// ErrWrongPassphrase is returned when the passphrase is incorrect or the
// envelope has been modified.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted identity file")

// kdfParams are the scrypt cost parameters recorded in each envelope.
type kdfParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

var defaultKDF = kdfParams{N: 1 << 15, R: 8, P: 1}

// envelope is the on-disk form of a sealed payload.
type envelope struct {
	Version int       `json:"version"`
	KDF     kdfParams `json:"kdf"`
	Salt    []byte    `json:"salt"`
	Nonce   []byte    `json:"nonce"`
	Cipher  []byte    `json:"cipher"`
}

func deriveKey(passphrase string, salt []byte, kdf kdfParams) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, kdf.N, kdf.R, kdf.P, chacha20poly1305.KeySize)
}

// seal encrypts raw under passphrase.
func seal(passphrase string, raw []byte, kdf kdfParams) ([]byte, error) {
	env := envelope{
		Version: envelopeVersion,
		KDF:     kdf,
		Salt:    make([]byte, 16),
		Nonce:   make([]byte, chacha20poly1305.NonceSize),
	}
	if _, err := rand.Read(env.Salt); err != nil {
		return nil, err
	}
	if _, err := rand.Read(env.Nonce); err != nil {
		return nil, err
	}

	key, err := deriveKey(passphrase, env.Salt, kdf)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	env.Cipher = aead.Seal(nil, env.Nonce, raw, env.Salt)
	return json.MarshalIndent(env, "", "  ")
}

// open reverses seal.
func open(passphrase string, b []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("identity file: %w", err)
	}
	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("identity file: unsupported version %d", env.Version)
	}
	if len(env.Nonce) != chacha20poly1305.NonceSize {
		return nil, ErrWrongPassphrase
	}

	key, err := deriveKey(passphrase, env.Salt, env.KDF)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, env.Nonce, env.Cipher, env.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
