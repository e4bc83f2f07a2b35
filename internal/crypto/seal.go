package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/nacl/box"

	"cipherchat/internal/domain"
	"cipherchat/internal/util/memzero"
)

// SealOverhead is the number of bytes Seal adds to a message.
const SealOverhead = box.AnonymousOverhead

// Seal encrypts msg so that only the holder of the private half of to can
// open it.
func Seal(to domain.X25519Public, msg []byte) ([]byte, error) {
	pub := [32]byte(to)
	return box.SealAnonymous(nil, msg, &pub, rand.Reader)
}

// Open decrypts a box produced by Seal for id. ok is false when the box is
// malformed, tampered with or addressed to another key.
func Open(id domain.Identity, sealed []byte) (msg []byte, ok bool) {
	pub := [32]byte(id.Public)
	priv := [32]byte(id.Private)
	defer memzero.ZeroKey(&priv)
	return box.OpenAnonymous(nil, sealed, &pub, &priv)
}
