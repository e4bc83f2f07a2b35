package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"cipherchat/internal/domain"
)

// GenerateX25519 returns a fresh Curve25519 key pair.
func GenerateX25519() (priv domain.X25519Private, pub domain.X25519Public, err error) {
	pk, sk, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return priv, pub, err
	}
	return domain.X25519Private(*sk), domain.X25519Public(*pk), nil
}

// GenerateIdentity returns a fresh identity keypair.
func GenerateIdentity() (domain.Identity, error) {
	priv, pub, err := GenerateX25519()
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{Public: pub, Private: priv}, nil
}

// PublicFromPrivate recomputes the public half of priv.
func PublicFromPrivate(priv domain.X25519Private) (pub domain.X25519Public, err error) {
	pb, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	if err != nil {
		return pub, err
	}
	copy(pub[:], pb)
	return pub, nil
}
