package crypto

import (
	"encoding/base64"
	"fmt"

	"cipherchat/internal/domain"
)

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// EncodePublicKey serialises pub for use as a single protocol field. The
// alphabet contains neither the field separator nor a newline.
func EncodePublicKey(pub domain.X25519Public) string { return B64(pub.Slice()) }

// DecodePublicKey parses a string produced by EncodePublicKey.
func DecodePublicKey(s string) (domain.X25519Public, error) {
	var pub domain.X25519Public
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return pub, fmt.Errorf("%w: %v", domain.ErrInvalidPublicKey, err)
	}
	if len(b) != len(pub) {
		return pub, fmt.Errorf("%w: want %d bytes, got %d", domain.ErrInvalidPublicKey, len(pub), len(b))
	}
	copy(pub[:], b)
	return pub, nil
}
