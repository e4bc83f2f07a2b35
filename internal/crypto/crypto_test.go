package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	id, err := crypto.GenerateIdentity()
	require.NoError(t, err)

	sealed, err := crypto.Seal(id.Public, []byte("hello"))
	require.NoError(t, err)
	require.Len(t, sealed, len("hello")+crypto.SealOverhead)

	msg, ok := crypto.Open(id, sealed)
	require.True(t, ok)
	require.Equal(t, "hello", string(msg))
}

func TestOpen_WrongRecipientFails(t *testing.T) {
	alice, err := crypto.GenerateIdentity()
	require.NoError(t, err)
	bob, err := crypto.GenerateIdentity()
	require.NoError(t, err)

	sealed, err := crypto.Seal(alice.Public, []byte("for alice"))
	require.NoError(t, err)

	_, ok := crypto.Open(bob, sealed)
	require.False(t, ok)
}

func TestOpen_TamperedFails(t *testing.T) {
	id, err := crypto.GenerateIdentity()
	require.NoError(t, err)

	sealed, err := crypto.Seal(id.Public, []byte("payload"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0x01

	_, ok := crypto.Open(id, sealed)
	require.False(t, ok)
}

func TestPublicKeyCodec(t *testing.T) {
	id, err := crypto.GenerateIdentity()
	require.NoError(t, err)

	s := crypto.EncodePublicKey(id.Public)
	require.NotContains(t, s, domain.FieldSeparator)
	require.NotContains(t, s, "\n")

	got, err := crypto.DecodePublicKey(s)
	require.NoError(t, err)
	require.Equal(t, id.Public, got)

	_, err = crypto.DecodePublicKey("not base64!")
	require.ErrorIs(t, err, domain.ErrInvalidPublicKey)

	_, err = crypto.DecodePublicKey(crypto.B64([]byte("short")))
	require.ErrorIs(t, err, domain.ErrInvalidPublicKey)
}

func TestPublicFromPrivate(t *testing.T) {
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	derived, err := crypto.PublicFromPrivate(priv)
	require.NoError(t, err)
	require.Equal(t, pub, derived)
}

func TestFingerprint(t *testing.T) {
	id, err := crypto.GenerateIdentity()
	require.NoError(t, err)

	fp := crypto.Fingerprint(id.Public)
	require.Len(t, fp.String(), 20)
	require.Equal(t, strings.ToLower(fp.String()), fp.String())
	require.Equal(t, fp, crypto.Fingerprint(id.Public))
}
