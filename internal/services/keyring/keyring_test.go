package keyring_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
	"cipherchat/internal/services/keyring"
)

func newKeyring(t *testing.T) *keyring.Keyring {
	t.Helper()
	k, err := keyring.New()
	require.NoError(t, err)
	return k
}

func TestCrossPartyRoundTrip(t *testing.T) {
	server := newKeyring(t)
	alice := newKeyring(t)

	require.NoError(t, server.AddPeerKey("alice", alice.PublicKeyString()))
	require.NoError(t, alice.AddPeerKey(domain.ServerIdentity, server.PublicKeyString()))

	for _, msg := range []string{"hi", "", "   ", "grüße 👋", "a|b|c"} {
		ct, err := server.EncryptFor("alice", msg)
		require.NoError(t, err)
		pt, err := alice.DecryptOwn(ct)
		require.NoError(t, err)
		require.Equal(t, msg, pt)

		ct, err = alice.EncryptFor(domain.ServerIdentity, msg)
		require.NoError(t, err)
		pt, err = server.DecryptOwn(ct)
		require.NoError(t, err)
		require.Equal(t, msg, pt)
	}
}

func TestEncryptFor_UnknownPeer(t *testing.T) {
	k := newKeyring(t)

	_, err := k.EncryptFor("nobody", "hello")
	require.ErrorIs(t, err, domain.ErrUnknownPeer)
}

func TestAddPeerKey_Duplicate(t *testing.T) {
	k := newKeyring(t)
	peer := newKeyring(t)

	require.NoError(t, k.AddPeerKey("bob", peer.PublicKeyString()))
	err := k.AddPeerKey("bob", peer.PublicKeyString())
	require.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	require.True(t, k.RemovePeerKey("bob"))
	require.False(t, k.RemovePeerKey("bob"))
	require.NoError(t, k.AddPeerKey("bob", peer.PublicKeyString()))
}

func TestAddPeerKey_InvalidKey(t *testing.T) {
	k := newKeyring(t)

	err := k.AddPeerKey("bob", "%%%")
	require.ErrorIs(t, err, domain.ErrInvalidPublicKey)
	require.False(t, k.HasPeerKey("bob"))
}

func TestDecryptOwn_Failures(t *testing.T) {
	k := newKeyring(t)
	other := newKeyring(t)
	require.NoError(t, other.AddPeerKey("other", other.PublicKeyString()))

	_, err := k.DecryptOwn("not base64 at all")
	require.ErrorIs(t, err, domain.ErrDecryptionFailed)

	_, err = k.DecryptOwn(crypto.B64([]byte("too short")))
	require.ErrorIs(t, err, domain.ErrDecryptionFailed)

	// Addressed to a different key.
	ct, err := other.EncryptFor("other", "secret")
	require.NoError(t, err)
	_, err = k.DecryptOwn(ct)
	require.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestDecryptOwn_RejectsInvalidUTF8(t *testing.T) {
	k := newKeyring(t)

	sealed, err := crypto.Seal(k.PublicKey(), []byte{0xff, 0xfe, 0xfd})
	require.NoError(t, err)

	_, err = k.DecryptOwn(crypto.B64(sealed))
	require.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestFromIdentity_StablePublicKey(t *testing.T) {
	id, err := crypto.GenerateIdentity()
	require.NoError(t, err)

	a := keyring.FromIdentity(id)
	b := keyring.FromIdentity(id)
	require.Equal(t, a.PublicKeyString(), b.PublicKeyString())
	require.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestConcurrentAddRemove(t *testing.T) {
	k := newKeyring(t)
	peer := newKeyring(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	added := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if k.AddPeerKey("racer", peer.PublicKeyString()) == nil {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, added)
	require.True(t, k.HasPeerKey("racer"))
}
