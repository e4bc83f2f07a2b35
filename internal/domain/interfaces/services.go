package interfaces

// KeyStore holds a node's own keypair and the public keys of its peers.
// It encrypts for a named peer and decrypts what was sealed to this node.
type KeyStore interface {
	PublicKeyString() string
	AddPeerKey(identity, keyString string) error
	RemovePeerKey(identity string) bool
	HasPeerKey(identity string) bool
	EncryptFor(identity, plaintext string) (string, error)
	DecryptOwn(ciphertext string) (string, error)
}

// StatusSink receives every line the relay delivers, for display or logging.
// It is decoupled from delivery and must not block for long.
type StatusSink interface {
	StatusChanged(line string)
}
