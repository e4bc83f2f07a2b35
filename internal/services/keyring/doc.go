// Package keyring holds a node's own X25519 keypair and the public keys of
// the peers it talks to.
//
// EncryptFor seals a UTF-8 plaintext to a named peer and returns it as a
// base64 protocol field; DecryptOwn reverses that for boxes addressed to this
// node. Encrypting for an identity without a stored key is an error, never a
// silent skip. The peer table is safe for concurrent use.
package keyring
