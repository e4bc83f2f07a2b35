// Package store keeps a node's long-term keypair on disk.
//
// The keypair is serialised as JSON and sealed with ChaCha20-Poly1305 under a
// key derived from a passphrase with scrypt. Files are replaced atomically.
package store
