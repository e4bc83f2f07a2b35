// Package identity manages creation, encryption and loading of a node's
// long-term keypair.
//
// It enforces passphrase policy, generates the X25519 keypair used for sealed
// boxes, and persists it via the domain.IdentityStore.
package identity
