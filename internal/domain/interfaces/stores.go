package interfaces

import domaintypes "cipherchat/internal/domain/types"

// IdentityStore persists a node's long-term keypair.
type IdentityStore interface {
	SaveIdentity(passphrase string, id domaintypes.Identity) error
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
}

// CredentialVerifier checks a username/password pair against a durable
// store. Implementations fail closed: any lookup error yields false.
type CredentialVerifier interface {
	Verify(username domaintypes.Username, password string) bool
}

// UserStore administers the accounts a CredentialVerifier checks.
type UserStore interface {
	CredentialVerifier
	Add(username domaintypes.Username, password string, update bool) error
	Remove(username domaintypes.Username) error
	Exists(username domaintypes.Username) bool
	List() []domaintypes.Username
}
