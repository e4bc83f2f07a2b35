package types

// Username identifies a chat participant on the relay.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// AdministratorName is the reserved sender of server-originated notices.
// No client may register under it.
const AdministratorName Username = "Administrator"

// ServerIdentity is the key-table identity under which clients store the
// relay's public key.
const ServerIdentity = "server"
