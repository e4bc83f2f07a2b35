package types

// Identity is a node's long-term encryption keypair. Peers seal messages to
// Public; only the holder of Private can open them.
type Identity struct {
	Public  X25519Public  `json:"public"`
	Private X25519Private `json:"private"`
}
