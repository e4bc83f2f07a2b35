// Package commands defines the cipherchat CLI.
//
// Commands
//
//   - init         Create the local identity keypair
//   - fingerprint  Print the identity fingerprint
//   - connect      Join a relay and chat from the terminal
//
// The identity is optional: connect falls back to a one-off keypair when none
// has been created.
package commands
