// Package commands defines the relay CLI.
//
// Commands
//
//   - serve        Run the relay
//   - useradd      Create or update an account
//   - userdel      Delete an account
//   - users        List accounts
//   - keygen       Create the relay's persistent keypair
//   - fingerprint  Print the relay key fingerprint
package commands
