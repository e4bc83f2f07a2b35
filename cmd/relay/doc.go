// Package main runs the cipherchat relay: a TCP group-chat server that
// authenticates users against a local account database and forwards each
// message, sealed separately for every recipient, to all connected users.
//
// Wire protocol
//
// Every message is one newline-terminated line.
//
//	C→S  username|clientPublicKey
//	S→C  GRANTED|serverPublicKey              or DENIED|reason, then close
//	C→S  sealed(username|password)
//	S→C  sealed(GRANTED|login succesful!)     or sealed(DENIED|wrong username/password)
//	C→S  sealed(text)                          one per chat message; an empty line leaves
//	S→C  sealed([sender]: text)                to every user, the sender included
//
// Public keys are base64 X25519 keys; sealed lines are base64 NaCl anonymous
// boxes. Joins and departures are announced by the reserved user
// "Administrator".
//
// Behaviour
//
//   - Sessions live in memory only; nothing is queued for offline users.
//   - A recipient that cannot be written to is dropped and the others still
//     receive the line.
//   - The default listen address is :1986.
//   - SIGINT or SIGTERM closes the listener and every connection.
package main
