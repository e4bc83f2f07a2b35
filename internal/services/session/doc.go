// Package session models an authenticated, live binding between a username
// and the connection it logged in on.
//
// A Session serialises every line written to its connection, so the relay's
// fan-out and the handshake's own replies never interleave on the wire. The
// connection itself stays owned by the goroutine that accepted it; a Session
// only borrows it for writes.
package session
