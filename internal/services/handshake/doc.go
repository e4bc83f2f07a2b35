// Package handshake runs the server side of a client connection: key
// exchange, credential check and then the authenticated read loop.
//
// The wire exchange is line oriented:
//
//	C→S  username|clientPublicKey                 (plain)
//	S→C  GRANTED|serverPublicKey or DENIED|reason (plain)
//	C→S  username|password                        (sealed for the server)
//	S→C  GRANTED|login succesful! or DENIED|...   (sealed for the client)
//	C→S  chat text, one sealed line per message
//
// A connection that breaks the protocol before authenticating is dropped
// without a reply.
package handshake
