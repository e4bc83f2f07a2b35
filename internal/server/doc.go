// Package server accepts TCP connections and hands each one to a Handler on
// its own goroutine.
//
// Cancelling the context passed to Serve closes the listener and every live
// connection, then waits for the handlers to return.
package server
