// Package app wires the relay's dependencies.
//
// It loads the TOML configuration, builds the key store, user database,
// session registry, dispatcher and handshake protocol from it, and runs the
// connection acceptor alongside the optional metrics endpoint.
package app
