// Package broadcast fans chat lines out to every live session, sealing a
// separate copy for each recipient.
//
// A recipient that cannot be reached is pruned from the registry and the
// fan-out carries on with the rest.
package broadcast
