// Package memzero wipes key material and decrypted buffers once they are no
// longer needed.
package memzero

import (
	"crypto/subtle"
	"runtime"
)

// Zero overwrites b with zeros in a constant-time friendly way.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
	runtime.KeepAlive(b)
}

// ZeroKey wipes a fixed-size key in place.
func ZeroKey(k *[32]byte) {
	if k == nil {
		return
	}
	Zero(k[:])
}
