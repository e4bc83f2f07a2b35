// Package crypto exposes the minimal primitives used by cipherchat.
//
// Contents
//
//   - X25519 key generation and public-key derivation (GenerateX25519,
//     PublicFromPrivate)
//   - The public-key codec used as a single protocol field
//     (EncodePublicKey, DecodePublicKey)
//   - Anonymous sealed boxes addressed to a public key (Seal, Open)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Sealed boxes are NaCl crypto_box_seal: an ephemeral X25519 key per message,
// XSalsa20-Poly1305 for the payload. Only the recipient's private key opens
// them and any modification is detected. Keys use the fixed-size array types
// defined in internal/domain.
package crypto
