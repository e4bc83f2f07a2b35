package domain

import "errors"

// Handshake and relay failures. Callers match them with errors.Is.
var (
	// ErrProtocolViolation covers malformed lines: a missing field separator,
	// an empty identity or an undecodable credential line.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrUsernameTaken is returned when a username is already bound to a live session.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrReservedUsername is returned for the administrative sentinel name.
	ErrReservedUsername = errors.New("username is reserved")

	// ErrEmptyUsername is returned when a session is registered without a name.
	ErrEmptyUsername = errors.New("empty username")

	// ErrCredentialRejected is returned when a username/password pair fails verification.
	ErrCredentialRejected = errors.New("credentials rejected")

	// ErrUnknownPeer is returned when encrypting for an identity with no stored key.
	ErrUnknownPeer = errors.New("no public key stored for peer")

	// ErrDuplicateIdentity is returned when a key is added for an identity that already has one.
	ErrDuplicateIdentity = errors.New("public key already stored for identity")

	// ErrDecryptionFailed is returned for malformed, tampered or wrongly
	// addressed ciphertext, and for plaintext that is not valid UTF-8.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidPublicKey is returned when a key string does not decode.
	ErrInvalidPublicKey = errors.New("invalid public key")
)
