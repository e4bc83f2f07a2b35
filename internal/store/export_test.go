package store

// Cheap scrypt parameters keep the tests fast.
func NewTestIdentityFileStore(path string) *IdentityFileStore {
	s := NewIdentityFileStore(path)
	s.kdf = kdfParams{N: 1 << 10, R: 8, P: 1}
	return s
}
