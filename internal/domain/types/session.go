package types

// Credentials is the username/password pair a client proves during the
// handshake's credential stage.
type Credentials struct {
	Username Username
	Password string
}

// String renders the credential line in wire form.
func (c Credentials) String() string {
	return c.Username.String() + FieldSeparator + c.Password
}
