package handshake

// State is a point in the handshake.
type State int

const (
	AwaitingIdentity State = iota
	KeyExchanged
	AwaitingCredentials
	Authenticated
	Rejected
	Closed
)

var stateNames = [...]string{
	AwaitingIdentity:    "awaiting_identity",
	KeyExchanged:        "key_exchanged",
	AwaitingCredentials: "awaiting_credentials",
	Authenticated:       "authenticated",
	Rejected:            "rejected",
	Closed:              "closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == Authenticated || s == Rejected || s == Closed
}
