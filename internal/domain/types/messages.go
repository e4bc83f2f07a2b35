package types

import "strings"

// Wire-level reply flags and texts. The misspelling in LoginSucceeded is part
// of the protocol and clients match on it.
const (
	FlagGranted = "GRANTED"
	FlagDenied  = "DENIED"

	FieldSeparator = "|"

	ReasonUsernameExists   = "This username already exists."
	ReasonUsernameReserved = "This username is reserved."
	ReasonBadCredentials   = "wrong username/password"
	LoginSucceeded         = "login succesful!"
)

// Reply is a FLAG|text line exchanged during the handshake.
type Reply struct {
	Granted bool
	Text    string
}

// String renders the reply in wire form.
func (r Reply) String() string {
	flag := FlagDenied
	if r.Granted {
		flag = FlagGranted
	}
	return flag + FieldSeparator + r.Text
}

// ParseReply splits a FLAG|text line. ok is false for an unknown flag or a
// missing separator.
func ParseReply(line string) (Reply, bool) {
	flag, text, found := strings.Cut(line, FieldSeparator)
	if !found {
		return Reply{}, false
	}
	switch flag {
	case FlagGranted:
		return Reply{Granted: true, Text: text}, true
	case FlagDenied:
		return Reply{Granted: false, Text: text}, true
	default:
		return Reply{}, false
	}
}

// FormatChatLine renders a relayed line as "[sender]: text".
func FormatChatLine(sender Username, text string) string {
	return "[" + sender.String() + "]: " + text
}
