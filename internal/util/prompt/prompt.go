// Package prompt reads secrets from the terminal without echoing them.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrMismatch is returned by Confirm when the two entries differ.
var ErrMismatch = errors.New("entries do not match")

// Secret prints label to out and reads one line from in. When in is a
// terminal, echo is disabled while reading.
func Secret(in *os.File, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	if fd := int(in.Fd()); term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		return string(b), err
	}
	return readLine(in)
}

// Confirm asks for a secret twice and fails if the answers differ.
func Confirm(in *os.File, out io.Writer, label string) (string, error) {
	first, err := Secret(in, out, label)
	if err != nil {
		return "", err
	}
	second, err := Secret(in, out, "Repeat "+strings.ToLower(label[:1])+label[1:])
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrMismatch
	}
	return first, nil
}

// readLine reads up to a newline one byte at a time so that nothing past the
// line is consumed from r.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if n == 1 {
			if b[0] == '\n' {
				return strings.TrimSuffix(sb.String(), "\r"), nil
			}
			sb.WriteByte(b[0])
		}
		if err == io.EOF && sb.Len() > 0 {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}
