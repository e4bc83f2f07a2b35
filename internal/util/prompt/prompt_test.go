package prompt

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func fileWith(t *testing.T, body string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestSecret_NonTerminal(t *testing.T) {
	in := fileWith(t, "hunter2\r\nrest\n")
	var out bytes.Buffer

	s, err := Secret(in, &out, "Password: ")
	require.NoError(t, err)
	require.Equal(t, "hunter2", s)
	require.Equal(t, "Password: ", out.String())

	rest, err := io.ReadAll(in)
	require.NoError(t, err)
	require.Equal(t, "rest\n", string(rest))
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	s, err := Confirm(fileWith(t, "a|b\na|b\n"), &out, "Password: ")
	require.NoError(t, err)
	require.Equal(t, "a|b", s)
	require.True(t, strings.Contains(out.String(), "Repeat password: "))

	_, err = Confirm(fileWith(t, "one\ntwo\n"), &out, "Password: ")
	require.ErrorIs(t, err, ErrMismatch)
}

func TestReadLine_EOF(t *testing.T) {
	s, err := readLine(strings.NewReader("last"))
	require.NoError(t, err)
	require.Equal(t, "last", s)

	_, err = readLine(strings.NewReader(""))
	require.ErrorIs(t, err, io.EOF)
}
