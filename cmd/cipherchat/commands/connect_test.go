package commands

import (
	"bytes"
	"context"
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"cipherchat/internal/app"
	"cipherchat/internal/client"
	"cipherchat/internal/domain"
	"cipherchat/internal/services/keyring"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestChat_SendsAndPrints(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.UserDB = filepath.Join(t.TempDir(), "users.db")
	w, err := app.NewWire(cfg, zaptest.NewLogger(t).Sugar(), "")
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Users.Add("alice", "wonderland", false))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- w.Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-served
	}()

	keys, err := keyring.New()
	require.NoError(t, err)
	c, err := client.Dial(ctx, ln.Addr().String(), keys, domain.Credentials{Username: "alice", Password: "wonderland"})
	require.NoError(t, err)

	in, typed := io.Pipe()
	defer typed.Close()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- chat(ctx, c, in, out) }()

	_, err = io.WriteString(typed, "\nhello\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "[alice]: hello")
	}, 5*time.Second, 10*time.Millisecond)

	_, err = io.WriteString(typed, quitCommand+"\n")
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("chat did not return")
	}
	require.Eventually(t, func() bool { return w.Registry.Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}
