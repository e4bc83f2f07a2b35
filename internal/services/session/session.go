package session

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"cipherchat/internal/domain"
)

// Session is an authenticated username bound to a live connection.
type Session struct {
	ID        uuid.UUID
	Username  domain.Username
	CreatedAt time.Time

	conn net.Conn
	mu   sync.Mutex
}

// New binds username to conn.
func New(username domain.Username, conn net.Conn) *Session {
	return &Session{
		ID:        uuid.New(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
		conn:      conn,
	}
}

// Conn returns the connection handle the session is bound to.
func (s *Session) Conn() net.Conn { return s.conn }

// Send writes one line to the connection.
func (s *Session) Send(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLine(line)
}

// Exclusive runs fn while holding the session's write lock. Lines passed to
// send inside fn are written before any concurrent Send can reach the wire.
func (s *Session) Exclusive(fn func(send func(line string) error) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.writeLine)
}

func (s *Session) writeLine(line string) error {
	_, err := io.WriteString(s.conn, line+"\n")
	return err
}
