// Package client implements the client half of the relay protocol.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"cipherchat/internal/domain"
	"cipherchat/internal/services/keyring"
)

// ErrDenied is returned when the relay refuses the username or credentials.
// The relay's reason is appended to the message.
var ErrDenied = errors.New("access denied")

// maxLineBytes bounds a single relayed line.
const maxLineBytes = 64 * 1024

// Client is an authenticated connection to a relay.
type Client struct {
	conn     net.Conn
	sc       *bufio.Scanner
	keys     *keyring.Keyring
	username domain.Username

	wmu sync.Mutex
}

// Dial connects to addr and logs in with creds.
func Dial(ctx context.Context, addr string, keys *keyring.Keyring, creds domain.Credentials) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	c, err := Handshake(ctx, conn, keys, creds)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Handshake logs in over an established connection. On success the relay's
// key is stored in keys under domain.ServerIdentity, replacing any earlier one.
func Handshake(ctx context.Context, conn net.Conn, keys *keyring.Keyring, creds domain.Credentials) (*Client, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
		defer conn.SetDeadline(time.Time{})
	}

	c := &Client{
		conn:     conn,
		sc:       bufio.NewScanner(conn),
		keys:     keys,
		username: creds.Username,
	}
	c.sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	if err := c.writeLine(creds.Username.String() + domain.FieldSeparator + keys.PublicKeyString()); err != nil {
		return nil, err
	}
	line, err := c.readLine()
	if err != nil {
		return nil, err
	}
	reply, err := parseReply(line)
	if err != nil {
		return nil, err
	}

	keys.RemovePeerKey(domain.ServerIdentity)
	if err := keys.AddPeerKey(domain.ServerIdentity, reply.Text); err != nil {
		return nil, fmt.Errorf("relay key: %w", err)
	}

	if err := c.Send(creds.String()); err != nil {
		return nil, err
	}
	text, err := c.Receive()
	if err != nil {
		return nil, err
	}
	if _, err := parseReply(text); err != nil {
		return nil, err
	}
	return c, nil
}

func parseReply(line string) (domain.Reply, error) {
	reply, ok := domain.ParseReply(line)
	if !ok {
		return domain.Reply{}, fmt.Errorf("%w: unexpected reply %q", domain.ErrProtocolViolation, line)
	}
	if !reply.Granted {
		return domain.Reply{}, fmt.Errorf("%w: %s", ErrDenied, reply.Text)
	}
	return reply, nil
}

// Username returns the name the client logged in with.
func (c *Client) Username() domain.Username { return c.username }

// Send seals text for the relay and writes it as one line.
func (c *Client) Send(text string) error {
	ct, err := c.keys.EncryptFor(domain.ServerIdentity, text)
	if err != nil {
		return err
	}
	return c.writeLine(ct)
}

// Receive reads the next relayed line and opens it. It returns io.EOF when
// the relay closes the connection.
func (c *Client) Receive() (string, error) {
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	return c.keys.DecryptOwn(line)
}

// Leave tells the relay the client is done by sending an empty line.
func (c *Client) Leave() error {
	return c.writeLine("")
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) writeLine(line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := io.WriteString(c.conn, line+"\n")
	return err
}

func (c *Client) readLine() (string, error) {
	if c.sc.Scan() {
		return c.sc.Text(), nil
	}
	if err := c.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
