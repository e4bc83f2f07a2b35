package handshake

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"go.uber.org/zap"

	"cipherchat/internal/domain"
	"cipherchat/internal/metrics"
	"cipherchat/internal/services/broadcast"
	"cipherchat/internal/services/registry"
	"cipherchat/internal/services/session"
)

// DefaultMaxLineBytes bounds a single protocol line.
const DefaultMaxLineBytes = 64 * 1024

// Protocol holds the process-wide services every connection handler uses.
type Protocol struct {
	keys    domain.KeyStore
	users   domain.CredentialVerifier
	reg     *registry.Registry
	disp    *broadcast.Dispatcher
	metrics *metrics.Metrics
	log     *zap.SugaredLogger

	maxLine int
}

// Option configures a Protocol.
type Option func(*Protocol)

// WithMaxLineBytes sets the longest line a client may send.
func WithMaxLineBytes(n int) Option {
	return func(p *Protocol) {
		if n > 0 {
			p.maxLine = n
		}
	}
}

// WithMetrics records handshake outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Protocol) { p.metrics = m }
}

// New returns a Protocol.
func New(keys domain.KeyStore, users domain.CredentialVerifier, reg *registry.Registry, disp *broadcast.Dispatcher, log *zap.SugaredLogger, opts ...Option) *Protocol {
	p := &Protocol{
		keys:    keys,
		users:   users,
		reg:     reg,
		disp:    disp,
		log:     log,
		maxLine: DefaultMaxLineBytes,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ServeConn runs the protocol on conn and closes it afterwards.
func (p *Protocol) ServeConn(conn net.Conn) {
	defer conn.Close()
	p.Run(conn)
}

// Run performs the handshake on conn and, once authenticated, relays the
// client's lines until the connection ends. It returns the state the
// handshake finished in. Run does not close conn.
func (p *Protocol) Run(conn net.Conn) State {
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), p.maxLine)

	state, sess := p.handshake(conn, sc)
	p.metrics.HandshakeFinished(state.String())
	p.log.Debugw("handshake finished", "remote", conn.RemoteAddr().String(), "state", state.String())
	if state != Authenticated {
		return state
	}

	p.serve(sess, sc)
	return state
}

func (p *Protocol) handshake(conn net.Conn, sc *bufio.Scanner) (State, *session.Session) {
	remote := conn.RemoteAddr().String()

	// AwaitingIdentity
	identity, keyString, err := readIdentity(sc)
	if err != nil {
		p.log.Debugw("dropping connection", "remote", remote, "error", err)
		return Closed, nil
	}

	if _, taken := p.reg.Lookup(identity); taken {
		p.replyPlain(conn, domain.Reply{Text: domain.ReasonUsernameExists})
		return Rejected, nil
	}
	if registry.IsReserved(identity) {
		p.replyPlain(conn, domain.Reply{Text: domain.ReasonUsernameReserved})
		return Rejected, nil
	}
	if err := writeLine(conn, domain.Reply{Granted: true, Text: p.keys.PublicKeyString()}.String()); err != nil {
		return Closed, nil
	}

	// KeyExchanged
	if err := p.keys.AddPeerKey(identity.String(), keyString); err != nil {
		p.log.Debugw("rejecting peer key", "username", identity, "remote", remote, "error", err)
		return Closed, nil
	}
	creds, err := p.readCredentials(sc)
	if err != nil {
		p.keys.RemovePeerKey(identity.String())
		p.log.Debugw("dropping connection", "username", identity, "remote", remote, "error", err)
		return Closed, nil
	}

	// AwaitingCredentials
	if creds.Username != identity || !p.users.Verify(creds.Username, creds.Password) {
		p.log.Infow("login failed", "username", identity, "remote", remote, "error", domain.ErrCredentialRejected)
		p.replySealed(conn, identity, domain.Reply{Text: domain.ReasonBadCredentials})
		p.keys.RemovePeerKey(identity.String())
		return Rejected, nil
	}

	sess := session.New(identity, conn)
	var announce func()
	err = sess.Exclusive(func(send func(string) error) error {
		var err error
		if announce, err = p.reg.Admit(sess); err != nil {
			return err
		}
		line, err := p.keys.EncryptFor(identity.String(), domain.Reply{Granted: true, Text: domain.LoginSucceeded}.String())
		if err != nil {
			return err
		}
		return send(line)
	})
	if announce != nil {
		announce()
	}
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		p.replySealed(conn, identity, domain.Reply{Text: domain.ReasonUsernameExists})
		p.keys.RemovePeerKey(identity.String())
		return Rejected, nil
	case err != nil && announce == nil:
		p.keys.RemovePeerKey(identity.String())
		return Closed, nil
	case err != nil:
		// Remove drops the key; if a fan-out already pruned the session the
		// name may now belong to a newer handshake.
		p.reg.Remove(conn)
		return Closed, nil
	}

	p.log.Infow("login succeeded", "username", identity, "session", sess.ID, "remote", remote)
	return Authenticated, sess
}

// serve relays the client's lines until an empty line, a read error or a
// line that does not decrypt, then unregisters the session.
func (p *Protocol) serve(sess *session.Session, sc *bufio.Scanner) {
	defer p.reg.Remove(sess.Conn())

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			break
		}
		if _, err := p.disp.SendUserMessage(sess.Username, line); err != nil {
			p.log.Infow("ending session on undecryptable line", "username", sess.Username, "error", err)
			return
		}
	}
	if err := sc.Err(); err != nil {
		p.log.Debugw("read failed", "username", sess.Username, "error", err)
	}
}

// readIdentity reads "username|publicKey".
func readIdentity(sc *bufio.Scanner) (domain.Username, string, error) {
	line, err := readLine(sc)
	if err != nil {
		return "", "", err
	}
	name, key, ok := strings.Cut(line, domain.FieldSeparator)
	if !ok {
		return "", "", fmt.Errorf("%w: identity line has no separator", domain.ErrProtocolViolation)
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: empty username", domain.ErrProtocolViolation)
	}
	return domain.Username(name), key, nil
}

// readCredentials reads and opens the sealed "username|password" line.
func (p *Protocol) readCredentials(sc *bufio.Scanner) (domain.Credentials, error) {
	line, err := readLine(sc)
	if err != nil {
		return domain.Credentials{}, err
	}
	plain, err := p.keys.DecryptOwn(line)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: %w", domain.ErrProtocolViolation, err)
	}
	name, password, ok := strings.Cut(plain, domain.FieldSeparator)
	if !ok {
		return domain.Credentials{}, fmt.Errorf("%w: credential line has no separator", domain.ErrProtocolViolation)
	}
	return domain.Credentials{Username: domain.Username(name), Password: password}, nil
}

func readLine(sc *bufio.Scanner) (string, error) {
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (p *Protocol) replyPlain(conn net.Conn, r domain.Reply) {
	if err := writeLine(conn, r.String()); err != nil {
		p.log.Debugw("reply failed", "remote", conn.RemoteAddr().String(), "error", err)
	}
}

func (p *Protocol) replySealed(conn net.Conn, identity domain.Username, r domain.Reply) {
	line, err := p.keys.EncryptFor(identity.String(), r.String())
	if err != nil {
		p.log.Debugw("sealing reply failed", "username", identity, "error", err)
		return
	}
	if err := writeLine(conn, line); err != nil {
		p.log.Debugw("reply failed", "username", identity, "error", err)
	}
}

func writeLine(w io.Writer, line string) error {
	_, err := io.WriteString(w, line+"\n")
	return err
}
