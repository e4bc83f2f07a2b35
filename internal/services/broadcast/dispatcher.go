package broadcast

import (
	"strings"

	"go.uber.org/zap"

	"cipherchat/internal/domain"
	"cipherchat/internal/metrics"
	"cipherchat/internal/services/registry"
)

// Dispatcher relays user and administrator lines to registered sessions.
//
// A recipient whose delivery fails is removed from the registry and its
// connection is closed, so the handler blocked reading it ends as well.
// Otherwise the pruned client could keep sending lines it never sees relayed.
type Dispatcher struct {
	keys    domain.KeyStore
	reg     *registry.Registry
	status  domain.StatusSink
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

// New returns a Dispatcher. A recipient whose delivery fails is removed from
// reg and its connection closed, which ends that client's read loop.
// status and m may be nil.
func New(keys domain.KeyStore, reg *registry.Registry, status domain.StatusSink, m *metrics.Metrics, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{keys: keys, reg: reg, status: status, metrics: m, log: log}
}

// SendUserMessage decrypts ciphertext from sender and relays it as
// "[sender]: text" to every session, the sender included. A blank plaintext is
// dropped. It returns the number of sessions the line reached.
func (d *Dispatcher) SendUserMessage(sender domain.Username, ciphertext string) (int, error) {
	text, err := d.keys.DecryptOwn(ciphertext)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	d.metrics.Relayed("user")
	return d.fanOut(domain.FormatChatLine(sender, text), d.reg.Snapshot()), nil
}

// SendAdminMessage relays "[Administrator]: text" to every session.
func (d *Dispatcher) SendAdminMessage(text string) int {
	return d.sendAdmin(text, d.reg.Snapshot())
}

// SessionJoined announces a new session to the sessions already present.
func (d *Dispatcher) SessionJoined(username domain.Username, audience []registry.Entry) {
	d.sendAdmin(username.String()+" has joined us", audience)
}

// SessionLeft announces a departure to the remaining sessions.
func (d *Dispatcher) SessionLeft(username domain.Username, audience []registry.Entry) {
	d.sendAdmin(username.String()+" has left us", audience)
}

func (d *Dispatcher) sendAdmin(text string, audience []registry.Entry) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	d.metrics.Relayed("admin")
	return d.fanOut(domain.FormatChatLine(domain.AdministratorName, text), audience)
}

func (d *Dispatcher) fanOut(line string, audience []registry.Entry) int {
	if d.status != nil {
		d.status.StatusChanged(line)
	}

	delivered := 0
	for _, e := range audience {
		if err := d.deliver(e, line); err != nil {
			d.log.Warnw("delivery failed, dropping session",
				"username", e.Username, "session", e.Session.ID, "error", err)
			d.metrics.DeliveryFailed()
			d.reg.Remove(e.Session.Conn())
			_ = e.Session.Conn().Close()
			continue
		}
		delivered++
	}
	return delivered
}

func (d *Dispatcher) deliver(e registry.Entry, line string) error {
	sealed, err := d.keys.EncryptFor(e.Username.String(), line)
	if err != nil {
		return err
	}
	return e.Session.Send(sealed)
}

var _ registry.EventSink = (*Dispatcher)(nil)
