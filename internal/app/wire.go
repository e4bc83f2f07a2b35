package app

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cipherchat/internal/metrics"
	"cipherchat/internal/server"
	"cipherchat/internal/services/broadcast"
	"cipherchat/internal/services/handshake"
	identitysvc "cipherchat/internal/services/identity"
	"cipherchat/internal/services/keyring"
	"cipherchat/internal/services/registry"
	"cipherchat/internal/store"
	"cipherchat/internal/userdb"
)

// Wire bundles the relay's process-wide services. It is built once and
// shared by every connection handler.
type Wire struct {
	Config     *Config
	Log        *zap.SugaredLogger
	Keys       *keyring.Keyring
	Users      *userdb.DB
	Registry   *registry.Registry
	Dispatcher *broadcast.Dispatcher
	Protocol   *handshake.Protocol
	Metrics    *metrics.Metrics
	Server     *server.Server
}

// NewWire constructs the dependency graph from cfg. passphrase unlocks
// cfg.IdentityFile; with no identity file an ephemeral keypair is generated.
func NewWire(cfg *Config, log *zap.SugaredLogger, passphrase string) (*Wire, error) {
	keys, err := loadKeys(cfg, passphrase)
	if err != nil {
		return nil, err
	}

	users, err := userdb.Open(cfg.UserDB)
	if err != nil {
		return nil, fmt.Errorf("open user database: %w", err)
	}

	m := metrics.New()
	reg := registry.New(keys, log.Named("registry"))
	disp := broadcast.New(keys, reg, logStatus{log.Named("status")}, m, log.Named("broadcast"))
	reg.Subscribe(disp)
	reg.Subscribe(m)

	proto := handshake.New(keys, users, reg, disp, log.Named("handshake"),
		handshake.WithMaxLineBytes(cfg.MaxLineBytes),
		handshake.WithMetrics(m),
	)

	return &Wire{
		Config:     cfg,
		Log:        log,
		Keys:       keys,
		Users:      users,
		Registry:   reg,
		Dispatcher: disp,
		Protocol:   proto,
		Metrics:    m,
		Server:     server.New(proto, log.Named("server")),
	}, nil
}

func loadKeys(cfg *Config, passphrase string) (*keyring.Keyring, error) {
	if cfg.IdentityFile == "" {
		return keyring.New()
	}
	svc := identitysvc.New(store.NewIdentityFileStore(cfg.IdentityFile))
	keys, err := svc.LoadKeyring(passphrase)
	if err != nil {
		return nil, fmt.Errorf("load identity %s: %w", cfg.IdentityFile, err)
	}
	return keys, nil
}

// Run serves cfg.Address, and cfg.MetricsAddress when set, until ctx is
// cancelled or one of them fails.
func (w *Wire) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", w.Config.Address)
	if err != nil {
		return err
	}
	return w.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (w *Wire) Serve(ctx context.Context, ln net.Listener) error {
	w.Log.Infow("relay starting",
		"address", ln.Addr().String(),
		"fingerprint", w.Keys.Fingerprint().String(),
		"users", len(w.Users.List()),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Server.Serve(ctx, ln) })
	if addr := w.Config.MetricsAddress; addr != "" {
		g.Go(func() error { return w.Metrics.Serve(ctx, addr) })
	}
	return g.Wait()
}

// Close releases the user database.
func (w *Wire) Close() error {
	return w.Users.Close()
}

