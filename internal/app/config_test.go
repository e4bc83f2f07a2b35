package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
address = "127.0.0.1:2000"
metrics_address = "127.0.0.1:6543"
identity_file = "relay.id"
user_db = "/var/lib/cipherchat/users.db"

[logger]
env = "development"
path = "logs/relay.log"
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:2000", cfg.Address)
	require.Equal(t, 64*1024, cfg.MaxLineBytes)
	require.Equal(t, "127.0.0.1:6543", cfg.MetricsAddress)
	require.Equal(t, filepath.Join(dir, "relay.id"), cfg.IdentityFile)
	require.Equal(t, "/var/lib/cipherchat/users.db", cfg.UserDB)
	require.Equal(t, "development", cfg.Logger.Environment)
	require.Equal(t, filepath.Join(dir, "logs", "relay.log"), cfg.Logger.Path)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, "/etc/cipherchat")
	require.NoError(t, err)
	require.Equal(t, DefaultAddress, cfg.Address)
	require.Equal(t, "/etc/cipherchat/users.db", cfg.UserDB)
	require.Empty(t, cfg.IdentityFile)
	require.Empty(t, cfg.MetricsAddress)
}

func TestLoad_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":   `adress = ":1"`,
		"empty address": `address = ""`,
		"bad max line":  `max_line_bytes = 0`,
		"syntax":        `address = `,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(body), t.TempDir())
			require.Error(t, err)
		})
	}
}
