package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"cipherchat/internal/logging"
)

// DefaultAddress is the relay's default listening address.
const DefaultAddress = ":1986"

// Config is the relay's configuration file.
type Config struct {
	Address        string `toml:"address"`
	MaxLineBytes   int    `toml:"max_line_bytes"`
	MetricsAddress string `toml:"metrics_address,omitempty"`
	IdentityFile   string `toml:"identity_file,omitempty"`
	UserDB         string `toml:"user_db"`

	Logger logging.Config `toml:"logger"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Address:      DefaultAddress,
		MaxLineBytes: 64 * 1024,
		UserDB:       "users.db",
		Logger:       logging.Config{Environment: "production"},
	}
}

// Validate checks cfg for values the relay cannot run with.
func (cfg *Config) Validate() error {
	if cfg.Address == "" {
		return errors.New("config: address is not set")
	}
	if cfg.MaxLineBytes <= 0 {
		return fmt.Errorf("config: max_line_bytes must be positive, got %d", cfg.MaxLineBytes)
	}
	if cfg.UserDB == "" {
		return errors.New("config: user_db is not set")
	}
	return nil
}

// Load parses b on top of DefaultConfig. Relative paths are resolved against
// dir. Unknown keys are an error.
func Load(b []byte, dir string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("config: undecoded keys in config file: %v", undecoded)
	}
	cfg.resolvePaths(dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the file f.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b, filepath.Dir(f))
}

func (cfg *Config) resolvePaths(dir string) {
	for _, p := range []*string{&cfg.UserDB, &cfg.IdentityFile, &cfg.Logger.Path} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
