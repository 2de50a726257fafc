package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML file over the defaults, applies environment overrides
// and validates the result. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates it without consulting
// the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

// ApplyEnv overrides settings from the environment: PORT, LOG_LEVEL,
// GRAPHQUBO_DEFAULT_SOLVER and each remote solver's token_env.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup("GRAPHQUBO_DEFAULT_SOLVER"); ok && v != "" {
		c.Solvers.Default = v
	}
	for i := range c.Solvers.Remote {
		r := &c.Solvers.Remote[i]
		if r.TokenEnv == "" {
			continue
		}
		if v, ok := lookup(r.TokenEnv); ok {
			r.Token = v
		}
	}
	return nil
}

func positive64(v int64) func() error {
	return func() error {
		if v <= 0 {
			return fmt.Errorf("value %d must be positive", v)
		}
		return nil
	}
}

var errDuplicate = errors.New("solver name already registered")

func errDuplicateSolver(name string) error {
	return fmt.Errorf("%q: %w", name, errDuplicate)
}

// checkProxy accepts a CIDR range or a bare address.
func checkProxy(p string) error {
	if strings.Contains(p, "/") {
		_, err := netip.ParsePrefix(p)
		return err
	}
	_, err := netip.ParseAddr(p)
	return err
}
