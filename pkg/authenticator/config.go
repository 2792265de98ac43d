package authenticator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// User is one entry under credentials.usernames.
type User struct {
	Email    string `yaml:"email" toml:"email"`
	Name     string `yaml:"name" toml:"name"`
	Password string `yaml:"password" toml:"password"` // bcrypt hash or plain text
}

type CookieConfig struct {
	Name       string  `yaml:"name" toml:"name"`
	Key        string  `yaml:"key" toml:"key"`
	ExpiryDays float64 `yaml:"expiry_days" toml:"expiry_days"`
}

// Config is the credentials document shared by the YAML config file and
// the TOML secrets file.
type Config struct {
	Credentials struct {
		Usernames map[string]User `yaml:"usernames" toml:"usernames"`
	} `yaml:"credentials" toml:"credentials"`
	Cookie CookieConfig `yaml:"cookie" toml:"cookie"`
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.Credentials.Usernames) == 0 {
		errs = append(errs, errors.New("credentials.usernames is empty"))
	}
	if c.Cookie.Name == "" {
		errs = append(errs, errors.New("cookie.name is required"))
	}
	if c.Cookie.Key == "" {
		errs = append(errs, errors.New("cookie.key is required"))
	}
	if c.Cookie.ExpiryDays < 0 {
		errs = append(errs, errors.New("cookie.expiry_days must not be negative"))
	}
	return errors.Join(errs...)
}

// normalize lower-cases usernames so lookups are case-insensitive.
func (c *Config) normalize() {
	users := make(map[string]User, len(c.Credentials.Usernames))
	for name, u := range c.Credentials.Usernames {
		users[normalizeUsername(name)] = u
	}
	c.Credentials.Usernames = users
}

// Source loads the credentials document. It is read on every auth event so
// edits to the backing file apply without a restart.
type Source interface {
	Load(ctx context.Context) (*Config, error)
	Name() string
}

// FileSource reads a YAML config file (config.yaml).
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file" }

func (s FileSource) Load(_ context.Context) (*Config, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read credentials config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse credentials config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("credentials config %s: %w", s.Path, err)
	}
	cfg.normalize()
	return &cfg, nil
}

// SecretSource reads the same document from a TOML secrets file managed
// outside the repository (e.g. mounted by the deployment platform).
type SecretSource struct {
	Path string
}

func (s SecretSource) Name() string { return "secrets" }

func (s SecretSource) Load(_ context.Context) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(s.Path, &cfg); err != nil {
		return nil, fmt.Errorf("read secrets: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("secrets %s: %w", s.Path, err)
	}
	cfg.normalize()
	return &cfg, nil
}
