package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
)

const (
	AuthSourceFile    = "file"
	AuthSourceSecrets = "secrets"
)

// Features is what a page variant switches on. Each variant adds to the
// previous one.
type Features struct {
	Excel          bool
	Auth           bool
	AuthSource     string
	EncodingSelect bool
	SampleData     bool
	Chat           bool
}

// Features resolves the variant number (1..5) into its feature set.
// Variants above 5 behave like 5.
func (c *Config) Features() Features {
	v := c.Page.Variant
	f := Features{
		Excel:          v >= 2,
		Auth:           v >= 3,
		EncodingSelect: v >= 5,
		SampleData:     v >= 5,
		Chat:           v >= 5,
	}
	if f.Auth {
		f.AuthSource = AuthSourceFile
		if v >= 4 {
			f.AuthSource = AuthSourceSecrets
		}
		if c.Auth.Source != "" {
			f.AuthSource = c.Auth.Source
		}
	}
	return f
}

// CustomConfig is the TOML page configuration.
type CustomConfig struct {
	Data struct {
		EncodingOptions []string `toml:"encoding_options"`
		EncodingDefault string   `toml:"encoding_default"`
	} `toml:"data"`
	Chat struct {
		Providers []string `toml:"providers"`
	} `toml:"chat"`
}

func DefaultCustomConfig() *CustomConfig {
	var c CustomConfig
	c.Data.EncodingOptions = []string{"utf-8", "latin-1", "utf-16", "ascii", "cp1252", "shift_jis", "gbk"}
	c.Data.EncodingDefault = "utf-8"
	c.Chat.Providers = []string{"openai", "azure"}
	return &c
}

// LoadCustomConfig reads the TOML page config. A missing file yields the
// defaults; a present but invalid file is an error.
func LoadCustomConfig(path string) (*CustomConfig, error) {
	cfg := DefaultCustomConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to parse page config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("page config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *CustomConfig) Validate() error {
	if len(c.Data.EncodingOptions) == 0 {
		return errors.New("data.encoding_options is empty")
	}
	if !slices.Contains(c.Data.EncodingOptions, c.Data.EncodingDefault) {
		return fmt.Errorf("data.encoding_default %q is not one of data.encoding_options", c.Data.EncodingDefault)
	}
	for _, p := range c.Chat.Providers {
		if p != "openai" && p != "azure" {
			return fmt.Errorf("chat.providers: unsupported provider %q", p)
		}
	}
	return nil
}
