package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatures(t *testing.T) {
	tests := []struct {
		variant int
		source  string
		want    Features
	}{
		{variant: 1, want: Features{}},
		{variant: 2, want: Features{Excel: true}},
		{variant: 3, want: Features{Excel: true, Auth: true, AuthSource: AuthSourceFile}},
		{variant: 4, want: Features{Excel: true, Auth: true, AuthSource: AuthSourceSecrets}},
		{variant: 5, want: Features{Excel: true, Auth: true, AuthSource: AuthSourceSecrets, EncodingSelect: true, SampleData: true, Chat: true}},
		{variant: 5, source: AuthSourceFile, want: Features{Excel: true, Auth: true, AuthSource: AuthSourceFile, EncodingSelect: true, SampleData: true, Chat: true}},
		{variant: 2, source: AuthSourceFile, want: Features{Excel: true}},
	}

	for _, tt := range tests {
		cfg := &Config{Page: PageConfig{Variant: tt.variant}, Auth: AuthConfig{Source: tt.source}}
		assert.Equal(t, tt.want, cfg.Features(), "variant %d source %q", tt.variant, tt.source)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	cfg, err := LoadCustomConfig("testdata/custom_config.toml")
	require.NoError(t, err)

	assert.Equal(t, []string{"utf-8", "latin-1", "shift_jis"}, cfg.Data.EncodingOptions)
	assert.Equal(t, "latin-1", cfg.Data.EncodingDefault)
	assert.Equal(t, []string{"azure"}, cfg.Chat.Providers)
}

func TestLoadCustomConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadCustomConfig("testdata/does_not_exist.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultCustomConfig(), cfg)
}

func TestLoadCustomConfig_DefaultNotInOptions(t *testing.T) {
	_, err := LoadCustomConfig("testdata/bad_default.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "utf-16")
}
