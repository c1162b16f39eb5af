package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Threshold)
	assert.Equal(t, 3, cfg.Shares)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "aes-256-gcm", cfg.Cipher)
	assert.True(t, cfg.Images)
	assert.Equal(t, 64, cfg.MaxSecretAttempts)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sealshare.yml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 3\nshares: 5\ncipher: chacha20-poly1305\nlog-level: debug\n"), 0600))

	t.Setenv("SEALSHARE_SHARES", "7")
	t.Setenv("SEALSHARE_OUTPUT_DIR", "/tmp/env-out")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--threshold", "4"}))

	cfg, err := Load(New(), path, fs)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Threshold, "flag wins over file")
	assert.Equal(t, 7, cfg.Shares, "env wins over file")
	assert.Equal(t, "/tmp/env-out", cfg.OutputDir)
	assert.Equal(t, "chacha20-poly1305", cfg.Cipher)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Threshold:         2,
			Shares:            3,
			OutputDir:         "out",
			Cipher:            "aes-256-gcm",
			Images:            true,
			QRLevel:           "medium",
			QRSize:            256,
			MaxSecretAttempts: 8,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"threshold above shares", func(c *Config) { c.Threshold = 4 }},
		{"zero shares", func(c *Config) { c.Shares = 0 }},
		{"empty dir", func(c *Config) { c.OutputDir = "" }},
		{"unknown cipher", func(c *Config) { c.Cipher = "des" }},
		{"unknown qr level", func(c *Config) { c.QRLevel = "max" }},
		{"zero qr size", func(c *Config) { c.QRSize = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"zero attempts", func(c *Config) { c.MaxSecretAttempts = 0 }},
		{"no output", func(c *Config) { c.Images = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}
