// Package config loads command settings from defaults, an optional YAML
// file, SEALSHARE_* environment variables and command-line flags, in
// increasing order of precedence
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Caqil/sealshare/internal/security"
	"github.com/Caqil/sealshare/pkg/crypto/aead"
	"github.com/Caqil/sealshare/pkg/qr"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SEALSHARE"

// Setting keys. Flags use the same names so BindPFlags links them.
const (
	KeyThreshold         = "threshold"
	KeyShares            = "shares"
	KeyOutputDir         = "output-dir"
	KeyCipher            = "cipher"
	KeyImages            = "images"
	KeyText              = "text"
	KeyQRLevel           = "qr-level"
	KeyQRSize            = "qr-size"
	KeyWorkers           = "workers"
	KeyCrossCheck        = "cross-check"
	KeyMaxSecretAttempts = "max-secret-attempts"
	KeyMetricsFile       = "metrics-file"
	KeyLogLevel          = "log-level"
	KeyLogPretty         = "log-pretty"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every setting of the command line tool
type Config struct {
	Threshold         int    `mapstructure:"threshold"`
	Shares            int    `mapstructure:"shares"`
	OutputDir         string `mapstructure:"output-dir"`
	Cipher            string `mapstructure:"cipher"`
	Images            bool   `mapstructure:"images"`
	Text              bool   `mapstructure:"text"`
	QRLevel           string `mapstructure:"qr-level"`
	QRSize            int    `mapstructure:"qr-size"`
	Workers           int    `mapstructure:"workers"`
	CrossCheck        bool   `mapstructure:"cross-check"`
	MaxSecretAttempts int    `mapstructure:"max-secret-attempts"`
	MetricsFile       string `mapstructure:"metrics-file"`
	LogLevel          string `mapstructure:"log-level"`
	LogPretty         bool   `mapstructure:"log-pretty"`
}

var defaults = map[string]interface{}{
	KeyThreshold:         2,
	KeyShares:            3,
	KeyOutputDir:         "output",
	KeyCipher:            aead.AES256GCM,
	KeyImages:            true,
	KeyText:              true,
	KeyQRLevel:           "medium",
	KeyQRSize:            qr.DefaultSize,
	KeyWorkers:           0,
	KeyCrossCheck:        false,
	KeyMaxSecretAttempts: 64,
	KeyMetricsFile:       "",
	KeyLogLevel:          "info",
	KeyLogPretty:         false,
}

// New returns a viper instance with defaults and environment overrides
// registered
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads file when set, binds flags when non-nil, and returns the
// validated result
func Load(v *viper.Viper, file string, flags *pflag.FlagSet) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and names
func (c *Config) Validate() error {
	if err := security.ValidateThreshold(c.Threshold, c.Shares); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory cannot be empty", ErrInvalidConfig)
	}
	if _, err := aead.New(c.Cipher); err != nil {
		return fmt.Errorf("%w: cipher %q: %w", ErrInvalidConfig, c.Cipher, err)
	}
	if _, err := qr.ParseLevel(c.QRLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.QRSize == 0 {
		return fmt.Errorf("%w: qr size cannot be zero", ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative", ErrInvalidConfig)
	}
	if c.MaxSecretAttempts < 1 {
		return fmt.Errorf("%w: max secret attempts must be >= 1", ErrInvalidConfig)
	}
	if !c.Images && !c.Text {
		return fmt.Errorf("%w: images and text output are both disabled", ErrInvalidConfig)
	}
	return nil
}

// RegisterFlags adds every setting as a flag on fs, with the defaults
// above
func RegisterFlags(fs *pflag.FlagSet) {
	fs.IntP(KeyThreshold, "k", defaults[KeyThreshold].(int), "shares needed to open the envelope")
	fs.IntP(KeyShares, "n", defaults[KeyShares].(int), "total shares to produce")
	fs.StringP(KeyOutputDir, "o", defaults[KeyOutputDir].(string), "directory for artifacts")
	fs.String(KeyCipher, defaults[KeyCipher].(string), "payload cipher (aes-256-gcm, chacha20-poly1305)")
	fs.Bool(KeyImages, defaults[KeyImages].(bool), "write QR code images")
	fs.Bool(KeyText, defaults[KeyText].(bool), "write artifact text files")
	fs.String(KeyQRLevel, defaults[KeyQRLevel].(string), "QR recovery level (low, medium, high, highest)")
	fs.Int(KeyQRSize, defaults[KeyQRSize].(int), "QR image size in pixels")
	fs.Int(KeyWorkers, defaults[KeyWorkers].(int), "concurrent sign/verify workers (0 = GOMAXPROCS)")
	fs.Bool(KeyCrossCheck, defaults[KeyCrossCheck].(bool), "cross-check reconstruction on a second share subset")
	fs.Int(KeyMaxSecretAttempts, defaults[KeyMaxSecretAttempts].(int), "maximum secret sampling attempts")
	fs.String(KeyMetricsFile, defaults[KeyMetricsFile].(string), "write Prometheus metrics to this file on exit")
	fs.String(KeyLogLevel, defaults[KeyLogLevel].(string), "log level (debug, info, warn, error)")
	fs.Bool(KeyLogPretty, defaults[KeyLogPretty].(bool), "human readable log output")
}
