// Package cli implements the sealshare command line interface
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Caqil/sealshare/internal/config"
	"github.com/Caqil/sealshare/pkg/crypto/aead"
	"github.com/Caqil/sealshare/pkg/envelope"
	"github.com/Caqil/sealshare/pkg/logger"
	"github.com/Caqil/sealshare/pkg/metrics"
)

// app carries state shared by the subcommands of one invocation
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "sealshare",
		Short: "Split an encrypted message into signed threshold shares",
		Long: `sealshare encrypts a message under a fresh 256-bit secret, splits the
secret into n Shamir shares over the P-256 prime field of which any k
reconstruct it, and signs the envelope and every share with Ed25519.

Artifacts are written as QR code images and text files:
  encrypted_message_qr.png, encrypted_message.txt
  share_<x>.png, share_<x>.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.flushMetrics()
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (YAML)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newSplitCommand(a))
	root.AddCommand(newCombineCommand(a))
	root.AddCommand(newVersionCommand())

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Output: cmd.ErrOrStderr(),
		Pretty: cfg.LogPretty,
	})
	if cfg.MetricsFile != "" {
		a.metrics = metrics.New()
	}
	return nil
}

func (a *app) flushMetrics() error {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func (a *app) orchestrator(opts ...envelope.Option) (*envelope.Orchestrator, error) {
	cipher, err := aead.New(a.cfg.Cipher)
	if err != nil {
		return nil, err
	}

	base := []envelope.Option{
		envelope.WithCipher(cipher),
		envelope.WithLogger(a.log),
		envelope.WithMetrics(a.metrics),
		envelope.WithWorkers(a.cfg.Workers),
		envelope.WithCrossCheck(a.cfg.CrossCheck),
		envelope.WithMaxSecretAttempts(a.cfg.MaxSecretAttempts),
	}
	return envelope.New(append(base, opts...)...), nil
}
