package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Caqil/sealshare/pkg/artifact"
	"github.com/Caqil/sealshare/pkg/qr"
)

// maxMessageSize bounds the plaintext read from a file or stdin
const maxMessageSize = 1 << 20

func newSplitCommand(a *app) *cobra.Command {
	var (
		message string
		input   string
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Encrypt a message and split its key into signed shares",
		Example: `  sealshare split -k 3 -n 5 -m "launch codes" -o ./out
  sealshare split -k 2 -n 3 --input secret.txt
  echo "hello" | sealshare split`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plaintext, err := readMessage(cmd, message, input)
			if err != nil {
				return err
			}

			o, err := a.orchestrator()
			if err != nil {
				return err
			}

			sealed, err := o.Seal(cmd.Context(), plaintext, a.cfg.Threshold, a.cfg.Shares)
			if err != nil {
				return err
			}

			store, err := a.store()
			if err != nil {
				return err
			}
			written, err := store.WriteSealed(sealed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "message id: %s\n", sealed.MessageID())
			fmt.Fprintf(out, "threshold:  %d of %d\n", a.cfg.Threshold, a.cfg.Shares)
			for _, path := range written {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "message to encrypt")
	cmd.Flags().StringVarP(&input, "input", "i", "", "read the message from this file (- for stdin)")

	return cmd
}

func (a *app) store() (*artifact.Store, error) {
	cfg := artifact.DefaultConfig(a.cfg.OutputDir)
	cfg.Images = a.cfg.Images
	cfg.Text = a.cfg.Text

	var renderer qr.Renderer
	if cfg.Images {
		level, err := qr.ParseLevel(a.cfg.QRLevel)
		if err != nil {
			return nil, err
		}
		renderer = &qr.Encoder{Level: level, Size: a.cfg.QRSize}
	}

	return artifact.NewStore(cfg, renderer, a.log)
}

func readMessage(cmd *cobra.Command, message, input string) ([]byte, error) {
	if message != "" && input != "" {
		return nil, errors.New("--message and --input are mutually exclusive")
	}
	if message != "" {
		return []byte(message), nil
	}

	var r io.Reader = cmd.InOrStdin()
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxMessageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}
	if len(data) > maxMessageSize {
		return nil, fmt.Errorf("message exceeds %d bytes", maxMessageSize)
	}
	if len(data) == 0 {
		return nil, errors.New("message is empty")
	}
	return data, nil
}
