package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Caqil/sealshare/pkg/artifact"
	"github.com/Caqil/sealshare/pkg/envelope"
	"github.com/Caqil/sealshare/pkg/inbox"
)

func newCombineCommand(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "combine [artifact files...]",
		Short: "Verify shares, reconstruct the key and decrypt the message",
		Long: `combine ingests an envelope artifact and share artifacts, verifies every
share signature against the envelope's sender key, and decrypts the message
once enough verified shares are present. Rejected shares are listed on
stderr.`,
		Example: `  sealshare combine --dir ./out
  sealshare combine out/encrypted_message.txt out/share_2.txt out/share_5.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" && len(args) == 0 {
				return errors.New("pass artifact files or --dir")
			}

			box := inbox.New(a.log, a.metrics)
			if dir != "" {
				if err := ingestDir(cmd, box, dir); err != nil {
					return err
				}
			}
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if _, err := box.Ingest(string(data)); err != nil && !errors.Is(err, inbox.ErrDuplicate) {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", path, err)
				}
			}

			ids := box.Messages()
			switch len(ids) {
			case 0:
				return errors.New("no envelope found")
			case 1:
			default:
				return fmt.Errorf("artifacts reference %d envelopes, expected one", len(ids))
			}

			o, err := a.orchestrator()
			if err != nil {
				return err
			}

			report, err := box.Open(cmd.Context(), ids[0], o)
			if report != nil {
				printRejected(cmd, report)
			}
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(report.Plaintext)
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory written by split")

	return cmd
}

func ingestDir(cmd *cobra.Command, box *inbox.Inbox, dir string) error {
	cfg := artifact.DefaultConfig(dir)
	cfg.Images = false
	store, err := artifact.NewStore(cfg, nil, nil)
	if err != nil {
		return err
	}

	env, err := store.ReadEnvelope()
	if err != nil {
		return err
	}
	if _, err := box.AddEnvelope(env); err != nil {
		return err
	}

	shares, skipped, err := store.ReadShares()
	if err != nil {
		return err
	}
	for _, sk := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", sk.Name, sk.Err)
	}
	for _, s := range shares {
		if _, err := box.AddShare(s); err != nil && !errors.Is(err, inbox.ErrDuplicate) {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", artifact.ShareText(s.Share.X()), err)
		}
	}
	return nil
}

func printRejected(cmd *cobra.Command, report *envelope.Report) {
	for _, r := range report.Rejected {
		fmt.Fprintf(cmd.ErrOrStderr(), "rejected share x=%d: %v\n", r.X, r.Reason)
	}
}
