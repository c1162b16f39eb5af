// Package main walks through sealing a message into signed shares and
// opening it again
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/Caqil/sealshare/internal/math"
	"github.com/Caqil/sealshare/pkg/artifact"
	"github.com/Caqil/sealshare/pkg/auth"
	"github.com/Caqil/sealshare/pkg/envelope"
	"github.com/Caqil/sealshare/pkg/inbox"
	"github.com/Caqil/sealshare/pkg/logger"
	"github.com/Caqil/sealshare/pkg/qr"
)

func main() {
	fmt.Println("=== Seal and Open Demo ===")
	ctx := context.Background()

	tmpDir, err := os.MkdirTemp("", "sealshare-demo-*")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	fmt.Printf("Using temporary directory: %s\n\n", tmpDir)

	o := envelope.New(envelope.WithLogger(logger.New(&logger.Config{Level: "warn"})))

	// Step 1: Seal
	fmt.Println("Step 1: Sealing message with a 3-of-5 split...")
	sealed, err := o.Seal(ctx, []byte("The vault combination is 12-34-56"), 3, 5)
	if err != nil {
		log.Fatalf("Failed to seal: %v", err)
	}
	fmt.Printf("  ✓ Envelope %s sealed\n", sealed.MessageID())
	fmt.Printf("    Shares: %d, threshold: %d\n", len(sealed.Shares), sealed.Envelope.Envelope.Threshold)

	// Step 2: Write artifacts
	fmt.Println("\nStep 2: Writing QR codes and text artifacts...")
	store, err := artifact.NewStore(artifact.DefaultConfig(tmpDir), qr.NewEncoder(qrcode.Low), nil)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	written, err := store.WriteSealed(sealed)
	if err != nil {
		log.Fatalf("Failed to write artifacts: %v", err)
	}
	fmt.Printf("  ✓ %d files written (mode 0600)\n", len(written))

	// Step 3: Scan envelope and two shares
	fmt.Println("\nStep 3: Scanning the envelope and shares 2 and 4...")
	box := inbox.New(nil, nil)
	for _, text := range []string{sealed.Envelope.Encode(), sealed.Shares[1].Encode(), sealed.Shares[3].Encode()} {
		if _, err := box.Ingest(text); err != nil {
			log.Fatalf("Failed to ingest: %v", err)
		}
	}
	progress, _ := box.Progress(sealed.MessageID())
	fmt.Printf("  ✓ Have %d of %d shares (ready: %v)\n", progress.Have, progress.Need, progress.Ready())

	_, err = box.Open(ctx, sealed.MessageID(), o)
	fmt.Printf("  ✓ Opening now fails as expected: %v\n", errors.Is(err, math.ErrInsufficientShares))

	// Step 4: A forged share is refused
	fmt.Println("\nStep 4: Presenting a share with a corrupted signature...")
	forged := *sealed.Shares[4]
	forged.Signature = append([]byte(nil), forged.Signature...)
	forged.Signature[0] ^= 0xff
	_, err = box.Ingest(forged.Encode())
	fmt.Printf("  ✓ Rejected: %v\n", errors.Is(err, auth.ErrSignatureInvalid))

	// Step 5: Read the remaining share from disk and open
	fmt.Println("\nStep 5: Reading share 5 from disk and opening...")
	share, err := artifact.ReadShareFile(written[len(written)-1], 0600)
	if err != nil {
		log.Fatalf("Failed to read share: %v", err)
	}
	if _, err := box.AddShare(share); err != nil {
		log.Fatalf("Failed to add share: %v", err)
	}

	report, err := box.Open(ctx, sealed.MessageID(), o)
	if err != nil {
		log.Fatalf("Failed to open: %v", err)
	}
	fmt.Printf("  ✓ Reconstructed from shares %v\n", report.Used)
	fmt.Printf("    Message: %s\n", report.Plaintext)

	fmt.Println("\n=== Demo Complete ===")
}
