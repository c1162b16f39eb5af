package auth

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Caqil/sealshare/pkg/binding"
)

// Verdict is the outcome of verifying one signed share
type Verdict struct {
	// Index is the position of the share in the input
	Index int

	// Share is the checked share
	Share *SignedShare

	// Err is nil when the share verified
	Err error
}

// Valid reports whether the share verified
func (v Verdict) Valid() bool {
	return v.Err == nil
}

func workerLimit(workers, jobs int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > jobs {
		workers = jobs
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// VerifyAll checks every share against publicKey concurrently. Verdicts are
// returned in input order; a failing share never stops the others. Only
// context cancellation returns an error.
func (a *Authenticator) VerifyAll(ctx context.Context, shares []*SignedShare, publicKey []byte, workers int) ([]Verdict, error) {
	verdicts := make([]Verdict, len(shares))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers, len(shares)))

	for i, s := range shares {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			verdicts[i] = Verdict{Index: i, Share: s, Err: a.CheckShare(s, publicKey)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

// SignAll signs every bound share concurrently, preserving order. Any
// failure aborts the batch.
func (a *Authenticator) SignAll(ctx context.Context, shares []*binding.BoundShare, privateKey []byte, workers int) ([]*SignedShare, error) {
	signed := make([]*SignedShare, len(shares))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers, len(shares)))

	for i, s := range shares {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := a.SignShare(s, privateKey)
			if err != nil {
				return fmt.Errorf("share %d: %w", i+1, err)
			}
			signed[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return signed, nil
}
