package envelope

import (
	"io"
	"math/big"
	"time"

	"github.com/Caqil/sealshare/internal/math"
	"github.com/Caqil/sealshare/pkg/crypto/aead"
	"github.com/Caqil/sealshare/pkg/logger"
	"github.com/Caqil/sealshare/pkg/metrics"
	"github.com/Caqil/sealshare/pkg/signing"
)

// Option configures an Orchestrator
type Option func(*Orchestrator)

// Dealer splits a secret and reports the threshold it actually dealt
type Dealer interface {
	Deal(secret *big.Int) (*math.Dealing, error)
}

// DealerFactory builds the dealer used by one Seal call
type DealerFactory func(threshold, numShares int, field *math.Field, r io.Reader) (Dealer, error)

func shamirDealer(threshold, numShares int, field *math.Field, r io.Reader) (Dealer, error) {
	sss, err := math.NewShamirSecretSharing(threshold, numShares, field, r)
	if err != nil {
		return nil, err
	}
	return sss, nil
}

// WithDealer replaces the Shamir dealer
func WithDealer(f DealerFactory) Option {
	return func(o *Orchestrator) {
		if f != nil {
			o.dealer = f
		}
	}
}

// WithRandom sets the randomness source for secrets, coefficients, nonces,
// identifiers and signing keys. Production code should leave the default.
func WithRandom(r io.Reader) Option {
	return func(o *Orchestrator) {
		o.random = r
	}
}

// WithClock sets the function used for envelope creation times
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithCipher sets the payload cipher
func WithCipher(c aead.Cipher) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.cipher = c
		}
	}
}

// WithSigner sets the signature scheme
func WithSigner(s signing.Signer) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.signer = s
		}
	}
}

// WithSigningKey makes Seal sign with privateKey instead of a fresh keypair
// per envelope
func WithSigningKey(privateKey []byte) Option {
	return func(o *Orchestrator) {
		o.signingKey = privateKey
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithMaxSecretAttempts bounds secret rejection sampling
func WithMaxSecretAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithWorkers bounds concurrent signing and verification. Zero uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.workers = n
	}
}

// WithCrossCheck makes Open reconstruct from a second subset of shares when
// more than the threshold verified, failing on disagreement
func WithCrossCheck(enabled bool) Option {
	return func(o *Orchestrator) {
		o.crossCheck = enabled
	}
}
