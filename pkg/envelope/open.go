package envelope

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/Caqil/sealshare/internal/math"
	"github.com/Caqil/sealshare/internal/security"
	"github.com/Caqil/sealshare/pkg/auth"
	"github.com/Caqil/sealshare/pkg/binding"
	"github.com/Caqil/sealshare/pkg/metrics"
)

// RejectedShare records a share that was discarded before reconstruction
type RejectedShare struct {
	// Index is the position of the share in the Open input
	Index int

	// X is the share's x-coordinate, or -1 when unknown
	X int

	// Reason is why the share was discarded
	Reason error
}

// Report describes an Open call. It is returned on failure too, so callers
// can show which shares were rejected and why.
type Report struct {
	MessageID string
	Threshold int

	// Accepted lists the x-coordinates of verified distinct shares, ascending
	Accepted []int

	// Used lists the x-coordinates that went into reconstruction
	Used []int

	Rejected []RejectedShare

	// Plaintext is set only on success
	Plaintext []byte
}

// Open verifies shares against the envelope's sender key, reconstructs the
// secret from the first threshold verified shares and decrypts the payload.
// A share that fails verification is discarded and reported; Open only
// fails on it when too few verified shares remain.
func (o *Orchestrator) Open(ctx context.Context, env *auth.SignedEnvelope, shares []*auth.SignedShare) (report *Report, err error) {
	start := time.Now()
	defer func() {
		o.metrics.RecordOperation(metrics.OpOpen, err, time.Since(start))
	}()

	if env == nil || env.Envelope == nil {
		return &Report{}, ErrNoEnvelope
	}

	report = &Report{
		MessageID: env.Envelope.ID,
		Threshold: env.Envelope.Threshold,
	}
	log := o.log.ForMessage(report.MessageID)

	authn := auth.New(o.signer)
	if err := authn.CheckEnvelope(env); err != nil {
		log.WarnEvent().Err(err).Msg("envelope rejected")
		return report, err
	}
	if !env.Signed() {
		log.Debug("envelope is unsigned")
	}

	// CollectShares
	collected := make([]*auth.SignedShare, 0, len(shares))
	indexes := make([]int, 0, len(shares))
	for i, s := range shares {
		if s == nil || s.Share == nil {
			report.Rejected = append(report.Rejected, RejectedShare{Index: i, X: -1, Reason: binding.ErrNilShare})
			continue
		}
		collected = append(collected, s)
		indexes = append(indexes, i)
	}

	// VerifyEach
	verdicts, err := authn.VerifyAll(ctx, collected, env.Envelope.SenderPublicKey, o.workers)
	if err != nil {
		return report, err
	}

	verified := make([]*binding.BoundShare, 0, len(verdicts))
	position := make(map[*binding.BoundShare]int, len(verdicts))
	for _, v := range verdicts {
		o.metrics.RecordShare(v.Valid())
		if !v.Valid() {
			report.Rejected = append(report.Rejected, RejectedShare{
				Index:  indexes[v.Index],
				X:      v.Share.Share.X(),
				Reason: v.Err,
			})
			log.WarnEvent().X(v.Share.Share.X()).Err(v.Err).Msg("share rejected")
			continue
		}
		verified = append(verified, v.Share.Share)
		position[v.Share.Share] = indexes[v.Index]
	}

	// CheckConsistency
	if err := binding.CheckConsistency(verified); err != nil {
		return report, err
	}
	if len(verified) > 0 && verified[0].MessageID != env.Envelope.ID {
		return report, fmt.Errorf("%w: shares reference %q, envelope is %q",
			binding.ErrMismatchedMessage, verified[0].MessageID, env.Envelope.ID)
	}

	distinct, dropped := dedupe(verified)
	for _, d := range dropped {
		report.Rejected = append(report.Rejected, RejectedShare{
			Index:  position[d],
			X:      d.X(),
			Reason: math.ErrDuplicatePoints,
		})
	}
	sort.SliceStable(report.Rejected, func(i, j int) bool {
		return report.Rejected[i].Index < report.Rejected[j].Index
	})

	raw := binding.Shares(distinct)
	math.SortShares(raw)
	report.Accepted = xs(raw)

	// Reconstruct
	threshold := env.Envelope.Threshold
	var secret *big.Int
	if o.crossCheck {
		secret, err = math.ReconstructChecked(o.field, raw, threshold)
	} else {
		secret, err = math.Reconstruct(o.field, raw, threshold)
	}
	if err != nil {
		log.WarnEvent().
			Int("verified", len(raw)).
			Int("threshold", threshold).
			Int("rejected", len(report.Rejected)).
			Err(err).
			Msg("reconstruction failed")
		return report, err
	}
	defer security.SecureZeroBigInt(secret)
	report.Used = xs(raw[:threshold])

	// DeriveKey
	key, err := DeriveKey(secret)
	if err != nil {
		return report, err
	}
	defer security.SecureZero(key)

	// Decrypt
	plaintext, err := o.cipher.Decrypt(key, env.Envelope.Nonce, env.Envelope.Ciphertext)
	if err != nil {
		log.WarnEvent().Ints("used", report.Used).Err(err).Msg("decryption failed")
		return report, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	report.Plaintext = plaintext
	log.InfoEvent().
		Ints("used", report.Used).
		Int("rejected", len(report.Rejected)).
		Msg("envelope opened")

	return report, nil
}

// dedupe collapses exact duplicates. A second share at an already seen x
// with a different y is returned in dropped.
func dedupe(shares []*binding.BoundShare) (distinct, dropped []*binding.BoundShare) {
	seen := make(map[string]*binding.BoundShare, len(shares))
	for _, s := range shares {
		first, ok := seen[s.Key()]
		if !ok {
			seen[s.Key()] = s
			distinct = append(distinct, s)
			continue
		}
		if !first.Equal(s) {
			dropped = append(dropped, s)
		}
	}
	return distinct, dropped
}

func xs(shares []*math.Share) []int {
	out := make([]int, len(shares))
	for i, s := range shares {
		out[i] = -1
		if s.X.IsInt64() {
			out[i] = int(s.X.Int64())
		}
	}
	return out
}
