package math

import (
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/Caqil/sealshare/internal/security"
)

// Share represents a single share in Shamir Secret Sharing
type Share struct {
	// X is the evaluation point, 1..N for shares produced by Split
	X *big.Int

	// Y is f(X) mod p
	Y *big.Int
}

// ShamirSecretSharing implements (k, n) threshold secret sharing
type ShamirSecretSharing struct {
	// Threshold is the minimum number of shares needed to reconstruct
	Threshold int

	// NumShares is the total number of shares
	NumShares int

	// Field is the prime field shares and secrets live in
	Field *Field

	// Random is the coefficient source; nil selects crypto/rand
	Random io.Reader
}

// NewShamirSecretSharing creates a new Shamir Secret Sharing instance
func NewShamirSecretSharing(threshold, numShares int, field *Field, random io.Reader) (*ShamirSecretSharing, error) {
	if err := security.ValidateThreshold(threshold, numShares); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if field == nil {
		return nil, ErrNilField
	}

	return &ShamirSecretSharing{
		Threshold: threshold,
		NumShares: numShares,
		Field:     field,
		Random:    random,
	}, nil
}

// Dealing is the output of Deal: the shares and the threshold implied by
// the degree of the polynomial that produced them
type Dealing struct {
	Shares    []*Share
	Threshold int
}

// Split splits a secret into n shares where k are needed to reconstruct.
// Share i is (i, f(i)) for i = 1..n. The secret must already be a field
// element; it is never reduced, since reducing would silently change it.
func (sss *ShamirSecretSharing) Split(secret *big.Int) ([]*Share, error) {
	d, err := sss.Deal(secret)
	if err != nil {
		return nil, err
	}
	return d.Shares, nil
}

// Deal splits like Split and also reports degree+1 of the polynomial that
// was evaluated
func (sss *ShamirSecretSharing) Deal(secret *big.Int) (*Dealing, error) {
	if secret == nil {
		return nil, ErrNilSecret
	}
	if !sss.Field.Contains(secret) {
		return nil, ErrSecretOutOfRange
	}

	// f(x) = secret + a₁x + a₂x² + ... + a_{k-1}x^{k-1}
	polynomial, err := NewRandomPolynomial(sss.Threshold-1, secret, sss.Field, sss.Random)
	if err != nil {
		return nil, err
	}
	defer polynomial.Zero()

	shares := make([]*Share, sss.NumShares)
	for i := 0; i < sss.NumShares; i++ {
		// 1-indexed: x = 0 would hand out the secret itself
		x := big.NewInt(int64(i + 1))
		shares[i] = &Share{
			X: x,
			Y: polynomial.Evaluate(x),
		}
	}

	return &Dealing{Shares: shares, Threshold: polynomial.Degree() + 1}, nil
}

// Combine reconstructs the secret from k or more shares
func (sss *ShamirSecretSharing) Combine(shares []*Share) (*big.Int, error) {
	return Reconstruct(sss.Field, shares, sss.Threshold)
}

// CombineChecked reconstructs like Combine and, when more than k shares are
// supplied, reconstructs again from the last k shares. Disagreement means at
// least one share does not lie on the same polynomial.
func (sss *ShamirSecretSharing) CombineChecked(shares []*Share) (*big.Int, error) {
	return ReconstructChecked(sss.Field, shares, sss.Threshold)
}

// Reconstruct recovers f(0) from the first threshold shares using Lagrange
// interpolation. Extra shares are validated but otherwise ignored.
//
// A result obtained from fewer than threshold shares would be uncorrelated
// with the secret, so that case is always an error.
func Reconstruct(field *Field, shares []*Share, threshold int) (*big.Int, error) {
	if err := validateShares(field, shares, threshold); err != nil {
		return nil, err
	}
	return interpolateSecret(field, shares[:threshold])
}

// ReconstructChecked is Reconstruct plus a consistency check on a second
// k-subset when one exists
func ReconstructChecked(field *Field, shares []*Share, threshold int) (*big.Int, error) {
	if err := validateShares(field, shares, threshold); err != nil {
		return nil, err
	}

	secret, err := interpolateSecret(field, shares[:threshold])
	if err != nil {
		return nil, err
	}
	if len(shares) == threshold {
		return secret, nil
	}

	other, err := interpolateSecret(field, shares[len(shares)-threshold:])
	if err != nil {
		security.SecureZeroBigInt(secret)
		return nil, err
	}
	defer security.SecureZeroBigInt(other)

	if !security.SecureCompareBigInts(secret, other) {
		security.SecureZeroBigInt(secret)
		return nil, ErrInconsistentShares
	}

	return secret, nil
}

func validateShares(field *Field, shares []*Share, threshold int) error {
	if field == nil {
		return ErrNilField
	}
	if threshold < 1 {
		return fmt.Errorf("%w: threshold must be >= 1", ErrInvalidInput)
	}

	points := make([]*big.Int, 0, len(shares))
	for _, share := range shares {
		if share == nil || share.X == nil || share.Y == nil {
			return ErrNilShare
		}
		if share.X.Sign() <= 0 || !field.Contains(share.X) || !field.Contains(share.Y) {
			return ErrInvalidShare
		}
		points = append(points, share.X)
	}

	if hasDuplicates(field, points) {
		return ErrDuplicatePoints
	}

	if len(shares) < threshold {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientShares, len(shares), threshold)
	}

	return nil
}

func interpolateSecret(field *Field, shares []*Share) (*big.Int, error) {
	points := make([]*big.Int, len(shares))
	values := make([]*big.Int, len(shares))
	for i, share := range shares {
		points[i] = share.X
		values[i] = share.Y
	}
	return InterpolateAt(field, points, values, big.NewInt(0))
}

// SortShares orders shares by ascending x-coordinate in place
func SortShares(shares []*Share) {
	sort.Slice(shares, func(i, j int) bool {
		return shares[i].X.Cmp(shares[j].X) < 0
	})
}

// Clone creates a deep copy of a share
func (s *Share) Clone() *Share {
	if s == nil {
		return nil
	}
	return &Share{
		X: new(big.Int).Set(s.X),
		Y: new(big.Int).Set(s.Y),
	}
}

// Equal reports whether two shares have the same coordinates
func (s *Share) Equal(other *Share) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.X.Cmp(other.X) == 0 && s.Y.Cmp(other.Y) == 0
}

// String never prints Y
func (s *Share) String() string {
	if s == nil {
		return "Share(<nil>)"
	}
	return fmt.Sprintf("Share(x=%s)", s.X)
}
