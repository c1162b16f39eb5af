// Package math implements prime field arithmetic and Shamir secret sharing
package math

import (
	"math/big"
)

// P256Prime is the NIST P-256 base field prime, 2^256 - 2^224 + 2^192 + 2^96 - 1.
// It is used here only as a convenient 256-bit prime, not for curve arithmetic.
var P256Prime = mustParseHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff")

// P256 is the field every share and secret of this module lives in
var P256 = &Field{Modulus: P256Prime}

// Field is the prime field Z/pZ. All operations return freshly allocated
// values reduced into [0, p) and never modify their arguments.
type Field struct {
	// Modulus is the field prime p
	Modulus *big.Int
}

// NewField creates a field over the given modulus. The modulus is assumed
// prime; Inverse and Pow rely on it.
func NewField(modulus *big.Int) (*Field, error) {
	if modulus == nil || modulus.Cmp(big.NewInt(1)) <= 0 {
		return nil, ErrInvalidModulus
	}
	return &Field{Modulus: new(big.Int).Set(modulus)}, nil
}

// Contains reports whether a is a canonical field element, 0 <= a < p
func (f *Field) Contains(a *big.Int) bool {
	return a != nil && a.Sign() >= 0 && a.Cmp(f.Modulus) < 0
}

// Reduce returns a mod p
func (f *Field) Reduce(a *big.Int) *big.Int {
	return new(big.Int).Mod(a, f.Modulus)
}

// Add returns (a + b) mod p
func (f *Field) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, f.Modulus)
}

// Sub returns (a - b) mod p
func (f *Field) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, f.Modulus)
}

// Mul returns (a * b) mod p
func (f *Field) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.Modulus)
}

// Pow returns a^e mod p. Negative exponents are reduced mod p-1 (Fermat),
// which is only meaningful for non-zero a.
func (f *Field) Pow(a, e *big.Int) *big.Int {
	exp := e
	if e.Sign() < 0 {
		order := new(big.Int).Sub(f.Modulus, big.NewInt(1))
		exp = new(big.Int).Mod(e, order)
	}
	return new(big.Int).Exp(f.Reduce(a), exp, f.Modulus)
}

// Inverse returns a^-1 mod p, or ErrZeroInverse when a ≡ 0 (mod p)
func (f *Field) Inverse(a *big.Int) (*big.Int, error) {
	r := f.Reduce(a)
	if r.Sign() == 0 {
		return nil, ErrZeroInverse
	}

	inv := new(big.Int).ModInverse(r, f.Modulus)
	if inv == nil {
		// only reachable with a composite modulus
		return nil, ErrZeroInverse
	}
	return inv, nil
}

// Div returns a * b^-1 mod p
func (f *Field) Div(a, b *big.Int) (*big.Int, error) {
	inv, err := f.Inverse(b)
	if err != nil {
		return nil, err
	}
	return f.Mul(a, inv), nil
}

func mustParseHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("math: invalid hex constant " + s)
	}
	return v
}
