package math

import (
	"io"
	"math/big"

	"github.com/Caqil/sealshare/internal/security"
	"github.com/Caqil/sealshare/pkg/crypto/rand"
)

// Polynomial represents a polynomial over a prime field
// f(x) = coefficients[0] + coefficients[1]*x + coefficients[2]*x^2 + ...
type Polynomial struct {
	// Coefficients in ascending order (index 0 is constant term)
	Coefficients []*big.Int

	// Field the coefficients live in
	Field *Field
}

// NewPolynomial creates a new polynomial with given coefficients
func NewPolynomial(coefficients []*big.Int, field *Field) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, ErrEmptyCoefficients
	}
	if field == nil {
		return nil, ErrNilField
	}

	// Normalize coefficients to field
	normalized := make([]*big.Int, len(coefficients))
	for i, coef := range coefficients {
		if coef == nil {
			normalized[i] = big.NewInt(0)
		} else {
			normalized[i] = field.Reduce(coef)
		}
	}

	return &Polynomial{
		Coefficients: normalized,
		Field:        field,
	}, nil
}

// NewRandomPolynomial generates a polynomial of the given degree whose
// constant term is constantTerm and whose other coefficients are drawn
// uniformly from [1, p) using r (nil selects the secure default).
func NewRandomPolynomial(degree int, constantTerm *big.Int, field *Field, r io.Reader) (*Polynomial, error) {
	if degree < 0 {
		return nil, ErrInvalidDegree
	}
	if field == nil {
		return nil, ErrNilField
	}
	if constantTerm == nil {
		return nil, ErrNilSecret
	}

	coefficients := make([]*big.Int, degree+1)
	coefficients[0] = field.Reduce(constantTerm)

	for i := 1; i <= degree; i++ {
		coef, err := rand.GenerateRandomScalar(r, field.Modulus)
		if err != nil {
			security.SecureZeroBigInts(coefficients[:i])
			return nil, err
		}
		coefficients[i] = coef
	}

	return &Polynomial{
		Coefficients: coefficients,
		Field:        field,
	}, nil
}

// Degree returns the degree of the polynomial
func (p *Polynomial) Degree() int {
	// Find highest non-zero coefficient
	for i := len(p.Coefficients) - 1; i >= 0; i-- {
		if p.Coefficients[i].Sign() != 0 {
			return i
		}
	}
	return 0
}

// Evaluate evaluates the polynomial at point x: f(x) mod p
// Uses Horner's method for efficiency
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	n := len(p.Coefficients)
	if x == nil || n == 0 {
		return big.NewInt(0)
	}

	modulus := p.Field.Modulus
	xMod := p.Field.Reduce(x)

	// Horner's method: f(x) = a₀ + x(a₁ + x(a₂ + x(a₃ + ...)))
	result := new(big.Int).Set(p.Coefficients[n-1])

	for i := n - 2; i >= 0; i-- {
		result.Mul(result, xMod)
		result.Add(result, p.Coefficients[i])
		result.Mod(result, modulus)
	}

	return result
}

// Zero wipes every coefficient. The polynomial evaluates to zero afterwards.
func (p *Polynomial) Zero() {
	if p == nil {
		return
	}
	security.SecureZeroBigInts(p.Coefficients)
}

// InterpolateAt evaluates, at point at, the unique polynomial of degree
// len(points)-1 passing through (points[i], values[i]).
// f(at) = Σᵢ yᵢ · ∏ⱼ≠ᵢ (at - xⱼ)/(xᵢ - xⱼ)
func InterpolateAt(field *Field, points, values []*big.Int, at *big.Int) (*big.Int, error) {
	if field == nil {
		return nil, ErrNilField
	}
	if len(points) != len(values) {
		return nil, ErrPointValueMismatch
	}
	if len(points) == 0 {
		return nil, ErrEmptyPoints
	}

	// Duplicate x-coordinates zero a denominator; catch them before any inverse
	if hasDuplicates(field, points) {
		return nil, ErrDuplicatePoints
	}

	result := big.NewInt(0)

	for i := range points {
		numerator := big.NewInt(1)
		denominator := big.NewInt(1)

		for j := range points {
			if i == j {
				continue
			}
			numerator = field.Mul(numerator, field.Sub(at, points[j]))
			denominator = field.Mul(denominator, field.Sub(points[i], points[j]))
		}

		basis, err := field.Div(numerator, denominator)
		if err != nil {
			return nil, err
		}

		result = field.Add(result, field.Mul(values[i], basis))
	}

	return result, nil
}

// hasDuplicates checks whether two points are congruent mod p
func hasDuplicates(field *Field, values []*big.Int) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		key := field.Reduce(v).String()
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}
