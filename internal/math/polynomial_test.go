package math

import (
	"errors"
	"math/big"
	"testing"

	"github.com/Caqil/sealshare/pkg/crypto/rand"
)

func TestPolynomialEvaluateHorner(t *testing.T) {
	// f(x) = 42 + 3x + 2x²
	poly, err := NewPolynomial([]*big.Int{big.NewInt(42), big.NewInt(3), big.NewInt(2)}, P256)
	if err != nil {
		t.Fatalf("NewPolynomial failed: %v", err)
	}

	tests := []struct {
		x        int64
		expected int64
	}{
		{0, 42},
		{1, 47},
		{2, 56},
		{5, 107},
	}

	for _, tt := range tests {
		if got := poly.Evaluate(big.NewInt(tt.x)); got.Cmp(big.NewInt(tt.expected)) != 0 {
			t.Errorf("f(%d): expected %d, got %s", tt.x, tt.expected, got)
		}
	}

	if poly.Degree() != 2 {
		t.Errorf("Expected degree 2, got %d", poly.Degree())
	}
}

func TestPolynomialEvaluateWrapsModulus(t *testing.T) {
	f, _ := NewField(big.NewInt(11))
	// f(x) = 10 + 10x over GF(11)
	poly, _ := NewPolynomial([]*big.Int{big.NewInt(10), big.NewInt(10)}, f)

	if got := poly.Evaluate(big.NewInt(1)); got.Int64() != 9 {
		t.Errorf("Expected 9, got %s", got)
	}
}

func TestNewPolynomialErrors(t *testing.T) {
	if _, err := NewPolynomial(nil, P256); err != ErrEmptyCoefficients {
		t.Errorf("Expected ErrEmptyCoefficients, got %v", err)
	}
	if _, err := NewPolynomial([]*big.Int{big.NewInt(1)}, nil); err != ErrNilField {
		t.Errorf("Expected ErrNilField, got %v", err)
	}
}

func TestNewRandomPolynomial(t *testing.T) {
	secret := big.NewInt(42)
	poly, err := NewRandomPolynomial(4, secret, P256, nil)
	if err != nil {
		t.Fatalf("NewRandomPolynomial failed: %v", err)
	}

	if len(poly.Coefficients) != 5 {
		t.Fatalf("Expected 5 coefficients, got %d", len(poly.Coefficients))
	}
	if poly.Coefficients[0].Cmp(secret) != 0 {
		t.Error("Constant term must equal the secret")
	}
	for i, c := range poly.Coefficients[1:] {
		if c.Sign() <= 0 || c.Cmp(P256Prime) >= 0 {
			t.Errorf("Coefficient %d out of [1, p): %s", i+1, c)
		}
	}

	if _, err := NewRandomPolynomial(-1, secret, P256, nil); err != ErrInvalidDegree {
		t.Errorf("Expected ErrInvalidDegree, got %v", err)
	}
}

func TestNewRandomPolynomialDeterministic(t *testing.T) {
	r1, _ := rand.NewDeterministicReader([]byte("poly"))
	r2, _ := rand.NewDeterministicReader([]byte("poly"))

	p1, err := NewRandomPolynomial(3, big.NewInt(7), P256, r1)
	if err != nil {
		t.Fatalf("NewRandomPolynomial failed: %v", err)
	}
	p2, _ := NewRandomPolynomial(3, big.NewInt(7), P256, r2)

	for i := range p1.Coefficients {
		if p1.Coefficients[i].Cmp(p2.Coefficients[i]) != 0 {
			t.Errorf("Coefficient %d differs between identical seeds", i)
		}
	}
}

func TestPolynomialZero(t *testing.T) {
	poly, _ := NewRandomPolynomial(2, big.NewInt(99), P256, nil)
	poly.Zero()

	for i, c := range poly.Coefficients {
		if c.Sign() != 0 {
			t.Errorf("Coefficient %d not wiped", i)
		}
	}
}

func TestInterpolateAt(t *testing.T) {
	// points of f(x) = 42 + 3x + 2x²
	points := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(5)}
	values := []*big.Int{big.NewInt(47), big.NewInt(56), big.NewInt(107)}

	got, err := InterpolateAt(P256, points, values, big.NewInt(0))
	if err != nil {
		t.Fatalf("InterpolateAt failed: %v", err)
	}
	if got.Int64() != 42 {
		t.Errorf("Expected f(0) = 42, got %s", got)
	}

	got, err = InterpolateAt(P256, points, values, big.NewInt(3))
	if err != nil {
		t.Fatalf("InterpolateAt failed: %v", err)
	}
	if got.Int64() != 69 {
		t.Errorf("Expected f(3) = 69, got %s", got)
	}
}

func TestInterpolateAtErrors(t *testing.T) {
	one := big.NewInt(1)

	if _, err := InterpolateAt(P256, []*big.Int{one}, nil, big.NewInt(0)); err != ErrPointValueMismatch {
		t.Errorf("Expected ErrPointValueMismatch, got %v", err)
	}
	if _, err := InterpolateAt(P256, nil, nil, big.NewInt(0)); err != ErrEmptyPoints {
		t.Errorf("Expected ErrEmptyPoints, got %v", err)
	}

	_, err := InterpolateAt(P256, []*big.Int{one, big.NewInt(1)}, []*big.Int{one, one}, big.NewInt(0))
	if !errors.Is(err, ErrDomain) || !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected duplicate points to be a domain and input error, got %v", err)
	}
}
