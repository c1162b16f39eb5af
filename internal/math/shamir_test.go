package math

import (
	"errors"
	"math/big"
	"testing"

	"github.com/Caqil/sealshare/pkg/crypto/rand"
)

func newTestScheme(t *testing.T, k, n int) *ShamirSecretSharing {
	t.Helper()
	sss, err := NewShamirSecretSharing(k, n, P256, nil)
	if err != nil {
		t.Fatalf("NewShamirSecretSharing(%d, %d) failed: %v", k, n, err)
	}
	return sss
}

func TestNewShamirSecretSharingValidation(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		shares    int
	}{
		{"zero shares", 1, 0},
		{"negative shares", 1, -1},
		{"zero threshold", 0, 3},
		{"negative threshold", -2, 3},
		{"threshold above shares", 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShamirSecretSharing(tt.threshold, tt.shares, P256, nil)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if _, err := NewShamirSecretSharing(2, 3, nil, nil); err != ErrNilField {
		t.Errorf("Expected ErrNilField, got %v", err)
	}
}

func TestSplitAndCombine(t *testing.T) {
	pMinusOne := new(big.Int).Sub(P256Prime, big.NewInt(1))
	secrets := []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(42), pMinusOne}
	params := []struct{ k, n int }{{1, 1}, {1, 4}, {2, 2}, {2, 3}, {3, 5}, {5, 5}, {7, 10}}

	for _, secret := range secrets {
		for _, p := range params {
			sss := newTestScheme(t, p.k, p.n)

			shares, err := sss.Split(secret)
			if err != nil {
				t.Fatalf("Split(k=%d, n=%d) failed: %v", p.k, p.n, err)
			}
			if len(shares) != p.n {
				t.Fatalf("Expected %d shares, got %d", p.n, len(shares))
			}

			got, err := sss.Combine(shares[:p.k])
			if err != nil {
				t.Fatalf("Combine(k=%d, n=%d) failed: %v", p.k, p.n, err)
			}
			if got.Cmp(secret) != 0 {
				t.Errorf("k=%d n=%d: expected %s, got %s", p.k, p.n, secret, got)
			}
		}
	}
}

func TestSplitAssignsSequentialX(t *testing.T) {
	sss := newTestScheme(t, 3, 5)
	shares, err := sss.Split(big.NewInt(42))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	for i, share := range shares {
		if share.X.Int64() != int64(i+1) {
			t.Errorf("Share %d: expected x=%d, got %s", i, i+1, share.X)
		}
		if !P256.Contains(share.Y) {
			t.Errorf("Share %d: y outside the field", i)
		}
	}
}

func TestDealReportsPolynomialThreshold(t *testing.T) {
	params := []struct{ k, n int }{{1, 1}, {1, 3}, {2, 3}, {4, 6}, {9, 9}}

	for _, p := range params {
		sss := newTestScheme(t, p.k, p.n)
		d, err := sss.Deal(big.NewInt(7))
		if err != nil {
			t.Fatalf("Deal(k=%d, n=%d) failed: %v", p.k, p.n, err)
		}
		if d.Threshold != p.k {
			t.Errorf("k=%d n=%d: expected dealt threshold %d, got %d", p.k, p.n, p.k, d.Threshold)
		}
		if len(d.Shares) != p.n {
			t.Errorf("k=%d n=%d: expected %d shares, got %d", p.k, p.n, p.n, len(d.Shares))
		}
	}
}

func TestAnySubsetReconstructsSameSecret(t *testing.T) {
	sss := newTestScheme(t, 3, 5)
	shares, _ := sss.Split(big.NewInt(42))

	subsets := [][]int{
		{1, 3, 4}, // x = 2, 4, 5
		{0, 1, 2},
		{4, 2, 0},
		{0, 3, 4},
	}

	for _, idx := range subsets {
		subset := make([]*Share, len(idx))
		for i, j := range idx {
			subset[i] = shares[j]
		}
		got, err := sss.Combine(subset)
		if err != nil {
			t.Fatalf("Combine(%v) failed: %v", idx, err)
		}
		if got.Int64() != 42 {
			t.Errorf("Subset %v: expected 42, got %s", idx, got)
		}
	}
}

func TestCombineInsufficientShares(t *testing.T) {
	sss := newTestScheme(t, 3, 5)
	shares, _ := sss.Split(big.NewInt(42))

	got, err := sss.Combine(shares[:2])
	if !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Expected ErrInsufficientShares, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected no value with insufficient shares, got %s", got)
	}

	if _, err := sss.Combine(nil); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Expected ErrInsufficientShares for empty input, got %v", err)
	}
}

func TestCombineDuplicateX(t *testing.T) {
	sss := newTestScheme(t, 3, 5)
	shares, _ := sss.Split(big.NewInt(42))

	dup := []*Share{shares[0], shares[1], shares[1].Clone()}
	got, err := sss.Combine(dup)
	if !errors.Is(err, ErrDuplicatePoints) {
		t.Errorf("Expected ErrDuplicatePoints, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected no value for duplicate x, got %s", got)
	}

	// a duplicate outside the first k is still rejected
	dup = []*Share{shares[0], shares[1], shares[2], shares[0].Clone()}
	if _, err := sss.Combine(dup); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestCombineInvalidShares(t *testing.T) {
	sss := newTestScheme(t, 2, 3)
	shares, _ := sss.Split(big.NewInt(42))

	tests := []struct {
		name  string
		share *Share
	}{
		{"nil share", nil},
		{"nil y", &Share{X: big.NewInt(3)}},
		{"zero x", &Share{X: big.NewInt(0), Y: big.NewInt(1)}},
		{"y equals p", &Share{X: big.NewInt(3), Y: new(big.Int).Set(P256Prime)}},
		{"negative y", &Share{X: big.NewInt(3), Y: big.NewInt(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sss.Combine([]*Share{shares[0], tt.share})
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSplitSecretOutOfRange(t *testing.T) {
	sss := newTestScheme(t, 2, 3)

	if _, err := sss.Split(new(big.Int).Set(P256Prime)); err != ErrSecretOutOfRange {
		t.Errorf("Expected ErrSecretOutOfRange for p, got %v", err)
	}
	if _, err := sss.Split(big.NewInt(-1)); err != ErrSecretOutOfRange {
		t.Errorf("Expected ErrSecretOutOfRange for -1, got %v", err)
	}
	if _, err := sss.Split(nil); err != ErrNilSecret {
		t.Errorf("Expected ErrNilSecret, got %v", err)
	}
}

func TestCombineMoreThanThreshold(t *testing.T) {
	sss := newTestScheme(t, 3, 6)
	secret := big.NewInt(123456789)
	shares, _ := sss.Split(secret)

	got, err := sss.CombineChecked(shares)
	if err != nil {
		t.Fatalf("CombineChecked failed: %v", err)
	}
	if got.Cmp(secret) != 0 {
		t.Errorf("Expected %s, got %s", secret, got)
	}
}

func TestCombineCheckedDetectsForeignShare(t *testing.T) {
	sss := newTestScheme(t, 3, 5)
	shares, _ := sss.Split(big.NewInt(42))
	other, _ := sss.Split(big.NewInt(43))

	mixed := []*Share{shares[0], shares[1], shares[2], other[3]}

	if _, err := sss.CombineChecked(mixed); !errors.Is(err, ErrInconsistentShares) {
		t.Errorf("Expected ErrInconsistentShares, got %v", err)
	}

	// the unchecked path ignores the extra share
	got, err := sss.Combine(mixed)
	if err != nil || got.Int64() != 42 {
		t.Errorf("Expected 42 from first three shares, got %v, %v", got, err)
	}
}

func TestSplitDeterministicWithSeededReader(t *testing.T) {
	r1, _ := rand.NewDeterministicReader([]byte("split"))
	r2, _ := rand.NewDeterministicReader([]byte("split"))

	a, _ := NewShamirSecretSharing(3, 5, P256, r1)
	b, _ := NewShamirSecretSharing(3, 5, P256, r2)

	sharesA, err := a.Split(big.NewInt(42))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	sharesB, _ := b.Split(big.NewInt(42))

	for i := range sharesA {
		if !sharesA[i].Equal(sharesB[i]) {
			t.Errorf("Share %d differs between identical seeds", i)
		}
	}
}

func TestSortShares(t *testing.T) {
	shares := []*Share{
		{X: big.NewInt(5), Y: big.NewInt(0)},
		{X: big.NewInt(2), Y: big.NewInt(0)},
		{X: big.NewInt(4), Y: big.NewInt(0)},
	}
	SortShares(shares)

	for i, want := range []int64{2, 4, 5} {
		if shares[i].X.Int64() != want {
			t.Errorf("Position %d: expected x=%d, got %s", i, want, shares[i].X)
		}
	}
}

func TestShareStringHidesY(t *testing.T) {
	s := &Share{X: big.NewInt(3), Y: big.NewInt(987654321)}
	if got := s.String(); got != "Share(x=3)" {
		t.Errorf("Unexpected String(): %q", got)
	}
}
