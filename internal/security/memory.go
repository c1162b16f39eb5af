// Package security provides helpers for handling secret material
package security

import (
	"crypto/subtle"
	"math/big"
	"runtime"
)

// SecureZero securely zeros out a byte slice to prevent secrets from remaining in memory
// This uses a method that prevents the compiler from optimizing away the zeroing
func SecureZero(data []byte) {
	if len(data) == 0 {
		return
	}

	zeros := make([]byte, len(data))
	subtle.ConstantTimeCopy(1, data, zeros)

	// Force a memory barrier
	runtime.KeepAlive(data)
}

// SecureZeroBigInt overwrites the limbs backing b and then sets it to zero.
// Copies of b made earlier (for example by Bytes) are not affected.
func SecureZeroBigInt(b *big.Int) {
	if b == nil {
		return
	}

	words := b.Bits()
	for i := range words {
		words[i] = 0
	}
	b.SetInt64(0)

	runtime.KeepAlive(words)
}

// SecureZeroBigInts wipes every value in the slice
func SecureZeroBigInts(values []*big.Int) {
	for _, v := range values {
		SecureZeroBigInt(v)
	}
}

// SecureCompareBigInts compares two non-negative integers without
// short-circuiting on the first differing byte
func SecureCompareBigInts(a, b *big.Int) bool {
	aBytes := a.Bytes()
	bBytes := b.Bytes()

	// Pad to same length
	maxLen := len(aBytes)
	if len(bBytes) > maxLen {
		maxLen = len(bBytes)
	}
	if maxLen == 0 {
		return true
	}

	aPadded := make([]byte, maxLen)
	bPadded := make([]byte, maxLen)
	copy(aPadded[maxLen-len(aBytes):], aBytes)
	copy(bPadded[maxLen-len(bBytes):], bBytes)

	return subtle.ConstantTimeCompare(aPadded, bPadded) == 1
}
