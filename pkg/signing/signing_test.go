package signing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Caqil/sealshare/pkg/crypto/rand"
)

func TestEd25519SignVerify(t *testing.T) {
	var s Ed25519

	priv, pub, err := s.Generate(nil)
	require.NoError(t, err)
	assert.Len(t, priv, 64)
	assert.Len(t, pub, 32)

	msg := []byte(`{"type":"share"}`)
	sig, err := s.Sign(priv, msg)
	require.NoError(t, err)
	assert.Len(t, sig, 64)

	assert.True(t, s.Verify(pub, msg, sig))
	assert.False(t, s.Verify(pub, []byte(`{"type":"shard"}`), sig))

	_, otherPub, err := s.Generate(nil)
	require.NoError(t, err)
	assert.False(t, s.Verify(otherPub, msg, sig))
}

func TestEd25519VerifyMalformedInputs(t *testing.T) {
	var s Ed25519
	priv, pub, err := s.Generate(nil)
	require.NoError(t, err)
	sig, err := s.Sign(priv, []byte("m"))
	require.NoError(t, err)

	assert.False(t, s.Verify(nil, []byte("m"), sig))
	assert.False(t, s.Verify(pub[:31], []byte("m"), sig))
	assert.False(t, s.Verify(pub, []byte("m"), nil))
	assert.False(t, s.Verify(pub, []byte("m"), sig[:63]))
}

func TestEd25519DeterministicGenerate(t *testing.T) {
	var s Ed25519
	r1, _ := rand.NewDeterministicReader([]byte("signer"))
	r2, _ := rand.NewDeterministicReader([]byte("signer"))

	priv1, pub1, err := s.Generate(r1)
	require.NoError(t, err)
	priv2, pub2, err := s.Generate(r2)
	require.NoError(t, err)

	assert.Equal(t, priv1, priv2)
	assert.Equal(t, pub1, pub2)
}

func TestEd25519PublicKey(t *testing.T) {
	var s Ed25519
	priv, pub, err := s.Generate(nil)
	require.NoError(t, err)

	derived, err := s.PublicKey(priv)
	require.NoError(t, err)
	assert.Equal(t, pub, derived)

	_, err = s.PublicKey(priv[:10])
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = s.Sign(priv[:10], nil)
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestEd25519FromSeed(t *testing.T) {
	var s Ed25519
	priv, _, err := s.Generate(nil)
	require.NoError(t, err)

	rebuilt, err := s.FromSeed(priv[:32])
	require.NoError(t, err)
	assert.Equal(t, priv, rebuilt)

	_, err = s.FromSeed([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidSeed)
}
