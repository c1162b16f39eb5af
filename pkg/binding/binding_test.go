package binding

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Caqil/sealshare/internal/math"
)

func share(x, y int64) *math.Share {
	return &math.Share{X: big.NewInt(x), Y: big.NewInt(y)}
}

func TestIntBytes(t *testing.T) {
	tests := []struct {
		name string
		in   *big.Int
		want []byte
	}{
		{"zero", big.NewInt(0), []byte{0x00}},
		{"one", big.NewInt(1), []byte{0x01}},
		{"two bytes", big.NewInt(256), []byte{0x01, 0x00}},
		{"prime minus one", new(big.Int).Sub(math.P256Prime, big.NewInt(1)), func() []byte {
			return new(big.Int).Sub(math.P256Prime, big.NewInt(1)).Bytes()
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntBytes(tt.in)
			assert.Equal(t, tt.want, got)

			back, err := IntFromBytes(got)
			require.NoError(t, err)
			assert.Equal(t, 0, back.Cmp(tt.in))
		})
	}
}

func TestIntFromBytesRejectsNonCanonical(t *testing.T) {
	_, err := IntFromBytes(nil)
	assert.ErrorIs(t, err, ErrNonCanonical)

	_, err = IntFromBytes([]byte{0x00, 0x01})
	assert.ErrorIs(t, err, ErrNonCanonical)

	_, err = IntFromBytes([]byte{0x00, 0x00})
	assert.ErrorIs(t, err, ErrNonCanonical)
}

func TestShareBytesExactLayout(t *testing.T) {
	b, err := Bind(share(1, 42), "abc")
	require.NoError(t, err)

	got, err := ShareBytes(b)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"share","messageId":"abc","x":"AQ==","y":"Kg=="}`, string(got))
}

func TestShareBytesDeterministic(t *testing.T) {
	b, err := Bind(share(3, 123456789), "msg_1-A")
	require.NoError(t, err)

	first, err := ShareBytes(b)
	require.NoError(t, err)
	second, err := ShareBytes(b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestShareRoundTripBoundaryValues(t *testing.T) {
	pMinusOne := new(big.Int).Sub(math.P256Prime, big.NewInt(1))
	values := []*big.Int{big.NewInt(0), big.NewInt(1), pMinusOne}

	for _, x := range values {
		for _, y := range values {
			b, err := Bind(&math.Share{X: x, Y: y}, "id")
			require.NoError(t, err)

			data, err := ShareBytes(b)
			require.NoError(t, err)

			parsed, err := ParseShare(data)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(b), "x=%s y=%s", x, y)
		}
	}
}

func TestBindValidation(t *testing.T) {
	_, err := Bind(nil, "abc")
	assert.ErrorIs(t, err, ErrNilShare)

	_, err = Bind(&math.Share{X: big.NewInt(1)}, "abc")
	assert.ErrorIs(t, err, ErrNilShare)

	_, err = Bind(share(1, 2), "")
	assert.ErrorIs(t, err, ErrInvalidMessageID)

	_, err = Bind(share(1, 2), "has space")
	assert.ErrorIs(t, err, ErrInvalidMessageID)

	_, err = Bind(&math.Share{X: big.NewInt(1), Y: math.P256Prime}, "abc")
	assert.ErrorIs(t, err, ErrCoordinateOutOfRange)
}

func TestBindCopiesShare(t *testing.T) {
	s := share(1, 42)
	b, err := Bind(s, "abc")
	require.NoError(t, err)

	s.Y.SetInt64(7)
	assert.Equal(t, int64(42), b.Share.Y.Int64())
}

func TestShareBytesUnbound(t *testing.T) {
	_, err := ShareBytes(&BoundShare{Share: share(1, 2)})
	assert.ErrorIs(t, err, ErrUnboundShare)

	_, err = ShareBytes(nil)
	assert.ErrorIs(t, err, ErrNilShare)
}

func TestParseShareRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"not json", `nope`, ErrMalformed},
		{"wrong type", `{"type":"encryptedMessage","messageId":"abc","x":"AQ==","y":"Kg=="}`, ErrWrongType},
		{"unknown field", `{"type":"share","messageId":"abc","x":"AQ==","y":"Kg==","z":1}`, ErrMalformed},
		{"reordered keys", `{"messageId":"abc","type":"share","x":"AQ==","y":"Kg=="}`, ErrNonCanonical},
		{"whitespace", `{"type":"share", "messageId":"abc","x":"AQ==","y":"Kg=="}`, ErrNonCanonical},
		{"leading zero", `{"type":"share","messageId":"abc","x":"AAE=","y":"Kg=="}`, ErrNonCanonical},
		{"empty x", `{"type":"share","messageId":"abc","x":"","y":"Kg=="}`, ErrNonCanonical},
		{"bad id", `{"type":"share","messageId":"a/c","x":"AQ==","y":"Kg=="}`, ErrInvalidMessageID},
		{"trailing data", `{"type":"share","messageId":"abc","x":"AQ==","y":"Kg=="}{}`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseShare([]byte(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseShareOutOfRange(t *testing.T) {
	b := &BoundShare{MessageID: "abc", Share: &math.Share{X: big.NewInt(1), Y: math.P256Prime}}
	data, err := ShareBytes(b)
	require.NoError(t, err)

	_, err = ParseShare(data)
	assert.ErrorIs(t, err, ErrCoordinateOutOfRange)
}

func TestCheckConsistency(t *testing.T) {
	a1, _ := Bind(share(1, 10), "A")
	a2, _ := Bind(share(2, 20), "A")
	b1, _ := Bind(share(3, 30), "B")

	assert.NoError(t, CheckConsistency(nil))
	assert.NoError(t, CheckConsistency([]*BoundShare{a1, a2}))

	err := CheckConsistency([]*BoundShare{a1, a2, b1})
	require.ErrorIs(t, err, ErrMismatchedMessage)
	assert.Contains(t, err.Error(), `"B"`)

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, CheckConsistency([]*BoundShare{a1, nil, a2}), ErrNilShare)
		assert.ErrorIs(t, CheckConsistency([]*BoundShare{nil}), ErrNilShare)
	})
}

func testEnvelope() *Envelope {
	return &Envelope{
		ID:              "abc",
		Ciphertext:      []byte{0x01, 0x02},
		Nonce:           []byte{0x03},
		SenderPublicKey: []byte{0x04},
		CreatedAt:       1700000000,
		Threshold:       3,
	}
}

func TestEnvelopeBytesExactLayout(t *testing.T) {
	got, err := EnvelopeBytes(testEnvelope())
	require.NoError(t, err)

	want := `{"type":"encryptedMessage","id":"abc","ciphertext":"AQI=","nonce":"Aw==",` +
		`"senderPublicKey":"BA==","createdAt":1700000000,"threshold":3}`
	assert.Equal(t, want, string(got))
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := testEnvelope()
	data, err := EnvelopeBytes(env)
	require.NoError(t, err)

	parsed, err := ParseEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, env, parsed)

	typ, err := PeekType(data)
	require.NoError(t, err)
	assert.Equal(t, TypeEnvelope, typ)
}

func TestEnvelopeValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *Envelope)
	}{
		{"empty id", func(e *Envelope) { e.ID = "" }},
		{"empty ciphertext", func(e *Envelope) { e.Ciphertext = nil }},
		{"empty nonce", func(e *Envelope) { e.Nonce = nil }},
		{"empty key", func(e *Envelope) { e.SenderPublicKey = nil }},
		{"zero threshold", func(e *Envelope) { e.Threshold = 0 }},
		{"negative time", func(e *Envelope) { e.CreatedAt = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testEnvelope()
			tt.mutate(env)
			assert.ErrorIs(t, env.Validate(), ErrInvalidEnvelope)

			_, err := EnvelopeBytes(env)
			assert.ErrorIs(t, err, ErrInvalidEnvelope)
		})
	}

	var nilEnv *Envelope
	assert.ErrorIs(t, nilEnv.Validate(), ErrInvalidEnvelope)
}

func TestParseEnvelopeWrongType(t *testing.T) {
	b, _ := Bind(share(1, 42), "abc")
	data, err := ShareBytes(b)
	require.NoError(t, err)

	_, err = ParseEnvelope(data)
	assert.Error(t, err)
}

func TestValidateMessageID(t *testing.T) {
	assert.NoError(t, ValidateMessageID("AZaz09-_"))
	assert.ErrorIs(t, ValidateMessageID(""), ErrInvalidMessageID)
	assert.ErrorIs(t, ValidateMessageID("a=b"), ErrInvalidMessageID)
	assert.ErrorIs(t, ValidateMessageID(string(make([]byte, 129))), ErrInvalidMessageID)
}

func TestBoundShareKey(t *testing.T) {
	b, _ := Bind(share(4, 1), "abc")
	assert.Equal(t, "abc/4", b.Key())
	assert.Equal(t, 4, b.X())
}
