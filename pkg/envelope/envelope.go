// Package envelope seals a payload under a fresh secret split into signed
// shares, and opens it again from enough verified shares
package envelope

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Caqil/sealshare/internal/math"
	"github.com/Caqil/sealshare/internal/security"
	"github.com/Caqil/sealshare/pkg/auth"
	"github.com/Caqil/sealshare/pkg/binding"
	"github.com/Caqil/sealshare/pkg/crypto/aead"
	"github.com/Caqil/sealshare/pkg/crypto/rand"
	"github.com/Caqil/sealshare/pkg/logger"
	"github.com/Caqil/sealshare/pkg/metrics"
	"github.com/Caqil/sealshare/pkg/signing"
)

// Orchestrator runs the seal and open flows. It holds no per-operation
// state and is safe for concurrent use when its random source is.
type Orchestrator struct {
	random      io.Reader
	now         func() time.Time
	cipher      aead.Cipher
	signer      signing.Signer
	signingKey  []byte
	dealer      DealerFactory
	log         *logger.Logger
	metrics     *metrics.Metrics
	field       *math.Field
	maxAttempts int
	workers     int
	crossCheck  bool
}

// New creates an orchestrator with AES-256-GCM, Ed25519 and crypto/rand
// unless overridden
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		now:         time.Now,
		cipher:      aead.AESGCM{},
		signer:      signing.Ed25519{},
		dealer:      shamirDealer,
		log:         logger.Nop(),
		field:       math.P256,
		maxAttempts: DefaultMaxSecretAttempts,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.Component("envelope")
	return o
}

// Sealed is the output of Seal: a signed envelope and n signed shares
type Sealed struct {
	Envelope *auth.SignedEnvelope
	Shares   []*auth.SignedShare

	// SenderPublicKey verifies the envelope and every share
	SenderPublicKey []byte
}

// MessageID returns the envelope identifier
func (s *Sealed) MessageID() string {
	return s.Envelope.Envelope.ID
}

// Seal encrypts plaintext under a fresh secret and splits the secret into
// numShares signed shares, any threshold of which open the envelope.
// Nothing is returned unless every step succeeds.
func (o *Orchestrator) Seal(ctx context.Context, plaintext []byte, threshold, numShares int) (sealed *Sealed, err error) {
	start := time.Now()
	defer func() {
		o.metrics.RecordOperation(metrics.OpSeal, err, time.Since(start))
	}()

	if err := security.ValidateThreshold(threshold, numShares); err != nil {
		return nil, fmt.Errorf("%w: %w", math.ErrInvalidInput, err)
	}

	// GenerateSecret
	secret, err := GenerateSecret(o.random, o.field, o.maxAttempts)
	if err != nil {
		return nil, err
	}
	defer security.SecureZeroBigInt(secret)

	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	defer security.SecureZero(key)

	// EncryptPayload
	nonce, err := rand.GenerateNonce(o.random, aead.NonceSize)
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext, err := o.cipher.Encrypt(key, nonce, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypt payload: %w", err)
	}

	// SplitSecret
	dealer, err := o.dealer(threshold, numShares, o.field, o.random)
	if err != nil {
		return nil, err
	}
	dealing, err := dealer.Deal(secret)
	if err != nil {
		return nil, fmt.Errorf("split secret: %w", err)
	}
	shares := dealing.Shares

	privateKey, publicKey, err := o.senderKey()
	if err != nil {
		return nil, err
	}
	defer security.SecureZero(privateKey)

	messageID, err := NewMessageID(o.random)
	if err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}

	env := &binding.Envelope{
		ID:              messageID,
		Ciphertext:      ciphertext,
		Nonce:           nonce,
		SenderPublicKey: publicKey,
		CreatedAt:       o.now().Unix(),
		Threshold:       threshold,
	}
	if env.Threshold != dealing.Threshold || len(shares) != numShares {
		return nil, fmt.Errorf("%w: envelope %d of %d, dealt %d of %d",
			ErrThresholdMismatch, env.Threshold, numShares, dealing.Threshold, len(shares))
	}

	// BindShares
	bound, err := binding.BindAll(shares, messageID)
	if err != nil {
		return nil, err
	}

	// SignAll
	authn := auth.New(o.signer)
	signedEnvelope, err := authn.SignEnvelope(env, privateKey)
	if err != nil {
		return nil, err
	}
	signedShares, err := authn.SignAll(ctx, bound, privateKey, o.workers)
	if err != nil {
		return nil, err
	}

	// Emit
	o.metrics.RecordIssued(len(signedShares))
	o.log.InfoEvent().
		Str(logger.FieldMessageID, messageID).
		Int("threshold", threshold).
		Int("shares", numShares).
		Int("ciphertext_bytes", len(ciphertext)).
		Str("cipher", o.cipher.Name()).
		SenderKey(publicKey).
		Msg("envelope sealed")

	return &Sealed{
		Envelope:        signedEnvelope,
		Shares:          signedShares,
		SenderPublicKey: publicKey,
	}, nil
}

// senderKey returns a copy of the configured signing key, or a fresh
// keypair
func (o *Orchestrator) senderKey() ([]byte, []byte, error) {
	if len(o.signingKey) == 0 {
		priv, pub, err := o.signer.Generate(o.random)
		if err != nil {
			return nil, nil, fmt.Errorf("generate signing key: %w", err)
		}
		return priv, pub, nil
	}

	pub, err := o.signer.PublicKey(o.signingKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidSigningKey, err)
	}
	return append([]byte(nil), o.signingKey...), pub, nil
}
