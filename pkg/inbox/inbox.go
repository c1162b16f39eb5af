// Package inbox collects scanned envelope and share artifacts until enough
// verified shares are present to open an envelope
package inbox

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Caqil/sealshare/internal/security"
	"github.com/Caqil/sealshare/pkg/auth"
	"github.com/Caqil/sealshare/pkg/binding"
	"github.com/Caqil/sealshare/pkg/envelope"
	"github.com/Caqil/sealshare/pkg/logger"
	"github.com/Caqil/sealshare/pkg/metrics"
)

// MaxArtifactLength bounds the artifact text accepted by Ingest
const MaxArtifactLength = 4 << 20

// Item describes an ingested artifact
type Item struct {
	Type      string
	MessageID string

	// X is the share position, 0 for envelopes
	X int
}

// Progress reports how many verified shares are held for an envelope
type Progress struct {
	MessageID string
	Have      int
	Need      int
	Xs        []int
}

// Ready reports whether the envelope can be opened
func (p Progress) Ready() bool {
	return p.Have >= p.Need
}

// Inbox holds envelopes keyed by id and shares keyed by (id, x). Every
// share is verified against its envelope's sender key on the way in.
// It is safe for concurrent use.
type Inbox struct {
	mu        sync.Mutex
	auth      *auth.Authenticator
	envelopes map[string]*auth.SignedEnvelope
	shares    map[string]map[int]*auth.SignedShare
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// New creates an empty inbox. Nil logger and metrics are allowed.
func New(log *logger.Logger, m *metrics.Metrics) *Inbox {
	if log == nil {
		log = logger.Nop()
	}
	return &Inbox{
		auth:      auth.New(nil),
		envelopes: make(map[string]*auth.SignedEnvelope),
		shares:    make(map[string]map[int]*auth.SignedShare),
		log:       log.Component("inbox"),
		metrics:   m,
	}
}

// Ingest decodes artifact text and stores it
func (in *Inbox) Ingest(text string) (item *Item, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			in.log.DebugEvent().Err(err).Msg("artifact not ingested")
		}
		in.metrics.RecordOperation(metrics.OpIngest, err, time.Since(start))
	}()

	if err := security.SanitizeInput(text, MaxArtifactLength); err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrMalformedArtifact, err)
	}

	typ, err := auth.PeekArtifactType(text)
	if err != nil {
		return nil, err
	}

	switch typ {
	case binding.TypeEnvelope:
		env, err := auth.ParseEnvelopeArtifact(text)
		if err != nil {
			return nil, err
		}
		return in.AddEnvelope(env)
	case binding.TypeShare:
		share, err := auth.ParseShareArtifact(text)
		if err != nil {
			return nil, err
		}
		return in.AddShare(share)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
	}
}

// AddEnvelope stores a decoded envelope after checking its signature
func (in *Inbox) AddEnvelope(env *auth.SignedEnvelope) (*Item, error) {
	if err := in.auth.CheckEnvelope(env); err != nil {
		return nil, err
	}

	id := env.Envelope.ID
	item := &Item{Type: binding.TypeEnvelope, MessageID: id}

	in.mu.Lock()
	defer in.mu.Unlock()

	if held, ok := in.envelopes[id]; ok {
		if string(held.Payload) == string(env.Payload) {
			return item, ErrDuplicate
		}
		return nil, fmt.Errorf("%w: envelope %s", ErrConflict, id)
	}

	in.envelopes[id] = env
	in.shares[id] = make(map[int]*auth.SignedShare)

	in.log.InfoEvent().
		Str(logger.FieldMessageID, id).
		Int("threshold", env.Envelope.Threshold).
		Int64("created_at", env.Envelope.CreatedAt).
		Bool("signed", env.Signed()).
		Msg("envelope ingested")
	return item, nil
}

// AddShare stores a decoded share after verifying it against the sender key
// of its envelope
func (in *Inbox) AddShare(share *auth.SignedShare) (*Item, error) {
	if share == nil || share.Share == nil {
		return nil, binding.ErrNilShare
	}

	id := share.Share.MessageID
	x := share.Share.X()
	item := &Item{Type: binding.TypeShare, MessageID: id, X: x}

	in.mu.Lock()
	defer in.mu.Unlock()

	env, ok := in.envelopes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, id)
	}

	if err := in.auth.CheckShare(share, env.Envelope.SenderPublicKey); err != nil {
		in.metrics.RecordShare(false)
		in.log.WarnEvent().Str(logger.FieldMessageID, id).X(x).Err(err).Msg("share rejected")
		return nil, err
	}
	in.metrics.RecordShare(true)

	if held, ok := in.shares[id][x]; ok {
		if held.Share.Equal(share.Share) {
			return item, ErrDuplicate
		}
		return nil, fmt.Errorf("%w: share %d of %s", ErrConflict, x, id)
	}

	in.shares[id][x] = share

	in.log.InfoEvent().
		Str(logger.FieldMessageID, id).
		X(x).
		Int("have", len(in.shares[id])).
		Int("need", env.Envelope.Threshold).
		Msg("share ingested")
	return item, nil
}

// Progress returns the share count for an envelope
func (in *Inbox) Progress(messageID string) (Progress, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	env, ok := in.envelopes[messageID]
	if !ok {
		return Progress{}, fmt.Errorf("%w: %s", ErrUnknownMessage, messageID)
	}

	xs := make([]int, 0, len(in.shares[messageID]))
	for x := range in.shares[messageID] {
		xs = append(xs, x)
	}
	sort.Ints(xs)

	return Progress{
		MessageID: messageID,
		Have:      len(xs),
		Need:      env.Envelope.Threshold,
		Xs:        xs,
	}, nil
}

// Ready reports whether enough shares are held to open the envelope
func (in *Inbox) Ready(messageID string) bool {
	p, err := in.Progress(messageID)
	return err == nil && p.Ready()
}

// Messages returns the ids of held envelopes, sorted
func (in *Inbox) Messages() []string {
	in.mu.Lock()
	defer in.mu.Unlock()

	ids := make([]string, 0, len(in.envelopes))
	for id := range in.envelopes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Open hands the envelope and its shares, ordered by x, to o
func (in *Inbox) Open(ctx context.Context, messageID string, o *envelope.Orchestrator) (*envelope.Report, error) {
	in.mu.Lock()
	env, ok := in.envelopes[messageID]
	held := make([]*auth.SignedShare, 0, len(in.shares[messageID]))
	for _, s := range in.shares[messageID] {
		held = append(held, s)
	}
	in.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, messageID)
	}

	sort.Slice(held, func(i, j int) bool {
		return held[i].Share.X() < held[j].Share.X()
	})
	return o.Open(ctx, env, held)
}
