// Package artifact writes sealed envelopes and shares to an output directory
// as QR images and text, and reads the text back
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Caqil/sealshare/pkg/auth"
	"github.com/Caqil/sealshare/pkg/envelope"
	"github.com/Caqil/sealshare/pkg/logger"
	"github.com/Caqil/sealshare/pkg/qr"
)

const (
	// EnvelopeImage is the envelope QR file name
	EnvelopeImage = "encrypted_message_qr.png"

	// EnvelopeText is the envelope artifact text file name
	EnvelopeText = "encrypted_message.txt"

	sharePrefix = "share_"
)

// Artifact errors
var (
	ErrNotFound         = errors.New("artifact not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidConfig    = errors.New("invalid artifact configuration")
)

// ShareImage returns the QR file name for share x
func ShareImage(x int) string {
	return fmt.Sprintf("%s%d.png", sharePrefix, x)
}

// ShareText returns the text file name for share x
func ShareText(x int) string {
	return fmt.Sprintf("%s%d.txt", sharePrefix, x)
}

// Config controls where and how artifacts are written
type Config struct {
	// Dir is the output directory, created if missing
	Dir string

	// FileMode is the permission of written files (default: 0600)
	FileMode os.FileMode

	// DirMode is the permission of a created directory (default: 0700)
	DirMode os.FileMode

	// Images enables QR PNG output
	Images bool

	// Text enables artifact text output
	Text bool
}

// DefaultConfig writes both images and text into dir
func DefaultConfig(dir string) *Config {
	return &Config{
		Dir:      dir,
		FileMode: 0600,
		DirMode:  0700,
		Images:   true,
		Text:     true,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("%w: directory cannot be empty", ErrInvalidConfig)
	}
	if c.FileMode&0077 != 0 {
		return fmt.Errorf("%w: insecure file permissions %o (should be 0600)", ErrInvalidConfig, c.FileMode)
	}
	if !c.Images && !c.Text {
		return fmt.Errorf("%w: nothing to write", ErrInvalidConfig)
	}
	return nil
}

// Store reads and writes artifacts in one directory
type Store struct {
	config   *Config
	renderer qr.Renderer
	log      *logger.Logger
}

// NewStore creates a store. renderer may be nil when images are disabled.
func NewStore(config *Config, renderer qr.Renderer, log *logger.Logger) (*Store, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Images && renderer == nil {
		return nil, fmt.Errorf("%w: images enabled without renderer", ErrInvalidConfig)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{config: config, renderer: renderer, log: log.Component("artifact")}, nil
}

type pending struct {
	name string
	data []byte
}

// WriteSealed writes the envelope and every share. Everything is rendered
// before the first file is written, and files already written are removed
// if a later write fails.
func (s *Store) WriteSealed(sealed *envelope.Sealed) ([]string, error) {
	start := time.Now()
	envText := sealed.Envelope.Encode()

	files := []pending{}
	add := func(image, text, content string) error {
		if s.config.Images {
			png, err := s.renderer.Render(content)
			if err != nil {
				return fmt.Errorf("render %s: %w", image, err)
			}
			files = append(files, pending{name: image, data: png})
		}
		if s.config.Text {
			files = append(files, pending{name: text, data: []byte(content + "\n")})
		}
		return nil
	}

	if err := add(EnvelopeImage, EnvelopeText, envText); err != nil {
		return nil, err
	}
	for _, share := range sealed.Shares {
		x := share.Share.X()
		if err := add(ShareImage(x), ShareText(x), share.Encode()); err != nil {
			return nil, err
		}
	}

	mode := s.config.DirMode
	if mode == 0 {
		mode = 0700
	}
	if err := os.MkdirAll(s.config.Dir, mode); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(s.config.Dir, f.name)
		if err := writeSecureFile(path, f.data, s.config.FileMode); err != nil {
			for _, w := range written {
				os.Remove(w)
			}
			s.log.ErrorEvent().
				Str(logger.FieldMessageID, sealed.MessageID()).
				Str("file", f.name).
				Err(err).
				Msg("artifact write failed")
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
		written = append(written, path)
	}

	s.log.InfoEvent().
		Str(logger.FieldMessageID, sealed.MessageID()).
		Str("dir", s.config.Dir).
		Int("files", len(written)).
		Dur("elapsed", time.Since(start)).
		Msg("artifacts written")
	return written, nil
}

// ReadEnvelope reads the envelope text file
func (s *Store) ReadEnvelope() (*auth.SignedEnvelope, error) {
	data, err := readSecureFile(filepath.Join(s.config.Dir, EnvelopeText), s.config.FileMode)
	if err != nil {
		return nil, err
	}
	return auth.ParseEnvelopeArtifact(string(data))
}

// Skipped is a share file ReadShares could not use
type Skipped struct {
	Name string
	Err  error
}

func (s Skipped) Error() string {
	return s.Name + ": " + s.Err.Error()
}

func (s Skipped) Unwrap() error {
	return s.Err
}

// ReadShares reads every share text file in the directory, ordered by x.
// Files that cannot be read or parsed are returned in skipped and do not
// stop the others; err is set only when the directory itself is unusable.
func (s *Store) ReadShares() (shares []*auth.SignedShare, skipped []Skipped, err error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	type numbered struct {
		x    int
		name string
	}
	var names []numbered
	for _, e := range entries {
		x, ok := shareNumber(e.Name())
		if !ok || e.IsDir() {
			continue
		}
		names = append(names, numbered{x: x, name: e.Name()})
	}
	sort.Slice(names, func(i, j int) bool { return names[i].x < names[j].x })

	shares = make([]*auth.SignedShare, 0, len(names))
	for _, n := range names {
		share, err := ReadShareFile(filepath.Join(s.config.Dir, n.name), s.config.FileMode)
		if err != nil {
			s.log.WarnEvent().Str("file", n.name).Err(err).Msg("share file skipped")
			skipped = append(skipped, Skipped{Name: n.name, Err: err})
			continue
		}
		shares = append(shares, share)
	}
	return shares, skipped, nil
}

// ReadShareFile reads one share text file. A zero mode skips the
// permission check.
func ReadShareFile(path string, mode os.FileMode) (*auth.SignedShare, error) {
	data, err := readSecureFile(path, mode)
	if err != nil {
		return nil, err
	}
	return auth.ParseShareArtifact(string(data))
}

func shareNumber(name string) (int, bool) {
	if !strings.HasPrefix(name, sharePrefix) || !strings.HasSuffix(name, ".txt") {
		return 0, false
	}
	x, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, sharePrefix), ".txt"))
	if err != nil || x < 1 {
		return 0, false
	}
	return x, true
}

// writeSecureFile writes data to a temporary file and renames it into place
func writeSecureFile(path string, data []byte, mode os.FileMode) error {
	tmpPath := path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename: %w", err)
	}

	return nil
}

// readSecureFile reads a file, refusing it when its permissions differ from
// expectedMode. A zero expectedMode skips the check.
func readSecureFile(path string, expectedMode os.FileMode) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	if expectedMode != 0 && info.Mode().Perm() != expectedMode {
		return nil, fmt.Errorf("%w: file has permissions %o, expected %o",
			ErrPermissionDenied, info.Mode().Perm(), expectedMode)
	}

	return os.ReadFile(path)
}
