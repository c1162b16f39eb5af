// Package logger is a small zerolog wrapper with the field names shared by
// the seal, open and ingest paths
package logger

import (
	"encoding/hex"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field keys used across packages
const (
	FieldComponent = "component"
	FieldMessageID = "message_id"
	FieldX         = "x"
	FieldSenderKey = "sender_key"
)

// Logger wraps zerolog.Logger.
// IMPORTANT: never pass secrets, polynomial coefficients, share y-values,
// AEAD keys or private keys to any of its methods.
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	// Level is the minimum level: debug, info, warn, error or off
	Level string

	// Output defaults to os.Stderr so stdout stays free for command output
	Output io.Writer

	// Pretty switches to zerolog's console writer
	Pretty bool

	// Caller adds file:line to every entry
	Caller bool
}

// DefaultConfig logs JSON at info level to stderr
func DefaultConfig() *Config {
	return &Config{Level: "info", Output: os.Stderr}
}

// New creates a logger from cfg; nil means DefaultConfig
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return &Logger{zlog: ctx.Logger()}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// ParseLevel maps a level name to zerolog.Level. Unknown names are info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Component tags every entry of the child logger with name
func (l *Logger) Component(name string) *Logger {
	return l.With().Str(FieldComponent, name).Logger()
}

// ForMessage tags every entry of the child logger with a message id
func (l *Logger) ForMessage(id string) *Logger {
	return l.With().Str(FieldMessageID, id).Logger()
}

// With starts a child logger
func (l *Logger) With() *Context {
	return &Context{zctx: l.zlog.With()}
}

// Debug writes msg at debug level with no fields
func (l *Logger) Debug(msg string) {
	l.zlog.Debug().Msg(msg)
}

// Warn writes msg at warn level with no fields
func (l *Logger) Warn(msg string) {
	l.zlog.Warn().Msg(msg)
}

func (l *Logger) DebugEvent() *Event { return &Event{zevent: l.zlog.Debug()} }
func (l *Logger) InfoEvent() *Event  { return &Event{zevent: l.zlog.Info()} }
func (l *Logger) WarnEvent() *Event  { return &Event{zevent: l.zlog.Warn()} }
func (l *Logger) ErrorEvent() *Event { return &Event{zevent: l.zlog.Error()} }

// Context accumulates fields for a child logger
type Context struct {
	zctx zerolog.Context
}

func (c *Context) Str(key, val string) *Context {
	c.zctx = c.zctx.Str(key, val)
	return c
}

func (c *Context) Int(key string, val int) *Context {
	c.zctx = c.zctx.Int(key, val)
	return c
}

// Logger finishes the child logger
func (c *Context) Logger() *Logger {
	return &Logger{zlog: c.zctx.Logger()}
}

// Event is a single pending entry. Methods on a disabled event are no-ops.
type Event struct {
	zevent *zerolog.Event
}

func (e *Event) Str(key, val string) *Event {
	e.zevent.Str(key, val)
	return e
}

func (e *Event) Int(key string, val int) *Event {
	e.zevent.Int(key, val)
	return e
}

func (e *Event) Ints(key string, val []int) *Event {
	e.zevent.Ints(key, val)
	return e
}

func (e *Event) Int64(key string, val int64) *Event {
	e.zevent.Int64(key, val)
	return e
}

func (e *Event) Bool(key string, val bool) *Event {
	e.zevent.Bool(key, val)
	return e
}

func (e *Event) Dur(key string, val time.Duration) *Event {
	e.zevent.Dur(key, val)
	return e
}

// Err adds err under the "error" key; nil is skipped
func (e *Event) Err(err error) *Event {
	e.zevent.AnErr("error", err)
	return e
}

// X adds a share position
func (e *Event) X(x int) *Event {
	e.zevent.Int(FieldX, x)
	return e
}

// SenderKey adds a shortened fingerprint of a sender public key
func (e *Event) SenderKey(pub []byte) *Event {
	e.zevent.Str(FieldSenderKey, RedactSecret(hex.EncodeToString(pub)))
	return e
}

// Msg writes the event
func (e *Event) Msg(msg string) {
	e.zevent.Msg(msg)
}

// RedactSecret keeps at most a 4 character prefix of s
func RedactSecret(s string) string {
	switch {
	case s == "":
		return "<empty>"
	case len(s) <= 8:
		return "<redacted>"
	default:
		return s[:4] + "...<redacted>"
	}
}
