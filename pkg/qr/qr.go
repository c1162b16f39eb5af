// Package qr renders artifact text as QR code PNG images
package qr

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultSize is the default image width and height in pixels
	DefaultSize = 512

	// MaxContentLength is the capacity of a version 40 code at the lowest
	// recovery level in byte mode
	MaxContentLength = 2953
)

var (
	// ErrEmptyContent is returned when there is nothing to encode
	ErrEmptyContent = errors.New("qr content cannot be empty")

	// ErrContentTooLong is returned when content exceeds what a single code
	// can carry at the configured recovery level
	ErrContentTooLong = errors.New("qr content too long")

	// ErrUnknownLevel is returned for an unrecognized recovery level name
	ErrUnknownLevel = errors.New("unknown recovery level")
)

// Renderer turns text into an image
type Renderer interface {
	Render(text string) ([]byte, error)
}

// Encoder renders PNG QR codes
type Encoder struct {
	// Level is the error recovery level
	Level qrcode.RecoveryLevel

	// Size is the image size in pixels; negative values set the pixel size
	// of one module instead
	Size int
}

// NewEncoder returns an encoder with the default size at the given level
func NewEncoder(level qrcode.RecoveryLevel) *Encoder {
	return &Encoder{Level: level, Size: DefaultSize}
}

// ParseLevel maps low, medium, high and highest to recovery levels
func ParseLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(name) {
	case "low", "l":
		return qrcode.Low, nil
	case "", "medium", "m":
		return qrcode.Medium, nil
	case "high", "q":
		return qrcode.High, nil
	case "highest", "h":
		return qrcode.Highest, nil
	default:
		return qrcode.Medium, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// Render implements Renderer
func (e *Encoder) Render(text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyContent
	}
	if len(text) > MaxContentLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrContentTooLong, len(text))
	}

	size := e.Size
	if size == 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(text, e.Level, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentTooLong, err)
	}
	return png, nil
}
