// Package qrcode renders QR payloads as PNG images or terminal text.
package qrcode

import (
	"errors"
	"fmt"
	"strings"

	goqr "github.com/skip2/go-qrcode"
)

// Image size bounds in pixels.
const (
	DefaultSize = 200
	MinSize     = 64
	MaxSize     = 1024
)

var ErrEmptyPayload = errors.New("qr payload is empty")

// Renderer turns a payload into a square PNG of roughly size×size pixels.
type Renderer interface {
	PNG(payload string, size int) ([]byte, error)
}

// Encoder renders QR codes with go-qrcode.
type Encoder struct {
	Level goqr.RecoveryLevel
}

// NewEncoder returns an encoder using the low recovery level, which keeps
// long deep links at a scannable module density.
func NewEncoder() *Encoder {
	return &Encoder{Level: goqr.Low}
}

// ParseLevel maps a level name (low, medium, high, highest) to a recovery level.
func ParseLevel(name string) (goqr.RecoveryLevel, error) {
	switch strings.ToLower(name) {
	case "", "low", "l":
		return goqr.Low, nil
	case "medium", "m":
		return goqr.Medium, nil
	case "high", "q":
		return goqr.High, nil
	case "highest", "h":
		return goqr.Highest, nil
	}
	return goqr.Low, fmt.Errorf("unknown recovery level %q", name)
}

// ClampSize bounds a requested size; zero or negative means DefaultSize.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	}
	return size
}

// PNG encodes payload as a PNG image.
func (e *Encoder) PNG(payload string, size int) ([]byte, error) {
	q, err := e.build(payload)
	if err != nil {
		return nil, err
	}
	png, err := q.PNG(ClampSize(size))
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return png, nil
}

// Terminal renders payload with half-block characters for display in a terminal.
func (e *Encoder) Terminal(payload string) (string, error) {
	q, err := e.build(payload)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}

func (e *Encoder) build(payload string) (*goqr.QRCode, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	q, err := goqr.New(payload, e.Level)
	if err != nil {
		return nil, fmt.Errorf("build qr code: %w", err)
	}
	return q, nil
}
