// Package signature assembles the signature payload and placement attached to
// a document upload.
//
// The payload is mode-exclusive: a composer holds either a drawn signature
// (saved from the signing canvas) or an uploaded image, never both. Switching
// mode discards the other mode's payload so a stale capture can never leak
// into an upload.
package signature

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"
	"sync"
)

// Mode identifies how the signature payload was captured.
type Mode string

const (
	// ModeDrawn means the payload was saved from the freeform signing canvas.
	ModeDrawn Mode = "drawn"
	// ModeImage means the payload was selected as a raster image file.
	ModeImage Mode = "image"
)

// ParseMode maps wire values to a Mode. The browser form historically sends
// "draw"/"upload"; both spellings are accepted.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "drawn", "draw":
		return ModeDrawn, nil
	case "image", "upload":
		return ModeImage, nil
	default:
		return "", fmt.Errorf("unknown signature mode %q", value)
	}
}

// Composition is the validated result handed to the upload flow.
type Composition struct {
	Mode     Mode
	Payload  []byte
	Position Position
}

// ValidationError reports a user-correctable problem with the composer state.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "signature validation failed: " + e.Reason
}

// Validation reasons.
const (
	ReasonMissingSignature = "missing_signature"
	ReasonEmptySignature   = "empty_signature"
	ReasonNotPNG           = "not_png"
)

// Composer accumulates signature state while the upload form is open.
// It is safe for concurrent use.
type Composer struct {
	mu       sync.Mutex
	mode     Mode
	payload  []byte
	position Position
}

// NewComposer returns a composer in drawn mode with the default placement.
func NewComposer() *Composer {
	return &Composer{mode: ModeDrawn, position: DefaultPosition}
}

// Mode returns the active capture mode.
func (c *Composer) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Saved reports whether the active mode currently has a payload.
func (c *Composer) Saved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payload) > 0
}

// Position returns the currently selected placement coordinate.
func (c *Composer) Position() Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// SetMode switches the capture mode. Entering a different mode clears the
// payload captured under the previous one.
func (c *Composer) SetMode(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != mode {
		c.mode = mode
		c.payload = nil
	}
}

// SetPosition selects the placement coordinate. The last selection is
// remembered until changed; position is independent of mode.
func (c *Composer) SetPosition(p Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

// SelectPreset selects one of the named placement presets.
func (c *Composer) SelectPreset(name string) error {
	p, ok := PresetByName(name)
	if !ok {
		return fmt.Errorf("unknown position preset %q", name)
	}
	c.SetPosition(p)
	return nil
}

// SaveDrawn stores a signature saved from the signing canvas, provided as a
// PNG data URL. An empty or non-PNG capture is rejected so the save button
// cannot silently accept a blank canvas. Saving switches the composer into
// drawn mode.
func (c *Composer) SaveDrawn(dataURL string) error {
	payload, err := decodePNGDataURL(dataURL)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeDrawn
	c.payload = payload
	return nil
}

// SaveImage stores an uploaded raster signature image. Only presence is
// checked here; file type and size limits belong to the backend. Saving
// switches the composer into image mode.
func (c *Composer) SaveImage(data []byte) error {
	if len(data) == 0 {
		return &ValidationError{Reason: ReasonEmptySignature}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeImage
	c.payload = append([]byte(nil), data...)
	return nil
}

// Compose returns the current composition, or a missing-signature validation
// error when the active mode has no payload.
func (c *Composer) Compose() (Composition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.payload) == 0 {
		return Composition{}, &ValidationError{Reason: ReasonMissingSignature}
	}
	return Composition{
		Mode:     c.mode,
		Payload:  c.payload,
		Position: c.position,
	}, nil
}

// decodePNGDataURL extracts PNG bytes from a canvas "data:image/png;base64,"
// URL and verifies they decode as a PNG header.
func decodePNGDataURL(dataURL string) ([]byte, error) {
	trimmed := strings.TrimSpace(dataURL)
	if trimmed == "" {
		return nil, &ValidationError{Reason: ReasonEmptySignature}
	}

	encoded := trimmed
	if idx := strings.Index(trimmed, ","); idx >= 0 && strings.HasPrefix(trimmed, "data:") {
		encoded = trimmed[idx+1:]
	}

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &ValidationError{Reason: ReasonNotPNG}
	}
	if len(payload) == 0 {
		return nil, &ValidationError{Reason: ReasonEmptySignature}
	}
	if _, err := png.DecodeConfig(bytes.NewReader(payload)); err != nil {
		return nil, &ValidationError{Reason: ReasonNotPNG}
	}
	return payload, nil
}
