package signature

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngDataURL builds a tiny valid canvas-style PNG data URL for tests.
func pngDataURL(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.Black)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		value   string
		want    Mode
		wantErr bool
	}{
		{"drawn", ModeDrawn, false},
		{"draw", ModeDrawn, false},
		{"image", ModeImage, false},
		{"upload", ModeImage, false},
		{" Draw ", ModeDrawn, false},
		{"typed", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.value)
		if tt.wantErr {
			assert.Error(t, err, tt.value)
			continue
		}
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got)
	}
}

func TestComposeWithoutPayload(t *testing.T) {
	c := NewComposer()

	_, err := c.Compose()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonMissingSignature, verr.Reason)
}

func TestSaveDrawnThenCompose(t *testing.T) {
	c := NewComposer()
	require.NoError(t, c.SaveDrawn(pngDataURL(t)))

	comp, err := c.Compose()
	require.NoError(t, err)

	assert.Equal(t, ModeDrawn, comp.Mode)
	assert.NotEmpty(t, comp.Payload)
	assert.Equal(t, DefaultPosition, comp.Position)
}

func TestSaveDrawnRejectsEmptyCanvas(t *testing.T) {
	c := NewComposer()

	var verr *ValidationError
	err := c.SaveDrawn("")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonEmptySignature, verr.Reason)

	assert.False(t, c.Saved())
}

func TestSaveDrawnRejectsNonPNG(t *testing.T) {
	c := NewComposer()

	err := c.SaveDrawn("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not a png")))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonNotPNG, verr.Reason)
}

func TestSaveImagePresenceOnly(t *testing.T) {
	c := NewComposer()

	// Image uploads are presence-checked only; the backend owns type limits.
	require.NoError(t, c.SaveImage([]byte("raster bytes")))
	assert.Equal(t, ModeImage, c.Mode())
	assert.True(t, c.Saved())

	var verr *ValidationError
	err := c.SaveImage(nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonEmptySignature, verr.Reason)
}

func TestModeSwitchClearsOtherPayload(t *testing.T) {
	c := NewComposer()
	require.NoError(t, c.SaveDrawn(pngDataURL(t)))

	c.SetMode(ModeImage)
	assert.False(t, c.Saved())

	// Switching back does not resurrect the earlier drawn payload.
	c.SetMode(ModeDrawn)
	assert.False(t, c.Saved())

	_, err := c.Compose()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonMissingSignature, verr.Reason)
}

func TestSetModeSameModeKeepsPayload(t *testing.T) {
	c := NewComposer()
	require.NoError(t, c.SaveDrawn(pngDataURL(t)))

	c.SetMode(ModeDrawn)
	assert.True(t, c.Saved())
}

func TestPositionPresets(t *testing.T) {
	c := NewComposer()
	assert.Equal(t, Position{X: 30, Y: 750}, c.Position())

	require.NoError(t, c.SelectPreset("bottom-right"))
	assert.Equal(t, Position{X: 300, Y: 100}, c.Position())

	// Position survives a mode switch.
	c.SetMode(ModeImage)
	assert.Equal(t, Position{X: 300, Y: 100}, c.Position())

	assert.Error(t, c.SelectPreset("middle-of-nowhere"))
	assert.Equal(t, Position{X: 300, Y: 100}, c.Position())
}

func TestPresetByName(t *testing.T) {
	pos, ok := PresetByName("top-center")
	assert.True(t, ok)
	assert.Equal(t, Position{X: 150, Y: 750}, pos)

	_, ok = PresetByName("nope")
	assert.False(t, ok)

	assert.Len(t, Presets(), 6)
}
