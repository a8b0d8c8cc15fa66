package background

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage is a dark square figure centered on a white studio backdrop.
func testImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := color.NRGBA{R: 250, G: 250, B: 250, A: 255}
			if x >= 20 && x < 44 && y >= 20 && y < 44 {
				c = color.NRGBA{R: 40, G: 30, B: 30, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStripMakesBackgroundTransparent(t *testing.T) {
	out, err := Strip(testImage(t))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	nrgba, ok := decoded.(*image.NRGBA)
	require.True(t, ok)

	// Backdrop corner is (near) fully transparent, figure center stays opaque.
	corner := nrgba.NRGBAAt(2, 2)
	center := nrgba.NRGBAAt(32, 32)
	assert.Less(t, corner.A, uint8(30))
	assert.Greater(t, center.A, uint8(220))

	// Figure color survives the composite.
	assert.InDelta(t, 40, int(center.R), 6)
}

func TestMakeTransparentThresholdControlsCut(t *testing.T) {
	// With a threshold above the backdrop brightness nothing is cut.
	out, err := MakeTransparent(testImage(t), 255, DefaultBlurSigma)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	nrgba := decoded.(*image.NRGBA)
	assert.Equal(t, uint8(255), nrgba.NRGBAAt(2, 2).A)
}

func TestStripRejectsGarbage(t *testing.T) {
	_, err := Strip([]byte("not an image"))
	assert.Error(t, err)
}
