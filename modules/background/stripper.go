package background

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"log"

	"github.com/disintegration/imaging"
)

const (
	// DefaultThreshold is the luminance (0-255) above which a pixel counts as
	// studio background.
	DefaultThreshold = 235

	// DefaultBlurSigma feathers the mask edge. Higher means a softer, wider
	// transition between figure and transparency.
	DefaultBlurSigma = 4.0
)

// Strip removes the studio background with default tuning.
func Strip(imageBytes []byte) ([]byte, error) {
	return MakeTransparent(imageBytes, DefaultThreshold, DefaultBlurSigma)
}

// MakeTransparent composites the figure over a transparent canvas using a
// blurred luminance mask, so the cutout edge stays smooth instead of jagged.
func MakeTransparent(imageBytes []byte, threshold uint8, blurSigma float64) ([]byte, error) {
	originalImg, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := originalImg.Bounds()
	width, height := bounds.Max.X, bounds.Max.Y

	// Hard mask: white = background to drop, black = figure to keep.
	mask := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := originalImg.At(x, y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)

			// Luminance separates the bright studio backdrop from the figure
			// more reliably than a plain RGB check.
			luminance := 0.299*float64(r8) + 0.587*float64(g8) + 0.114*float64(b8)

			if luminance >= float64(threshold) {
				mask.SetGray(x, y, color.Gray{Y: 255})
			} else {
				mask.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}

	// Feather the mask so the alpha transition has no hard edge.
	blurredMask := imaging.Blur(mask, blurSigma)

	out := image.NewNRGBA(bounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := originalImg.At(x, y).RGBA()
			maskValue := blurredMask.NRGBAAt(x, y).R

			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: 255 - maskValue,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	log.Printf("✅ [Background] Stripped background: %d bytes → %d bytes", len(imageBytes), buf.Len())
	return buf.Bytes(), nil
}
