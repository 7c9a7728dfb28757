// Package imaging decodes captured fingerprint images into the grayscale
// buffers the processing pipeline works on. PNG and JPEG come from the
// standard library; BMP and TIFF scanner output is handled by golang.org/x/image.
package imaging

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	apperrors "go-fingerprint-service/internal/errors"
)

// DecodeGray decodes raw image bytes into a single-channel grayscale buffer
func DecodeGray(data []byte) (*image.Gray, error) {
	if len(data) == 0 {
		return nil, apperrors.NewInvalidImageError("empty image data", nil)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewInvalidImageError("failed to decode fingerprint image", err)
	}

	return ToGray(img), nil
}

// ToGray converts any decoded image to an 8-bit grayscale buffer anchored
// at the origin, the layout every pipeline stage assumes
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// Validate rejects nil or zero-size grayscale buffers
func Validate(gray *image.Gray) error {
	if gray == nil || gray.Bounds().Dx() == 0 || gray.Bounds().Dy() == 0 {
		return apperrors.NewInvalidImageError("empty pixel buffer", nil)
	}
	return nil
}

// Clone returns an independent copy of a grayscale buffer
func Clone(gray *image.Gray) *image.Gray {
	out := image.NewGray(gray.Bounds())
	copy(out.Pix, gray.Pix)
	return out
}

// CountNonZero reports how many pixels are foreground (non-zero)
func CountNonZero(gray *image.Gray) int {
	count := 0
	for _, p := range gray.Pix {
		if p != 0 {
			count++
		}
	}
	return count
}
