package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"

	apperrors "go-fingerprint-service/internal/errors"
)

func testRGBA(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 50, A: 255})
		}
	}
	return img
}

func TestDecodeGrayFormats(t *testing.T) {
	src := testRGBA(16, 12)

	encoders := []struct {
		name   string
		encode func(*bytes.Buffer) error
	}{
		{"PNG", func(buf *bytes.Buffer) error { return png.Encode(buf, src) }},
		{"JPEG", func(buf *bytes.Buffer) error { return jpeg.Encode(buf, src, nil) }},
		{"BMP", func(buf *bytes.Buffer) error { return bmp.Encode(buf, src) }},
	}

	for _, enc := range encoders {
		t.Run(enc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := enc.encode(&buf); err != nil {
				t.Fatalf("Failed to encode test image: %v", err)
			}

			gray, err := DecodeGray(buf.Bytes())
			if err != nil {
				t.Fatalf("DecodeGray failed: %v", err)
			}
			if gray.Bounds().Dx() != 16 || gray.Bounds().Dy() != 12 {
				t.Errorf("Expected 16x12, got %dx%d", gray.Bounds().Dx(), gray.Bounds().Dy())
			}
			if gray.Bounds().Min != (image.Point{}) {
				t.Errorf("Expected origin-anchored bounds, got %v", gray.Bounds().Min)
			}
		})
	}
}

func TestDecodeGrayInvalidInput(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"Garbage", []byte("not an image at all")},
		{"Truncated PNG header", []byte{0x89, 0x50, 0x4e, 0x47}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeGray(tc.data)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeInvalidImage) {
				t.Errorf("Expected invalid_image error, got %v", err)
			}
		})
	}
}

func TestToGrayRebasesOffsetImage(t *testing.T) {
	// Sub-images carry non-zero Min bounds; the pipeline needs origin-based
	// buffers
	src := image.NewGray(image.Rect(5, 7, 25, 27))
	for y := 7; y < 27; y++ {
		for x := 5; x < 25; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(x + y)})
		}
	}

	gray := ToGray(src)
	if gray.Bounds().Min != (image.Point{}) {
		t.Fatalf("Expected origin-anchored bounds, got %v", gray.Bounds().Min)
	}
	if gray.Bounds().Dx() != 20 || gray.Bounds().Dy() != 20 {
		t.Fatalf("Expected 20x20, got %dx%d", gray.Bounds().Dx(), gray.Bounds().Dy())
	}
	if gray.Pix[0] != uint8(5+7) {
		t.Errorf("Expected top-left pixel %d, got %d", 5+7, gray.Pix[0])
	}
}

func TestToGrayPassesThroughOriginGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	if got := ToGray(src); got != src {
		t.Error("Expected origin-anchored gray image to pass through unchanged")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("Expected error for nil image")
	}
	if err := Validate(image.NewGray(image.Rectangle{})); err == nil {
		t.Error("Expected error for zero-size image")
	}
	if err := Validate(image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Errorf("Expected 2x2 image to validate, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	src.Pix[4] = 200

	dup := Clone(src)
	dup.Pix[4] = 10
	if src.Pix[4] != 200 {
		t.Error("Expected clone mutation not to touch the source")
	}
}

func TestCountNonZero(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Pix[0] = 255
	img.Pix[5] = 1
	img.Pix[15] = 128

	if got := CountNonZero(img); got != 3 {
		t.Errorf("Expected 3, got %d", got)
	}
}
