package enhance

import (
	"image"
	"testing"
)

func grayFromRows(rows [][]uint8) *image.Gray {
	height := len(rows)
	width := len(rows[0])
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y, row := range rows {
		for x, v := range row {
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}

func uniformGray(width, height int, value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

func TestNormalizeStretchesRange(t *testing.T) {
	img := grayFromRows([][]uint8{
		{100, 150},
		{125, 200},
	})

	out := Normalize(img)

	if out.Pix[0] != 0 {
		t.Errorf("Expected minimum to map to 0, got %d", out.Pix[0])
	}
	if out.Pix[out.Stride+1] != 255 {
		t.Errorf("Expected maximum to map to 255, got %d", out.Pix[out.Stride+1])
	}
	// 125 maps to (125-100)*255/100 = 63.75, rounds to 64
	if got := out.Pix[out.Stride]; got != 64 {
		t.Errorf("Expected midpoint 64, got %d", got)
	}
}

func TestNormalizeFlatImageUnchanged(t *testing.T) {
	img := uniformGray(4, 4, 77)

	out := Normalize(img)
	for i, p := range out.Pix {
		if p != 77 {
			t.Fatalf("Expected flat image to pass through, pixel %d became %d", i, p)
		}
	}
}

func TestEnhancePreservesDimensions(t *testing.T) {
	img := uniformGray(40, 30, 128)
	// Vertical stripes so enhancement has structure to work with
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			if x%4 < 2 {
				img.Pix[y*img.Stride+x] = 200
			} else {
				img.Pix[y*img.Stride+x] = 60
			}
		}
	}

	out, err := Enhance(img)
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 30 {
		t.Errorf("Expected 40x30 output, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestEnhanceRejectsNilImage(t *testing.T) {
	if _, err := Enhance(nil); err == nil {
		t.Error("Expected error for nil image")
	}
}

func TestDilateAndErodeCross(t *testing.T) {
	img := grayFromRows([][]uint8{
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 255, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
	})

	dilated := DilateCross(img)
	wantOn := []image.Point{{2, 2}, {1, 2}, {3, 2}, {2, 1}, {2, 3}}
	onCount := 0
	for _, p := range dilated.Pix {
		if p == 255 {
			onCount++
		}
	}
	if onCount != len(wantOn) {
		t.Errorf("Expected %d dilated pixels, got %d", len(wantOn), onCount)
	}
	for _, p := range wantOn {
		if dilated.Pix[p.Y*dilated.Stride+p.X] != 255 {
			t.Errorf("Expected pixel (%d,%d) set after dilation", p.X, p.Y)
		}
	}

	// Eroding the dilation of a single pixel collapses it back
	eroded := ErodeCross(dilated)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := uint8(0)
			if x == 2 && y == 2 {
				want = 255
			}
			if got := eroded.Pix[y*eroded.Stride+x]; got != want {
				t.Errorf("Pixel (%d,%d): expected %d, got %d", x, y, want, got)
			}
		}
	}
}

func TestCloseBridgesSingleGap(t *testing.T) {
	// Three-pixel-tall ridge with a one-pixel-wide break
	img := grayFromRows([][]uint8{
		{0, 0, 0, 0, 0, 0, 0},
		{255, 255, 255, 0, 255, 255, 255},
		{255, 255, 255, 0, 255, 255, 255},
		{255, 255, 255, 0, 255, 255, 255},
		{0, 0, 0, 0, 0, 0, 0},
	})

	closed := Close(img)
	if closed.Pix[2*closed.Stride+3] != 255 {
		t.Error("Expected closing to bridge the one-pixel gap")
	}
	// Original ridge pixels survive the closing
	if closed.Pix[2*closed.Stride+1] != 255 || closed.Pix[2*closed.Stride+5] != 255 {
		t.Error("Expected ridge interior to survive the closing")
	}
}

func TestOtsuThresholdSeparatesBimodal(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		if i%2 == 0 {
			img.Pix[i] = 40
		} else {
			img.Pix[i] = 210
		}
	}

	thresh := OtsuThreshold(img)
	if thresh < 40 || thresh >= 210 {
		t.Errorf("Expected threshold between the modes, got %d", thresh)
	}

	binary := BinarizeOtsu(img)
	for i, p := range img.Pix {
		want := uint8(0)
		if p == 210 {
			want = 255
		}
		if binary.Pix[i] != want {
			t.Fatalf("Pixel %d: expected %d, got %d", i, want, binary.Pix[i])
		}
	}
}

func TestBinarizeOtsuOutputIsBinary(t *testing.T) {
	img := uniformGray(8, 8, 100)
	for i := 0; i < 20; i++ {
		img.Pix[i] = uint8(i * 12)
	}

	binary := BinarizeOtsu(img)
	for i, p := range binary.Pix {
		if p != 0 && p != 255 {
			t.Fatalf("Pixel %d has non-binary value %d", i, p)
		}
	}
}
