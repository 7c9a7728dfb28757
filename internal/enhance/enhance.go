// Package enhance prepares a raw grayscale fingerprint capture for feature
// extraction: intensity normalization, light Gaussian smoothing, tile-based
// adaptive histogram equalization and a morphological closing to bridge small
// ridge gaps. It also provides the Otsu binarization used before thinning.
package enhance

import (
	"image"

	"go-fingerprint-service/internal/imaging"
)

const (
	claheTileGrid  = 8
	claheClipLimit = 2.0
)

// Enhance runs the full enhancement chain on a grayscale fingerprint image.
// The output has the same dimensions as the input.
func Enhance(gray *image.Gray) (*image.Gray, error) {
	if err := imaging.Validate(gray); err != nil {
		return nil, err
	}

	normalized := Normalize(gray)
	blurred := gaussianBlur3(normalized)
	equalized := clahe(blurred, claheTileGrid, claheClipLimit)
	closed := Close(equalized)

	return closed, nil
}

// Normalize stretches pixel intensities to the full [0,255] range
func Normalize(gray *image.Gray) *image.Gray {
	minVal, maxVal := uint8(255), uint8(0)
	for _, p := range gray.Pix {
		if p < minVal {
			minVal = p
		}
		if p > maxVal {
			maxVal = p
		}
	}

	out := image.NewGray(gray.Bounds())
	if maxVal == minVal {
		copy(out.Pix, gray.Pix)
		return out
	}

	scale := 255.0 / float64(maxVal-minVal)
	for i, p := range gray.Pix {
		out.Pix[i] = uint8(float64(p-minVal)*scale + 0.5)
	}
	return out
}

// gaussianBlur3 applies a 3x3 Gaussian kernel [1 2 1; 2 4 2; 1 2 1]/16.
// Borders are handled by clamped sampling.
func gaussianBlur3(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewGray(bounds)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := 4 * int(at(gray, x, y))
			sum += 2 * int(at(gray, x-1, y))
			sum += 2 * int(at(gray, x+1, y))
			sum += 2 * int(at(gray, x, y-1))
			sum += 2 * int(at(gray, x, y+1))
			sum += int(at(gray, x-1, y-1))
			sum += int(at(gray, x+1, y-1))
			sum += int(at(gray, x-1, y+1))
			sum += int(at(gray, x+1, y+1))
			out.Pix[y*out.Stride+x] = uint8((sum + 8) / 16)
		}
	}
	return out
}

// clahe performs contrast-limited adaptive histogram equalization over a
// grid x grid tiling. Each tile gets a clipped-histogram CDF mapping and
// pixels are remapped by bilinear interpolation between the four surrounding
// tile mappings, clamped at the image border.
func clahe(gray *image.Gray, grid int, clipLimit float64) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	tileW := (width + grid - 1) / grid
	tileH := (height + grid - 1) / grid
	if tileW == 0 {
		tileW = 1
	}
	if tileH == 0 {
		tileH = 1
	}

	// Per-tile lookup tables
	luts := make([][256]uint8, grid*grid)
	for ty := 0; ty < grid; ty++ {
		for tx := 0; tx < grid; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := x0+tileW, y0+tileH
			if x0 >= width {
				x0 = width - 1
			}
			if y0 >= height {
				y0 = height - 1
			}
			if x1 > width {
				x1 = width
			}
			if y1 > height {
				y1 = height
			}
			luts[ty*grid+tx] = tileLUT(gray, x0, y0, x1, y1, clipLimit)
		}
	}

	out := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		// Position relative to tile centers
		fy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := int(fy)
		if fy < 0 {
			ty0 = 0
			fy = 0
		}
		ty1 := ty0 + 1
		if ty1 >= grid {
			ty1 = grid - 1
		}
		if ty0 >= grid {
			ty0 = grid - 1
		}
		wy := fy - float64(ty0)
		if wy < 0 {
			wy = 0
		} else if wy > 1 {
			wy = 1
		}

		for x := 0; x < width; x++ {
			fx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := int(fx)
			if fx < 0 {
				tx0 = 0
				fx = 0
			}
			tx1 := tx0 + 1
			if tx1 >= grid {
				tx1 = grid - 1
			}
			if tx0 >= grid {
				tx0 = grid - 1
			}
			wx := fx - float64(tx0)
			if wx < 0 {
				wx = 0
			} else if wx > 1 {
				wx = 1
			}

			p := gray.Pix[y*gray.Stride+x]
			tl := float64(luts[ty0*grid+tx0][p])
			tr := float64(luts[ty0*grid+tx1][p])
			bl := float64(luts[ty1*grid+tx0][p])
			br := float64(luts[ty1*grid+tx1][p])

			top := tl + (tr-tl)*wx
			bottom := bl + (br-bl)*wx
			out.Pix[y*out.Stride+x] = uint8(top + (bottom-top)*wy + 0.5)
		}
	}
	return out
}

// tileLUT builds the clipped-histogram equalization mapping for one tile
func tileLUT(gray *image.Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	area := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[gray.Pix[y*gray.Stride+x]]++
			area++
		}
	}

	var lut [256]uint8
	if area == 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	// Clip the histogram and redistribute the excess uniformly
	limit := int(clipLimit * float64(area) / 256.0)
	if limit < 1 {
		limit = 1
	}
	excess := 0
	for i := range hist {
		if hist[i] > limit {
			excess += hist[i] - limit
			hist[i] = limit
		}
	}
	share := excess / 256
	remainder := excess % 256
	for i := range hist {
		hist[i] += share
		if i < remainder {
			hist[i]++
		}
	}

	// Build the CDF mapping scaled to [0,255]
	scale := 255.0 / float64(area)
	cum := 0
	for i := range hist {
		cum += hist[i]
		lut[i] = uint8(float64(cum)*scale + 0.5)
	}
	return lut
}

// Close performs a grayscale morphological closing (dilate then erode) with
// the 3x3 elliptical structuring element, bridging small ridge gaps.
func Close(gray *image.Gray) *image.Gray {
	return ErodeCross(DilateCross(gray))
}

// DilateCross replaces each pixel with the maximum over the cross-shaped
// 3x3 neighborhood
func DilateCross(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m := at(gray, x, y)
			if v := at(gray, x-1, y); v > m {
				m = v
			}
			if v := at(gray, x+1, y); v > m {
				m = v
			}
			if v := at(gray, x, y-1); v > m {
				m = v
			}
			if v := at(gray, x, y+1); v > m {
				m = v
			}
			out.Pix[y*out.Stride+x] = m
		}
	}
	return out
}

// ErodeCross replaces each pixel with the minimum over the cross-shaped
// 3x3 neighborhood
func ErodeCross(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m := at(gray, x, y)
			if v := at(gray, x-1, y); v < m {
				m = v
			}
			if v := at(gray, x+1, y); v < m {
				m = v
			}
			if v := at(gray, x, y-1); v < m {
				m = v
			}
			if v := at(gray, x, y+1); v < m {
				m = v
			}
			out.Pix[y*out.Stride+x] = m
		}
	}
	return out
}

// OtsuThreshold selects the global threshold maximizing inter-class variance
// between the ridge and valley pixel populations
func OtsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	total := len(gray.Pix)
	for _, p := range gray.Pix {
		hist[p]++
	}
	if total == 0 {
		return 0
	}

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	best, bestVar := 0, -1.0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return uint8(best)
}

// BinarizeOtsu thresholds the image at the Otsu level, producing a 0/255
// binary buffer with ridges as foreground
func BinarizeOtsu(gray *image.Gray) *image.Gray {
	thresh := OtsuThreshold(gray)
	out := image.NewGray(gray.Bounds())
	for i, p := range gray.Pix {
		if p > thresh {
			out.Pix[i] = 255
		}
	}
	return out
}

// at samples a pixel with clamped coordinates
func at(gray *image.Gray, x, y int) uint8 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if x < 0 {
		x = 0
	} else if x >= width {
		x = width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= height {
		y = height - 1
	}
	return gray.Pix[y*gray.Stride+x]
}
