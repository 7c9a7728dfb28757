package quality

import (
	"image"
	"math"
)

// EdgeDensity runs Canny edge detection and returns the fraction of pixels
// flagged as edges, a proxy for ridge clarity
func EdgeDensity(gray *image.Gray, low, high float64) float64 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	total := width * height
	if total == 0 {
		return 0
	}

	// Gradient magnitude (L1) and direction
	magnitude := make([]float64, total)
	direction := make([]float64, total)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := gradX(gray, x, y)
			gy := gradY(gray, x, y)
			magnitude[y*width+x] = math.Abs(float64(gx)) + math.Abs(float64(gy))
			direction[y*width+x] = math.Atan2(float64(gy), float64(gx))
		}
	}

	// Non-maximum suppression along the quantized gradient direction
	suppressed := make([]float64, total)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			m := magnitude[y*width+x]
			if m == 0 {
				continue
			}
			dx, dy := quantizeDirection(direction[y*width+x])
			n1 := magnitude[(y+dy)*width+(x+dx)]
			n2 := magnitude[(y-dy)*width+(x-dx)]
			if m >= n1 && m >= n2 {
				suppressed[y*width+x] = m
			}
		}
	}

	// Double threshold with hysteresis: strong edges seed, weak edges join
	// only when 8-connected to a strong edge
	const (
		none   = 0
		weak   = 1
		strong = 2
	)
	state := make([]uint8, total)
	var stack []int
	for i, m := range suppressed {
		switch {
		case m >= high:
			state[i] = strong
			stack = append(stack, i)
		case m >= low:
			state[i] = weak
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				j := ny*width + nx
				if state[j] == weak {
					state[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}

	edges := 0
	for _, s := range state {
		if s == strong {
			edges++
		}
	}
	return float64(edges) / float64(total)
}

// quantizeDirection maps a gradient angle to one of the four neighbor axes
func quantizeDirection(angle float64) (int, int) {
	deg := angle * 180 / math.Pi
	if deg < 0 {
		deg += 180
	}
	switch {
	case deg < 22.5 || deg >= 157.5:
		return 1, 0 // horizontal gradient
	case deg < 67.5:
		return 1, 1
	case deg < 112.5:
		return 0, 1 // vertical gradient
	default:
		return -1, 1
	}
}

// gradX computes the horizontal Sobel gradient with clamped sampling
func gradX(gray *image.Gray, x, y int) int {
	return -1*int(clampAt(gray, x-1, y-1)) + 1*int(clampAt(gray, x+1, y-1)) +
		-2*int(clampAt(gray, x-1, y)) + 2*int(clampAt(gray, x+1, y)) +
		-1*int(clampAt(gray, x-1, y+1)) + 1*int(clampAt(gray, x+1, y+1))
}

// gradY computes the vertical Sobel gradient with clamped sampling
func gradY(gray *image.Gray, x, y int) int {
	return -1*int(clampAt(gray, x-1, y-1)) - 2*int(clampAt(gray, x, y-1)) - 1*int(clampAt(gray, x+1, y-1)) +
		1*int(clampAt(gray, x-1, y+1)) + 2*int(clampAt(gray, x, y+1)) + 1*int(clampAt(gray, x+1, y+1))
}

func clampAt(gray *image.Gray, x, y int) uint8 {
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
