// Package skeleton reduces a binarized ridge pattern to single-pixel-wide
// centerlines using iterative morphological thinning.
package skeleton

import (
	"image"

	"go-fingerprint-service/internal/enhance"
	"go-fingerprint-service/internal/imaging"
)

// Thin skeletonizes a 0/255 binary image. Each iteration erodes the working
// image with the cross element, dilates the eroded copy back, and ORs the
// difference into the accumulated skeleton; the eroded image feeds the next
// iteration. The loop stops when no foreground remains, or after
// max(width, height) iterations so pathological input always terminates.
func Thin(binary *image.Gray) *image.Gray {
	bounds := binary.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	result := image.NewGray(bounds)
	working := imaging.Clone(binary)

	maxIterations := width
	if height > maxIterations {
		maxIterations = height
	}

	for iter := 0; iter < maxIterations; iter++ {
		eroded := enhance.ErodeCross(working)
		opened := enhance.DilateCross(eroded)

		// Pixels removed by the opening are this iteration's skeleton
		// contribution
		for i := range result.Pix {
			if working.Pix[i] != 0 && opened.Pix[i] == 0 {
				result.Pix[i] = 255
			}
		}

		working = eroded
		if imaging.CountNonZero(working) == 0 {
			break
		}
	}
	return result
}
