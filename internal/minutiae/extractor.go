// Package minutiae locates discrete ridge features on a skeletonized
// fingerprint image. Candidate points are the vertices of reduced-polygon
// approximations of the skeleton's external contours; each candidate gets a
// local orientation estimated from Sobel gradients.
package minutiae

import (
	"image"
	"math"
)

const (
	// Contours with this many boundary points or fewer are treated as noise
	minContourPoints = 10
	// Polygon approximation tolerance as a fraction of contour perimeter
	approxEpsilonRatio = 0.02
	// Side length of the window used for orientation estimation
	orientationWindow = 5
)

// Extract locates up to maxPoints minutiae on a skeleton image, in contour
// discovery order. It fails softly: internal misbehavior yields an empty
// slice, never an error; the caller decides what an empty result means.
func Extract(skel *image.Gray, maxPoints int) []Minutia {
	if skel == nil || len(skel.Pix) == 0 || maxPoints <= 0 {
		return nil
	}

	var points []Minutia
	for _, contour := range findExternalContours(skel) {
		if len(contour) <= minContourPoints {
			continue
		}
		epsilon := approxEpsilonRatio * arcLength(contour)
		for _, vertex := range approxPolyClosed(contour, epsilon) {
			points = append(points, Minutia{
				X:           vertex.X,
				Y:           vertex.Y,
				Orientation: OrientationAt(skel, vertex.X, vertex.Y),
				Type:        TypeBifurcation,
			})
		}
	}

	if len(points) > maxPoints {
		points = points[:maxPoints]
	}
	return points
}

// OrientationAt estimates the local ridge orientation at (x, y) as
// atan2(mean vertical gradient, mean horizontal gradient) over a 5x5 window.
// The result lies in (-pi, pi].
func OrientationAt(gray *image.Gray, x, y int) float64 {
	half := orientationWindow / 2
	var sumGx, sumGy float64
	count := 0

	for wy := y - half; wy <= y+half; wy++ {
		for wx := x - half; wx <= x+half; wx++ {
			sumGx += float64(sobelX(gray, wx, wy))
			sumGy += float64(sobelY(gray, wx, wy))
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Atan2(sumGy/float64(count), sumGx/float64(count))
}

// sobelX computes the horizontal Sobel gradient at a pixel
func sobelX(gray *image.Gray, x, y int) int {
	return -1*int(sample(gray, x-1, y-1)) + 1*int(sample(gray, x+1, y-1)) +
		-2*int(sample(gray, x-1, y)) + 2*int(sample(gray, x+1, y)) +
		-1*int(sample(gray, x-1, y+1)) + 1*int(sample(gray, x+1, y+1))
}

// sobelY computes the vertical Sobel gradient at a pixel
func sobelY(gray *image.Gray, x, y int) int {
	return -1*int(sample(gray, x-1, y-1)) - 2*int(sample(gray, x, y-1)) - 1*int(sample(gray, x+1, y-1)) +
		1*int(sample(gray, x-1, y+1)) + 2*int(sample(gray, x, y+1)) + 1*int(sample(gray, x+1, y+1))
}

// sample reads a pixel with clamped coordinates
func sample(gray *image.Gray, x, y int) uint8 {
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
