// Package quality measures how usable a generated fingerprint template is.
// The score is a weighted sum of minutiae abundance, global contrast,
// sharpness and ridge edge density, clamped to [0,1]. The scorer only
// measures; rejection against a threshold is the processor's decision.
package quality

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Weights of the four quality factors
const (
	weightMinutiae  = 0.30
	weightContrast  = 0.25
	weightSharpness = 0.25
	weightEdges     = 0.20

	// Normalization anchors
	minutiaeNorm  = 30.0
	sharpnessNorm = 1000.0

	// Canny hysteresis thresholds for ridge edge density
	cannyLow  = 50.0
	cannyHigh = 150.0
)

// Score computes the [0,1] quality of an enhanced fingerprint image with the
// given number of extracted minutiae
func Score(enhanced *image.Gray, minutiaeCount int) float64 {
	if enhanced == nil || len(enhanced.Pix) == 0 {
		return 0
	}

	minutiaeScore := math.Min(float64(minutiaeCount)/minutiaeNorm, 1.0)
	contrast := stddev(enhanced) / 255.0
	sharpness := math.Min(LaplacianVariance(enhanced)/sharpnessNorm, 1.0)
	edgeDensity := EdgeDensity(enhanced, cannyLow, cannyHigh)

	score := weightMinutiae*minutiaeScore +
		weightContrast*contrast +
		weightSharpness*sharpness +
		weightEdges*edgeDensity

	return math.Min(math.Max(score, 0.0), 1.0)
}

// stddev returns the standard deviation of pixel intensities
func stddev(gray *image.Gray) float64 {
	data := make([]float64, len(gray.Pix))
	for i, p := range gray.Pix {
		data[i] = float64(p)
	}
	return math.Sqrt(stat.Variance(data, nil))
}

// LaplacianVariance measures edge energy with the 4-connected Laplacian
// kernel [0 1 0; 1 -4 1; 0 1 0]. Higher values mean a sharper image.
func LaplacianVariance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 3 || height < 3 {
		return 0
	}

	data := make([]float64, 0, (width-2)*(height-2))
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			center := float64(gray.Pix[y*gray.Stride+x])
			top := float64(gray.Pix[(y-1)*gray.Stride+x])
			bottom := float64(gray.Pix[(y+1)*gray.Stride+x])
			left := float64(gray.Pix[y*gray.Stride+x-1])
			right := float64(gray.Pix[y*gray.Stride+x+1])
			data = append(data, -4*center+top+bottom+left+right)
		}
	}
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}
