// Package template defines the versioned fingerprint template record and its
// opaque string encoding: compact JSON wrapped in standard base64. Encoding
// is byte-stable within a version, and decoding tolerates unknown fields so
// newer producers stay readable.
package template

import (
	"go-fingerprint-service/internal/minutiae"
)

// Version is the template format version written by this service
const Version = "1.0"

// supportedVersions lists the formats this service can decode
var supportedVersions = map[string]bool{
	"1.0": true,
}

// Template is the versioned, encoded record of a fingerprint's minutiae plus
// quality metadata. It is a value object: created once, decoded into fresh
// copies, never mutated.
type Template struct {
	Version       string             `json:"version"`
	Quality       float64            `json:"quality"`
	ImageShape    [2]int             `json:"image_shape"` // height, width
	Minutiae      []minutiae.Minutia `json:"minutiae"`
	MinutiaeCount int                `json:"minutiae_count"`
}

// IsSupported reports whether this service can decode templates of the
// given format version
func IsSupported(version string) bool {
	return supportedVersions[version]
}

// New builds a template from an extraction result, stamping the current
// format version. Nil points become an empty set so the encoded record
// always carries a minutiae array.
func New(points []minutiae.Minutia, qualityScore float64, height, width int) *Template {
	if points == nil {
		points = []minutiae.Minutia{}
	}
	return &Template{
		Version:       Version,
		Quality:       qualityScore,
		ImageShape:    [2]int{height, width},
		Minutiae:      points,
		MinutiaeCount: len(points),
	}
}

// Height returns the source image height in pixels
func (t *Template) Height() int { return t.ImageShape[0] }

// Width returns the source image width in pixels
func (t *Template) Width() int { return t.ImageShape[1] }
