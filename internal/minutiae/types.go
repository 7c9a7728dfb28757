package minutiae

// Type labels the kind of ridge feature a minutia represents
type Type string

const (
	TypeRidgeEnding Type = "ridge_ending"
	TypeBifurcation Type = "bifurcation"
)

// Minutia is a discrete ridge feature at a pixel location with a local
// orientation angle in radians. Immutable once extracted.
//
// Extraction currently labels every point as a bifurcation; reliable
// ridge-ending vs. bifurcation discrimination is a known limitation of the
// contour-based extractor, so the field is carried but not classified.
type Minutia struct {
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Orientation float64 `json:"orientation"`
	Type        Type    `json:"type"`
}
