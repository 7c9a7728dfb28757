package matching

import (
	"math"

	"go-fingerprint-service/internal/minutiae"
)

// Correspondence pairs one minutia from each of two sets with the positional
// and angular dissimilarity of the pairing. Correspondences are ephemeral:
// computed fresh per comparison and discarded once confidence is derived.
type Correspondence struct {
	SourceIndex     int
	TargetIndex     int
	Distance        float64
	OrientationDiff float64
}

// CorrespondenceFinder produces a one-to-one pairing between two minutiae
// sets. It is an interface so the greedy search can later be replaced by an
// optimal-assignment algorithm without touching confidence scoring.
type CorrespondenceFinder interface {
	Find(source, target []minutiae.Minutia) []Correspondence
}

// Relative weight of one radian of orientation difference against one pixel
// of distance when ranking candidate pairings
const orientationWeight = 20.0

// GreedyFinder claims target points first-come in source enumeration order.
// The search is deliberately order-dependent: it trades global optimality
// for the determinism that reproducible comparisons rely on.
type GreedyFinder struct {
	MaxDistance          float64
	OrientationTolerance float64
}

// Find pairs each source minutia with the best unclaimed target minutia
// within the distance and orientation gates
func (f GreedyFinder) Find(source, target []minutiae.Minutia) []Correspondence {
	var matches []Correspondence
	claimed := make([]bool, len(target))

	for i, s := range source {
		best := -1
		bestScore := math.Inf(1)
		var bestDist, bestDiff float64

		for j, t := range target {
			if claimed[j] {
				continue
			}

			distance := math.Hypot(float64(s.X-t.X), float64(s.Y-t.Y))
			if distance > f.MaxDistance {
				continue
			}

			diff := math.Abs(normalizeAngle(s.Orientation - t.Orientation))
			if diff > f.OrientationTolerance {
				continue
			}

			score := distance + diff*orientationWeight
			if score < bestScore {
				bestScore = score
				best = j
				bestDist = distance
				bestDiff = diff
			}
		}

		if best >= 0 {
			claimed[best] = true
			matches = append(matches, Correspondence{
				SourceIndex:     i,
				TargetIndex:     best,
				Distance:        bestDist,
				OrientationDiff: bestDiff,
			})
		}
	}
	return matches
}

// normalizeAngle wraps an angle into (-pi, pi]
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}
