package minutiae

import (
	"image"
	"math"
)

// approxPolyClosed reduces a closed contour to a simplified polygon using
// Douglas-Peucker. The contour is split at its first point and at the point
// farthest from it, and each arc is simplified independently.
func approxPolyClosed(points []image.Point, epsilon float64) []image.Point {
	if len(points) < 3 {
		return points
	}

	// Find the point farthest from the starting point to use as the second
	// anchor
	far := 0
	farDist := -1.0
	for i, p := range points {
		if d := dist(points[0], p); d > farDist {
			farDist = d
			far = i
		}
	}
	if far == 0 {
		return points[:1]
	}

	back := make([]image.Point, 0, len(points)-far+1)
	back = append(back, points[far:]...)
	back = append(back, points[0])

	first := douglasPeucker(points[:far+1], epsilon)
	second := douglasPeucker(back, epsilon)

	// Join the two arcs, dropping the duplicated anchors
	out := make([]image.Point, 0, len(first)+len(second))
	out = append(out, first...)
	if len(second) > 2 {
		out = append(out, second[1:len(second)-1]...)
	}
	return out
}

// douglasPeucker simplifies an open polyline to within epsilon
func douglasPeucker(points []image.Point, epsilon float64) []image.Point {
	if len(points) < 3 {
		return points
	}

	maxDist := 0.0
	index := 0
	for i := 1; i < len(points)-1; i++ {
		d := perpendicularDistance(points[i], points[0], points[len(points)-1])
		if d > maxDist {
			maxDist = d
			index = i
		}
	}

	if maxDist <= epsilon {
		return []image.Point{points[0], points[len(points)-1]}
	}

	left := douglasPeucker(points[:index+1], epsilon)
	right := douglasPeucker(points[index:], epsilon)

	merged := make([]image.Point, 0, len(left)+len(right)-1)
	merged = append(merged, left[:len(left)-1]...)
	merged = append(merged, right...)
	return merged
}

// perpendicularDistance computes the distance from p to the segment ab
func perpendicularDistance(p, a, b image.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return dist(p, a)
	}
	return math.Abs(dy*float64(p.X)-dx*float64(p.Y)+float64(b.X*a.Y)-float64(b.Y*a.X)) / length
}
