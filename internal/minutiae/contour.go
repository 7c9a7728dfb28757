package minutiae

import (
	"image"
	"math"
)

// Clockwise Moore neighborhood used for boundary tracing
var mooreDirs = [8]image.Point{
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
}

// findExternalContours locates the outer boundary of every 8-connected
// foreground component in a binary image, in row-major discovery order
func findExternalContours(binary *image.Gray) [][]image.Point {
	bounds := binary.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	visited := make([]bool, width*height)

	fg := func(p image.Point) bool {
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			return false
		}
		return binary.Pix[p.Y*binary.Stride+p.X] != 0
	}

	var contours [][]image.Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !fg(image.Pt(x, y)) || visited[y*width+x] {
				continue
			}
			contour := traceBoundary(fg, image.Pt(x, y), width, height)
			contours = append(contours, contour)
			markComponent(fg, visited, image.Pt(x, y), width, height)
		}
	}
	return contours
}

// traceBoundary walks the Moore neighborhood clockwise around a component,
// starting at its first row-major pixel. A step cap guards against
// degenerate inputs.
func traceBoundary(fg func(image.Point) bool, start image.Point, width, height int) []image.Point {
	contour := []image.Point{start}

	// The scan reaches the component from the west, so backtrack starts there
	backtrack := 0
	cur := start
	maxSteps := 4 * (width + height) * 2
	if maxSteps < 64 {
		maxSteps = 64
	}

	for step := 0; step < maxSteps; step++ {
		found := -1
		for i := 1; i <= 8; i++ {
			idx := (backtrack + i) % 8
			if fg(cur.Add(mooreDirs[idx])) {
				found = idx
				break
			}
		}
		if found < 0 {
			// Isolated pixel
			break
		}
		backtrackPoint := cur.Add(mooreDirs[(found+7)%8])
		cur = cur.Add(mooreDirs[found])
		if cur == start {
			break
		}
		contour = append(contour, cur)

		// Re-derive the backtrack direction relative to the new pixel
		backtrack = 0
		for i, d := range mooreDirs {
			if cur.Add(d) == backtrackPoint {
				backtrack = i
				break
			}
		}
	}
	return contour
}

// markComponent flood-fills a component so later scan positions do not
// trace the same boundary again
func markComponent(fg func(image.Point) bool, visited []bool, start image.Point, width, height int) {
	stack := []image.Point{start}
	visited[start.Y*width+start.X] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range mooreDirs {
			n := p.Add(d)
			if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
				continue
			}
			if visited[n.Y*width+n.X] || !fg(n) {
				continue
			}
			visited[n.Y*width+n.X] = true
			stack = append(stack, n)
		}
	}
}

// arcLength returns the perimeter of a closed contour
func arcLength(points []image.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	total := 0.0
	for i := range points {
		j := (i + 1) % len(points)
		total += dist(points[i], points[j])
	}
	return total
}

func dist(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Hypot(dx, dy)
}
