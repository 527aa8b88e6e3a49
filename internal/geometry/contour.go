// Package geometry provides contour, convex hull and convexity defect
// computations for hand silhouettes.
package geometry

import (
	"image"

	"gonum.org/v1/gonum/spatial/r2"
)

// MinContourPoints is the smallest contour that encloses any area.
const MinContourPoints = 3

// Point is an integer pixel coordinate on a contour.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Contour is an ordered, closed sequence of boundary points.
// The last point connects back to the first.
type Contour []Point

// FromImagePoints converts image points (as returned by gocv) to a Contour.
func FromImagePoints(pts []image.Point) Contour {
	c := make(Contour, len(pts))
	for i, p := range pts {
		c[i] = Point{X: p.X, Y: p.Y}
	}
	return c
}

// ImagePoints converts the contour back to image points for drawing.
func (c Contour) ImagePoints() []image.Point {
	pts := make([]image.Point, len(c))
	for i, p := range c {
		pts[i] = image.Pt(p.X, p.Y)
	}
	return pts
}

// Valid reports whether the contour has enough points to enclose an area.
func (c Contour) Valid() bool {
	return len(c) >= MinContourPoints
}

// Area returns the absolute enclosed area using the shoelace formula.
func (c Contour) Area() float64 {
	if !c.Valid() {
		return 0
	}

	var sum int64
	n := len(c)
	for i := 0; i < n; i++ {
		p, q := c[i], c[(i+1)%n]
		sum += int64(p.X)*int64(q.Y) - int64(q.X)*int64(p.Y)
	}
	if sum < 0 {
		sum = -sum
	}
	return float64(sum) / 2
}

// vec converts a point to a gonum vector.
func vec(p Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(vec(a), vec(b)))
}

// DistanceSquared returns the squared Euclidean distance between two points.
// It is exact for integer coordinates.
func DistanceSquared(a, b Point) float64 {
	return r2.Norm2(r2.Sub(vec(a), vec(b)))
}

// cross returns the z component of (a-o) x (b-o).
func cross(o, a, b Point) int64 {
	return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
}

// lineDistance returns the perpendicular distance from p to the line
// through a and b. When a and b coincide it is the distance to a.
func lineDistance(p, a, b Point) float64 {
	ab := r2.Sub(vec(b), vec(a))
	length := r2.Norm(ab)
	if length == 0 {
		return Distance(p, a)
	}
	ap := r2.Sub(vec(p), vec(a))
	d := r2.Cross(ab, ap) / length
	if d < 0 {
		return -d
	}
	return d
}
