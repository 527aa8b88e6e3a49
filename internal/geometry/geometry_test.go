package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContour_Area(t *testing.T) {
	tests := []struct {
		name    string
		contour Contour
		want    float64
	}{
		{
			name:    "empty",
			contour: nil,
			want:    0,
		},
		{
			name:    "two points",
			contour: Contour{{0, 0}, {5, 5}},
			want:    0,
		},
		{
			name:    "unit square clockwise",
			contour: Contour{{0, 0}, {0, 10}, {10, 10}, {10, 0}},
			want:    100,
		},
		{
			name:    "unit square counter-clockwise",
			contour: Contour{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
			want:    100,
		},
		{
			name:    "diamond",
			contour: Diamond(Point{50, 50}, 10),
			want:    200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.contour.Area(), 1e-9)
		})
	}
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Point{0, 0}, Point{3, 4}), 1e-12)
	assert.Equal(t, 25.0, DistanceSquared(Point{0, 0}, Point{3, 4}))
}

func TestLineDistance(t *testing.T) {
	t.Run("perpendicular to horizontal edge", func(t *testing.T) {
		assert.InDelta(t, 7.0, lineDistance(Point{5, 7}, Point{0, 0}, Point{10, 0}), 1e-12)
	})

	t.Run("side of edge does not matter", func(t *testing.T) {
		assert.InDelta(t, 7.0, lineDistance(Point{5, -7}, Point{0, 0}, Point{10, 0}), 1e-12)
	})

	t.Run("coincident endpoints fall back to point distance", func(t *testing.T) {
		assert.InDelta(t, 5.0, lineDistance(Point{3, 4}, Point{0, 0}, Point{0, 0}), 1e-12)
	})
}

func TestConvexHull(t *testing.T) {
	t.Run("square with interior point", func(t *testing.T) {
		c := Contour{{0, 0}, {5, 5}, {0, 10}, {10, 10}, {10, 0}}
		assert.Equal(t, []int{0, 2, 3, 4}, ConvexHull(c))
	})

	t.Run("collinear edge points are excluded", func(t *testing.T) {
		c := Contour{{0, 0}, {0, 5}, {0, 10}, {10, 10}, {10, 0}}
		assert.Equal(t, []int{0, 2, 3, 4}, ConvexHull(c))
	})

	t.Run("duplicates keep lowest index", func(t *testing.T) {
		c := Contour{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}
		assert.Equal(t, []int{0, 1, 2, 3}, ConvexHull(c))
	})

	t.Run("indices strictly increasing", func(t *testing.T) {
		hull := ConvexHull(Hand(5, 3, Point{7, 11}))
		for i := 1; i < len(hull); i++ {
			assert.Less(t, hull[i-1], hull[i])
		}
	})

	t.Run("all collinear is degenerate", func(t *testing.T) {
		c := Contour{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
		hull := ConvexHull(c)
		assert.Len(t, hull, 2)
		assert.True(t, Degenerate(c, hull))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, ConvexHull(nil))
	})
}

func TestConvexityDefects_ConvexShapes(t *testing.T) {
	tests := []struct {
		name    string
		contour Contour
	}{
		{name: "diamond", contour: Diamond(Point{100, 100}, 40)},
		{name: "one finger", contour: Hand(1, 2, Point{0, 0})},
		{name: "polygonal circle", contour: circle(Point{200, 200}, 80, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze(tt.contour, DefaultDefectEpsilon)
			assert.Empty(t, a.Defects)
			assert.GreaterOrEqual(t, len(a.Hull), 3)
		})
	}
}

func TestConvexityDefects_Diamond_HullEqualsContour(t *testing.T) {
	c := Diamond(Point{60, 60}, 30)
	a := Analyze(c, DefaultDefectEpsilon)

	assert.Equal(t, []int{0, 1, 2, 3}, a.Hull)
	assert.Equal(t, c, HullPoints(c, a.Hull))
	assert.Empty(t, a.Defects)
}

func TestConvexityDefects_Hand(t *testing.T) {
	for fingers := 1; fingers <= 5; fingers++ {
		c := Hand(fingers, 4, Point{10, 10})
		a := Analyze(c, DefaultDefectEpsilon)

		require.Len(t, a.Defects, fingers-1, "fingers=%d", fingers)
		for _, d := range a.Defects {
			// Valleys sit between tips in the contour order.
			assert.Less(t, d.Start, d.Far)
			assert.Less(t, d.Far, d.End)
			assert.Greater(t, d.Depth, DefaultDefectEpsilon)
		}
	}
}

func TestConvexityDefects_FiveFingerIndices(t *testing.T) {
	c := Hand(5, 1, Point{})
	a := Analyze(c, DefaultDefectEpsilon)

	assert.Equal(t, []int{0, 1, 3, 5, 7, 9, 10}, a.Hull)

	fars := make([]int, len(a.Defects))
	for i, d := range a.Defects {
		fars[i] = d.Far
	}
	assert.Equal(t, []int{2, 4, 6, 8}, fars)
}

func TestConvexityDefects_Epsilon(t *testing.T) {
	// A single notch of depth 3 in the top edge of a square.
	c := Contour{{0, 0}, {0, 20}, {20, 20}, {20, 0}, {10, 3}}

	assert.Len(t, ConvexityDefects(c, ConvexHull(c), 2.5), 1)
	assert.Empty(t, ConvexityDefects(c, ConvexHull(c), 3.5))
}

func TestConvexityDefects_WrapAround(t *testing.T) {
	// The notch sits between the last hull vertex and index 0.
	c := Contour{{20, 0}, {0, 0}, {0, 20}, {20, 20}, {15, 10}}
	defects := ConvexityDefects(c, ConvexHull(c), 1)

	require.Len(t, defects, 1)
	assert.Equal(t, 3, defects[0].Start)
	assert.Equal(t, 0, defects[0].End)
	assert.Equal(t, 4, defects[0].Far)
	assert.InDelta(t, 5.0, defects[0].Depth, 1e-9)
}

func TestAnalyze_Degenerate(t *testing.T) {
	tests := []struct {
		name    string
		contour Contour
	}{
		{name: "nil", contour: nil},
		{name: "two points", contour: Contour{{0, 0}, {3, 3}}},
		{name: "line", contour: Contour{{0, 0}, {5, 0}, {10, 0}, {5, 0}}},
		{name: "single point repeated", contour: Contour{{4, 4}, {4, 4}, {4, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze(tt.contour, 0)
			assert.Empty(t, a.Defects)
		})
	}
}

func TestHand_ClampsFingers(t *testing.T) {
	assert.Equal(t, Hand(1, 1, Point{}), Hand(0, 1, Point{}))
	assert.Equal(t, Hand(5, 1, Point{}), Hand(9, 1, Point{}))
}

// circle returns a regular polygon with integer vertices.
func circle(center Point, radius, segments int) Contour {
	c := make(Contour, segments)
	for i := range c {
		a := 2 * math.Pi * float64(i) / float64(segments)
		c[i] = Point{
			X: center.X + int(math.Round(float64(radius)*math.Cos(a))),
			Y: center.Y + int(math.Round(float64(radius)*math.Sin(a))),
		}
	}
	return c
}
