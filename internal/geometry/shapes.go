package geometry

import "math"

// Synthetic silhouettes used by the synthetic camera and by tests.
// Coordinates are in a 80x100 unit box before scaling.
const (
	handWidth   = 80
	handBase    = 100
	handArc     = 20
	valleyDepth = 70
)

// Hand returns a simplified hand silhouette with the given number of raised
// fingers, scaled by scale and translated by origin. Finger tips lie on a
// convex arc and adjacent fingers are separated by one acute valley, so a
// hand with n fingers has n-1 valleys. fingers is clamped to 1..5.
func Hand(fingers, scale int, origin Point) Contour {
	if fingers < 1 {
		fingers = 1
	}
	if fingers > 5 {
		fingers = 5
	}
	if scale < 1 {
		scale = 1
	}

	var unit Contour
	if fingers == 1 {
		unit = Contour{
			{X: 0, Y: handBase},
			{X: 0, Y: 30},
			{X: handWidth / 2, Y: 0},
			{X: handWidth, Y: 30},
			{X: handWidth, Y: handBase},
		}
	} else {
		tips := make([]Point, fingers)
		for i := range tips {
			x := i * handWidth / (fingers - 1)
			t := float64(2*x-handWidth) / handWidth
			tips[i] = Point{X: x, Y: int(math.Round(handArc * t * t))}
		}

		unit = Contour{{X: 0, Y: handBase}}
		for i, tip := range tips {
			unit = append(unit, tip)
			if i < len(tips)-1 {
				unit = append(unit, Point{X: (tip.X + tips[i+1].X) / 2, Y: valleyDepth})
			}
		}
		unit = append(unit, Point{X: handWidth, Y: handBase})
	}

	return Transform(unit, scale, origin)
}

// Diamond returns a square rotated by 45 degrees centred on center.
func Diamond(center Point, radius int) Contour {
	return Contour{
		{X: center.X, Y: center.Y - radius},
		{X: center.X - radius, Y: center.Y},
		{X: center.X, Y: center.Y + radius},
		{X: center.X + radius, Y: center.Y},
	}
}

// Transform scales every point by scale and then translates it by origin.
func Transform(c Contour, scale int, origin Point) Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[i] = Point{X: p.X*scale + origin.X, Y: p.Y*scale + origin.Y}
	}
	return out
}
