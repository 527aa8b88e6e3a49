package geometry

import "sort"

// ConvexHull returns the contour indices of the convex hull vertices in
// ascending order, which is the cyclic order in which they occur along the
// contour. Collinear and duplicate points are not hull vertices; for a
// duplicated vertex the lowest index is used.
//
// The hull is computed with Andrew's monotone chain. Fewer than three
// distinct points, or all points collinear, yields fewer than three indices.
func ConvexHull(c Contour) []int {
	if len(c) == 0 {
		return nil
	}

	order := make([]int, len(c))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := c[order[i]], c[order[j]]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return order[i] < order[j]
	})

	distinct := make([]int, 0, len(order))
	for _, i := range order {
		if len(distinct) > 0 && c[distinct[len(distinct)-1]] == c[i] {
			continue
		}
		distinct = append(distinct, i)
	}

	if len(distinct) < 3 {
		sort.Ints(distinct)
		return distinct
	}

	hull := make([]int, 0, 2*len(distinct))

	// Lower hull
	for _, i := range distinct {
		for len(hull) >= 2 && cross(c[hull[len(hull)-2]], c[hull[len(hull)-1]], c[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}

	// Upper hull
	lowerLen := len(hull) + 1
	for k := len(distinct) - 2; k >= 0; k-- {
		i := distinct[k]
		for len(hull) >= lowerLen && cross(c[hull[len(hull)-2]], c[hull[len(hull)-1]], c[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}

	// The last point repeats the first.
	hull = hull[:len(hull)-1]

	sort.Ints(hull)
	return hull
}

// HullPoints returns the contour points referenced by hull, in hull order.
func HullPoints(c Contour, hull []int) Contour {
	pts := make(Contour, 0, len(hull))
	for _, i := range hull {
		if i >= 0 && i < len(c) {
			pts = append(pts, c[i])
		}
	}
	return pts
}

// Degenerate reports whether the hull encloses no area.
func Degenerate(c Contour, hull []int) bool {
	if len(hull) < MinContourPoints {
		return true
	}
	return HullPoints(c, hull).Area() == 0
}
