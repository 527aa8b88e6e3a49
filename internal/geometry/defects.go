package geometry

// DefaultDefectEpsilon is the minimum depth, in pixels, for a concavity to
// count as a defect. Rasterised convex shapes deviate from their hull by
// less than one pixel.
const DefaultDefectEpsilon = 2.0

// Defect is a concave region between a hull edge and the contour.
// Start, End and Far are indices into the source contour.
type Defect struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Far   int     `json:"far"`
	Depth float64 `json:"depth"`
}

// Analysis is the hull and defect set of one contour.
type Analysis struct {
	Hull    []int    `json:"hull"`
	Defects []Defect `json:"defects"`
}

// ConvexityDefects locates, for every edge of hull, the contour point
// strictly between the edge endpoints that lies farthest from the edge.
// The point is reported as a defect when its perpendicular distance exceeds
// epsilon. hull must hold ascending contour indices as returned by
// ConvexHull.
//
// Contours with fewer than three points and hulls that enclose no area
// yield no defects.
func ConvexityDefects(c Contour, hull []int, epsilon float64) []Defect {
	n := len(c)
	if n < MinContourPoints || Degenerate(c, hull) {
		return nil
	}

	var defects []Defect
	for k := range hull {
		s := hull[k]
		e := hull[(k+1)%len(hull)]

		span := (e - s + n) % n
		if span < 2 {
			continue
		}

		far := -1
		depth := 0.0
		for step := 1; step < span; step++ {
			i := (s + step) % n
			if d := lineDistance(c[i], c[s], c[e]); d > depth {
				far, depth = i, d
			}
		}

		if far >= 0 && depth > epsilon {
			defects = append(defects, Defect{
				Start: s,
				End:   e,
				Far:   far,
				Depth: depth,
			})
		}
	}

	return defects
}

// Analyze computes the hull and defects of c.
func Analyze(c Contour, epsilon float64) Analysis {
	if !c.Valid() {
		return Analysis{}
	}

	hull := ConvexHull(c)
	return Analysis{
		Hull:    hull,
		Defects: ConvexityDefects(c, hull, epsilon),
	}
}
