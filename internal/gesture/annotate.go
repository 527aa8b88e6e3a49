package gesture

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/geometry"
)

// Annotation colours. gocv maps color.RGBA onto OpenCV's BGR order.
var (
	HullColor   = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	ValleyColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	TextColor   = color.RGBA{R: 0, G: 0, B: 255, A: 0}
)

// Annotation layout
const (
	HullThickness = 2
	ValleyRadius  = 5
	TextScale     = 1.0
	TextThickness = 2
)

// TextOrigin is where the finger count label is drawn.
var TextOrigin = image.Pt(10, 50)

// Annotate returns a copy of frame with the hull outline, a filled marker at
// each valley's far point and the finger count. frame is not modified.
// The caller is responsible for closing the returned Mat.
func Annotate(frame gocv.Mat, contour geometry.Contour, hull []int, cls Classification) gocv.Mat {
	out := frame.Clone()
	if out.Empty() {
		return out
	}

	if pts := geometry.HullPoints(contour, hull); len(pts) >= 2 {
		pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts.ImagePoints()})
		gocv.Polylines(&out, pv, true, HullColor, HullThickness)
		pv.Close()
	}

	for _, v := range cls.Valleys {
		gocv.Circle(&out, image.Pt(v.Far.X, v.Far.Y), ValleyRadius, ValleyColor, -1)
	}

	gocv.PutText(&out, Label(cls.FingerCount), TextOrigin, gocv.FontHersheySimplex, TextScale, TextColor, TextThickness)

	return out
}

// Label is the text drawn for a finger count.
func Label(count int) string {
	return fmt.Sprintf("Fingers: %d", count)
}
