package video

import "math"

// Orientation is a coarse bucket of frame geometry.
type Orientation string

const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
	OrientationOther     Orientation = "other"
)

const (
	landscapeRatio = 16.0 / 9.0
	portraitRatio  = 9.0 / 16.0
	ratioTolerance = 0.1
)

// ClassifyAspectRatio buckets width/height into landscape (16:9), portrait (9:16) or other.
// A ratio whose distance to the reference is exactly the tolerance is "other".
func ClassifyAspectRatio(width, height int) Orientation {
	if width <= 0 || height <= 0 {
		return OrientationOther
	}
	ratio := float64(width) / float64(height)
	switch {
	case withinTolerance(ratio, landscapeRatio):
		return OrientationLandscape
	case withinTolerance(ratio, portraitRatio):
		return OrientationPortrait
	default:
		return OrientationOther
	}
}

func withinTolerance(ratio, reference float64) bool {
	return math.Abs(ratio-reference) < ratioTolerance
}

// Orientation classifies the geometry.
func (g StreamGeometry) Orientation() Orientation {
	return ClassifyAspectRatio(g.Width, g.Height)
}
