package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Axis selects one of the coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis maps "x", "y" or "z" to an Axis
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(name) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	default:
		return AxisX, fmt.Errorf("invalid axis %q (expected x, y or z)", name)
	}
}

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// Component returns the coordinate of v along the axis
func (a Axis) Component(v Vector3) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// project drops the axis coordinate
func (a Axis) project(v Vector3) (float64, float64) {
	switch a {
	case AxisX:
		return v.Y, v.Z
	case AxisY:
		return v.X, v.Z
	default:
		return v.X, v.Y
	}
}

// unproject is the inverse of project at the given axis coordinate
func (a Axis) unproject(u, w, at float64) Vector3 {
	switch a {
	case AxisX:
		return NewVector3(at, u, w)
	case AxisY:
		return NewVector3(u, at, w)
	default:
		return NewVector3(u, w, at)
	}
}

func (a Axis) unit() Vector3 {
	return a.unproject(0, 0, 1)
}

// ErrCollinear is returned when the sample points do not span a circle
var ErrCollinear = errors.New("points are collinear")

// CircleFit represents the result of fitting a circle to points
type CircleFit struct {
	Center Vector3 // Circle center in 3D
	Radius float64
	Normal Vector3 // Normal of the plane containing the circle
	StdDev float64 // Standard deviation of the point distances from the radius
}

// FitCircle fits a circle to points lying in a plane perpendicular to axis.
// The circle passes through the first, middle and last point, so points
// should be ordered along the arc. The plane coordinate is taken from the
// first point.
func FitCircle(points []Vector3, axis Axis) (*CircleFit, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("need at least 3 points to fit a circle, got %d", len(points))
	}

	x1, y1 := axis.project(points[0])
	x2, y2 := axis.project(points[len(points)/2])
	x3, y3 := axis.project(points[len(points)-1])

	d := 2.0 * (x1*(y2-y3) + x2*(y3-y1) + x3*(y1-y2))
	if math.Abs(d) < 1e-10 {
		return nil, ErrCollinear
	}

	s1 := x1*x1 + y1*y1
	s2 := x2*x2 + y2*y2
	s3 := x3*x3 + y3*y3

	cx := (s1*(y2-y3) + s2*(y3-y1) + s3*(y1-y2)) / d
	cy := (s1*(x3-x2) + s2*(x1-x3) + s3*(x2-x1)) / d
	radius := math.Hypot(x1-cx, y1-cy)

	var sumSq float64
	for _, p := range points {
		u, w := axis.project(p)
		diff := math.Hypot(u-cx, w-cy) - radius
		sumSq += diff * diff
	}

	return &CircleFit{
		Center: axis.unproject(cx, cy, axis.Component(points[0])),
		Radius: radius,
		Normal: axis.unit(),
		StdDev: math.Sqrt(sumSq / float64(len(points))),
	}, nil
}
