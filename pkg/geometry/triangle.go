package geometry

import "github.com/philipparndt/gomesh/pkg/mesh"

// Triangle represents a triangular facet in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{Normal: normal, V1: v1, V2: v2, V3: v3}
}

// FromTriangle widens a decoded STL facet. The stored normal is kept as is.
func FromTriangle(t mesh.Triangle) Triangle {
	return NewTriangle(FromVec3(t.Normal), FromVec3(t.V0), FromVec3(t.V1), FromVec3(t.V2))
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	sum := t.V1.Add(t.V2).Add(t.V3)
	return Vector3{X: sum.X / 3.0, Y: sum.Y / 3.0, Z: sum.Z / 3.0}
}

// PolygonArea returns the area of a planar polygon by fanning from its first
// corner. Fewer than three corners have no area.
func PolygonArea(corners []Vector3) float64 {
	area := 0.0
	for i := 1; i+1 < len(corners); i++ {
		area += NewTriangle(Vector3{}, corners[0], corners[i], corners[i+1]).Area()
	}
	return area
}
