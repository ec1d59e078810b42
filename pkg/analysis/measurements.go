package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

// EdgeInfo contains information about an edge in the model
type EdgeInfo struct {
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
	FaceID int
}

// FaceInfo describes one triangle or polygon of the model
type FaceInfo struct {
	Index     int
	Corners   []geometry.Vector3
	Area      float64
	Perimeter float64
}

// MeasurementResult contains various measurements of a decoded mesh
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	FaceCount     int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	AllEdges      []EdgeInfo
	Faces         []FaceInfo

	// UnresolvedCorners counts OBJ face corners whose index is out of range
	UnresolvedCorners int
}

// AnalyzeSTL measures an STL document
func AnalyzeSTL(doc *mesh.STLDocument) *MeasurementResult {
	polygons := make([][]geometry.Vector3, len(doc.Triangles))
	for i, tri := range doc.Triangles {
		t := geometry.FromTriangle(tri)
		polygons[i] = []geometry.Vector3{t.V1, t.V2, t.V3}
	}
	return analyze(polygons)
}

// AnalyzeOBJ measures an OBJ document. Corners that reference a missing
// vertex are left out and counted in UnresolvedCorners.
func AnalyzeOBJ(doc *mesh.ObjDocument) *MeasurementResult {
	polygons := make([][]geometry.Vector3, len(doc.Faces))
	unresolved := 0
	for i, face := range doc.Faces {
		corners := make([]geometry.Vector3, 0, len(face))
		for _, fv := range face {
			p, err := doc.Position(fv)
			if err != nil {
				unresolved++
				continue
			}
			corners = append(corners, geometry.FromVec3(p))
		}
		polygons[i] = corners
	}

	result := analyze(polygons)
	result.UnresolvedCorners = unresolved
	return result
}

func analyze(polygons [][]geometry.Vector3) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox: geometry.NewBoundingBox(),
		FaceCount:   len(polygons),
		AllEdges:    make([]EdgeInfo, 0),
		Faces:       make([]FaceInfo, 0, len(polygons)),
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for i, corners := range polygons {
		face := FaceInfo{
			Index:   i,
			Corners: corners,
			Area:    geometry.PolygonArea(corners),
		}

		for j, start := range corners {
			result.BoundingBox.Extend(start)
			if len(corners) < 2 {
				continue
			}
			end := corners[(j+1)%len(corners)]
			length := start.Distance(end)

			result.AllEdges = append(result.AllEdges, EdgeInfo{
				Start:  start,
				End:    end,
				Length: length,
				FaceID: i,
			})
			face.Perimeter += length

			totalLength += length
			if length < minLength {
				minLength = length
			}
			if length > maxLength {
				maxLength = length
			}
		}

		result.SurfaceArea += face.Area
		result.Faces = append(result.Faces, face)
	}

	result.Dimensions = result.BoundingBox.Size()
	result.Volume = result.BoundingBox.Volume()

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the model
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges in the model
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(result *MeasurementResult, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	count = max(0, min(count, len(edges)))
	return edges[:count]
}

// SortFacesByArea returns a copy of the faces ordered by area
func SortFacesByArea(result *MeasurementResult, descending bool) []FaceInfo {
	faces := make([]FaceInfo, len(result.Faces))
	copy(faces, result.Faces)

	sort.SliceStable(faces, func(i, j int) bool {
		if descending {
			return faces[i].Area > faces[j].Area
		}
		return faces[i].Area < faces[j].Area
	})
	return faces
}

// FindNearestVertex finds the face corner nearest to a given point.
// The distance is +Inf when the model has no vertices.
func FindNearestVertex(result *MeasurementResult, point geometry.Vector3) (geometry.Vector3, float64) {
	var nearestVertex geometry.Vector3
	minDistance := math.Inf(1)

	for _, face := range result.Faces {
		for _, vertex := range face.Corners {
			distance := point.Distance(vertex)
			if distance < minDistance {
				minDistance = distance
				nearestVertex = vertex
			}
		}
	}

	return nearestVertex, minDistance
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return v.String()
}

// VerticesOnPlane returns the distinct face corners whose coordinate along
// axis is within tolerance of at, ordered by angle around their centroid.
// The ordering makes the result a valid input for geometry.FitCircle.
func VerticesOnPlane(result *MeasurementResult, axis geometry.Axis, at, tolerance float64) []geometry.Vector3 {
	seen := make(map[geometry.Vector3]bool)
	var points []geometry.Vector3
	var centroid geometry.Vector3

	for _, face := range result.Faces {
		for _, v := range face.Corners {
			if math.Abs(axis.Component(v)-at) > tolerance || seen[v] {
				continue
			}
			seen[v] = true
			points = append(points, v)
			centroid = centroid.Add(v)
		}
	}
	if len(points) == 0 {
		return nil
	}
	centroid = centroid.Mul(1 / float64(len(points)))

	// any in-plane reference direction gives a consistent angular order
	u, w := inPlaneAxes(axis)
	angle := func(v geometry.Vector3) float64 {
		d := v.Sub(centroid)
		return math.Atan2(d.Dot(w), d.Dot(u))
	}
	sort.SliceStable(points, func(i, j int) bool {
		return angle(points[i]) < angle(points[j])
	})
	return points
}

func inPlaneAxes(axis geometry.Axis) (geometry.Vector3, geometry.Vector3) {
	switch axis {
	case geometry.AxisX:
		return geometry.NewVector3(0, 1, 0), geometry.NewVector3(0, 0, 1)
	case geometry.AxisY:
		return geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 0, 1)
	default:
		return geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0)
	}
}
