package mesh

import "fmt"

// FaceVertex is one corner of an OBJ face. All indices are 0-based.
type FaceVertex struct {
	Vertex      int
	TexCoord    int
	Normal      int
	HasTexCoord bool
	HasNormal   bool
}

// TexCoordIndex returns the texture coordinate index, if the corner has one
func (fv FaceVertex) TexCoordIndex() (int, bool) {
	return fv.TexCoord, fv.HasTexCoord
}

// NormalIndex returns the normal index, if the corner has one
func (fv FaceVertex) NormalIndex() (int, bool) {
	return fv.Normal, fv.HasNormal
}

// Face is an ordered list of face corners
type Face []FaceVertex

// VertexIndices returns the position index of every corner
func (f Face) VertexIndices() []int {
	indices := make([]int, len(f))
	for i, fv := range f {
		indices[i] = fv.Vertex
	}
	return indices
}

// Diagnostic records a condition the decoder recovered from in place
type Diagnostic struct {
	Kind  Kind
	Line  int
	Token string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s %q", d.Line, d.Kind, d.Token)
}

// ObjDocument is the result of decoding a Wavefront OBJ stream
type ObjDocument struct {
	Vertices  []Vec3
	Normals   []Vec3
	TexCoords []Vec2
	Faces     []Face

	Diagnostics []Diagnostic
}

// FaceCount returns the number of faces
func (d *ObjDocument) FaceCount() int {
	return len(d.Faces)
}

// Position resolves the position of a face corner.
// Indices are not checked while decoding, so forward references surface here.
func (d *ObjDocument) Position(fv FaceVertex) (Vec3, error) {
	if fv.Vertex < 0 || fv.Vertex >= len(d.Vertices) {
		return Vec3{}, &Error{
			Kind: KindInvalidFaceReference,
			Op:   "resolve vertex",
			Err:  fmt.Errorf("index %d out of range [0,%d)", fv.Vertex, len(d.Vertices)),
		}
	}
	return d.Vertices[fv.Vertex], nil
}

// ResolveFace resolves every corner of a face to its position
func (d *ObjDocument) ResolveFace(f Face) ([]Vec3, error) {
	positions := make([]Vec3, 0, len(f))
	for _, fv := range f {
		p, err := d.Position(fv)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, nil
}
