// Package mesh holds the decoded, read-only mesh documents shared by the STL
// and OBJ decoders.
package mesh

// Vec3 is a 3D coordinate stored at the binary STL width
type Vec3 [3]float32

// Vec2 is a 2D texture coordinate
type Vec2 [2]float32

// TextVec3 is a coordinate triple kept as the decimal text it was written with
type TextVec3 [3]string

// Triangle is one STL facet: a normal and three vertex positions
type Triangle struct {
	Normal     Vec3
	V0, V1, V2 Vec3
}

// Vertices returns the three vertex positions in file order
func (t Triangle) Vertices() [3]Vec3 {
	return [3]Vec3{t.V0, t.V1, t.V2}
}

// Encoding identifies which STL variant a document was decoded from
type Encoding int

const (
	// Binary is the fixed 50-byte record layout
	Binary Encoding = iota
	// ASCII is the line-oriented "solid ... endsolid" text layout
	ASCII
)

func (e Encoding) String() string {
	switch e {
	case Binary:
		return "binary"
	case ASCII:
		return "ascii"
	default:
		return "unknown"
	}
}

// HeaderSize is the length of the binary STL header
const HeaderSize = 80

// STLDocument is the result of decoding an STL stream.
//
// Name is only set for ASCII input. Header is only set for binary input and
// holds the raw, uninterpreted header bytes. Normals and Vertices are the
// textual sequences scanned from ASCII input; they are independent of facet
// grouping and may differ in length.
type STLDocument struct {
	Name      string
	Encoding  Encoding
	Header    [HeaderSize]byte
	Triangles []Triangle

	Normals  []TextVec3
	Vertices []TextVec3
}

// TriangleCount returns the number of decoded triangles
func (d *STLDocument) TriangleCount() int {
	return len(d.Triangles)
}
