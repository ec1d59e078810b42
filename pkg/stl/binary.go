package stl

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

const (
	countSize  = 4
	recordSize = 50 // normal + 3 vertices (12 floats) + 2 attribute bytes
	bodyOffset = mesh.HeaderSize + countSize
)

var le = binary.LittleEndian

// DecodeBinary decodes a binary STL stream.
// Either all declared triangles are returned or none: a stream that ends
// before the last declared record fails with KindTruncatedBinaryRecord.
func DecodeBinary(data []byte, opts ...Option) (*mesh.STLDocument, error) {
	o := newOptions(opts)

	if len(data) < bodyOffset {
		return nil, &mesh.Error{
			Kind:   mesh.KindTruncatedBinaryRecord,
			Op:     "decode binary stl",
			Offset: int64(len(data)),
			Err:    fmt.Errorf("need %d bytes for header and triangle count, have %d", bodyOffset, len(data)),
		}
	}

	doc := &mesh.STLDocument{Encoding: mesh.Binary}
	copy(doc.Header[:], data[:mesh.HeaderSize])
	count := le.Uint32(data[mesh.HeaderSize:bodyOffset])

	body := data[bodyOffset:]
	if uint64(len(body)) < uint64(count)*recordSize {
		complete := len(body) / recordSize
		return nil, &mesh.Error{
			Kind:   mesh.KindTruncatedBinaryRecord,
			Op:     "decode binary stl",
			Offset: int64(bodyOffset + complete*recordSize),
			Err:    fmt.Errorf("declared %d triangles, stream holds %d complete records", count, complete),
		}
	}

	doc.Triangles = make([]mesh.Triangle, count)
	for i := range doc.Triangles {
		readTriangle(body[i*recordSize:(i+1)*recordSize], &doc.Triangles[i])
	}

	if extra := len(body) - int(count)*recordSize; extra > 0 {
		o.logger.Debug("trailing bytes after last record", "bytes", extra)
	}
	o.logger.Debug("decoded binary stl", "triangles", count)

	return doc, nil
}

// readTriangle decodes one record straight into its final slot.
// The attribute byte count in the last two bytes is skipped.
func readTriangle(buf []byte, t *mesh.Triangle) {
	readVec3(buf[0:12], &t.Normal)
	readVec3(buf[12:24], &t.V0)
	readVec3(buf[24:36], &t.V1)
	readVec3(buf[36:48], &t.V2)
}

func readVec3(buf []byte, v *mesh.Vec3) {
	for c := range v {
		v[c] = math.Float32frombits(le.Uint32(buf[4*c:]))
	}
}
