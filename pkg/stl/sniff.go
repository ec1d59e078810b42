package stl

import (
	"bytes"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

const solidKeyword = "solid"

// Sniff decides the STL encoding from the start of a stream.
// Only the first 80 bytes are considered: the stream is ASCII if they begin
// with "solid" in any letter case, binary otherwise. A binary file whose header
// happens to start with "solid" is reported as ASCII.
func Sniff(header []byte) mesh.Encoding {
	if len(header) > mesh.HeaderSize {
		header = header[:mesh.HeaderSize]
	}
	if len(header) >= len(solidKeyword) && bytes.EqualFold(header[:len(solidKeyword)], []byte(solidKeyword)) {
		return mesh.ASCII
	}
	return mesh.Binary
}
