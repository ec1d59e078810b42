// Package stl decodes binary and ASCII STL streams into mesh documents.
package stl

import (
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

// Decode decodes a complete STL stream.
// It sniffs the first 80 bytes to pick the binary or ASCII decoder.
func Decode(data []byte, opts ...Option) (*mesh.STLDocument, error) {
	switch Sniff(data) {
	case mesh.ASCII:
		return DecodeASCII(string(data), opts...)
	default:
		return DecodeBinary(data, opts...)
	}
}

// Read buffers r completely and decodes it
func Read(r io.Reader, opts ...Option) (*mesh.STLDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &mesh.Error{Kind: mesh.KindIO, Op: "read stl", Err: err}
	}
	return Decode(data, opts...)
}

// Parse reads an STL file and decodes it.
// It automatically detects whether the file is ASCII or binary format.
func Parse(filename string, opts ...Option) (*mesh.STLDocument, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &mesh.Error{Kind: mesh.KindIO, Op: "read stl", Err: fmt.Errorf("failed to open file: %w", err)}
	}
	return Decode(data, opts...)
}
