// Package obj decodes Wavefront OBJ text into vertex, normal, texture
// coordinate and face tables.
//
// Decoding is lenient: unknown directives are skipped, unparsable numeric
// components become 0, and face corners without a usable vertex index are
// dropped. Each recovery is recorded in ObjDocument.Diagnostics. Negative
// (relative) indices are not supported and are treated as unparsable.
package obj

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

// Option configures a decode call
type Option func(*decoder)

// WithLogger sets the logger used for debug output while decoding
func WithLogger(logger *slog.Logger) Option {
	return func(d *decoder) {
		d.logger = logger
	}
}

type decoder struct {
	doc    *mesh.ObjDocument
	logger *slog.Logger
	line   int
}

// Decode decodes a complete OBJ stream
func Decode(data []byte, opts ...Option) (*mesh.ObjDocument, error) {
	d := &decoder{doc: &mesh.ObjDocument{}}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	for scanner.Scan() {
		d.line++
		d.decodeLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &mesh.Error{Kind: mesh.KindIO, Op: "decode obj", Line: d.line + 1, Err: err}
	}

	d.logger.Debug("decoded obj",
		"vertices", len(d.doc.Vertices),
		"normals", len(d.doc.Normals),
		"texcoords", len(d.doc.TexCoords),
		"faces", len(d.doc.Faces),
		"diagnostics", len(d.doc.Diagnostics))

	return d.doc, nil
}

// Read buffers r completely and decodes it
func Read(r io.Reader, opts ...Option) (*mesh.ObjDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &mesh.Error{Kind: mesh.KindIO, Op: "read obj", Err: err}
	}
	return Decode(data, opts...)
}

// Parse reads an OBJ file and decodes it
func Parse(filename string, opts ...Option) (*mesh.ObjDocument, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &mesh.Error{Kind: mesh.KindIO, Op: "read obj", Err: fmt.Errorf("failed to open file: %w", err)}
	}
	return Decode(data, opts...)
}

func (d *decoder) decodeLine(line string) {
	// bufio.ScanLines already strips a trailing "\r"
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "v":
		var v mesh.Vec3
		d.components(fields[1:], v[:])
		d.doc.Vertices = append(d.doc.Vertices, v)
	case "vn":
		var n mesh.Vec3
		d.components(fields[1:], n[:])
		d.doc.Normals = append(d.doc.Normals, n)
	case "vt":
		var t mesh.Vec2
		d.components(fields[1:], t[:])
		d.doc.TexCoords = append(d.doc.TexCoords, t)
	case "f":
		d.doc.Faces = append(d.doc.Faces, d.face(fields[1:]))
	}
}

// components fills dst from the leading tokens; missing or unparsable
// components stay 0
func (d *decoder) components(tokens []string, dst []float32) {
	for i := range dst {
		if i >= len(tokens) {
			d.note(mesh.KindNumericDefaulted, "")
			continue
		}
		f, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			d.note(mesh.KindNumericDefaulted, tokens[i])
			continue
		}
		dst[i] = float32(f)
	}
}

func (d *decoder) face(tokens []string) mesh.Face {
	face := make(mesh.Face, 0, len(tokens))
	for _, token := range tokens {
		fv, ok := parseFaceVertex(token)
		if !ok {
			d.note(mesh.KindInvalidFaceReference, token)
			continue
		}
		face = append(face, fv)
	}
	return face
}

// parseFaceVertex parses "v", "v/t", "v//n" or "v/t/n".
// Empty or unparsable texture and normal slots are left absent.
func parseFaceVertex(token string) (mesh.FaceVertex, bool) {
	parts := strings.Split(token, "/")

	vertex, ok := parseIndex(parts[0])
	if !ok {
		return mesh.FaceVertex{}, false
	}

	fv := mesh.FaceVertex{Vertex: vertex}
	if len(parts) > 1 {
		fv.TexCoord, fv.HasTexCoord = parseIndex(parts[1])
	}
	if len(parts) > 2 {
		fv.Normal, fv.HasNormal = parseIndex(parts[2])
	}
	return fv, true
}

// parseIndex converts a 1-based file index to 0-based. Negative and zero
// indices are rejected, as are indices beyond the int range.
func parseIndex(s string) (int, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 || n-1 > math.MaxInt {
		return 0, false
	}
	return int(n - 1), true
}

func (d *decoder) note(kind mesh.Kind, token string) {
	diag := mesh.Diagnostic{Kind: kind, Line: d.line, Token: token}
	d.doc.Diagnostics = append(d.doc.Diagnostics, diag)
	d.logger.Debug("recovered obj value", "line", d.line, "kind", kind.String(), "token", token)
}
