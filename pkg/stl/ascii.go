package stl

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/philipparndt/gomesh/pkg/mesh"
)

const (
	keywordEndSolid = "endsolid"
	keywordFacet    = "facet"
	keywordNormal   = "normal"
	keywordVertex   = "vertex"
)

// DecodeASCII scans ASCII STL text.
//
// The facet body is every line between the "solid" line and the last
// terminator line. Without a terminator the body is empty and the document has
// no triangles. The scan is flat: "facet normal" and "vertex" lines are
// collected wherever they appear, without checking loop nesting. Each normal
// starts a facet whose first three following vertices form a triangle; facets
// with fewer vertices are skipped, except the last one, which fails with
// KindUnexpectedEndOfASCIIStream.
func DecodeASCII(text string, opts ...Option) (*mesh.STLDocument, error) {
	o := newOptions(opts)
	lines := splitLines(text)

	doc := &mesh.STLDocument{
		Name:     solidName(lines[0]),
		Encoding: mesh.ASCII,
	}

	end := terminatorLine(lines, o.terminatorPrefix)
	if end == 0 {
		o.logger.Debug("no endsolid terminator, facet body is empty", "name", doc.Name)
		return doc, nil
	}

	s := &scanner{doc: doc, logger: o.logger}
	for i := 1; i < end; i++ {
		if err := s.scanLine(lines[i], i+1); err != nil {
			return nil, err
		}
	}
	if err := s.finish(); err != nil {
		return nil, err
	}

	o.logger.Debug("decoded ascii stl",
		"name", doc.Name,
		"triangles", len(doc.Triangles),
		"normals", len(doc.Normals),
		"vertices", len(doc.Vertices))

	return doc, nil
}

// splitLines splits on "\n" and drops a trailing "\r", so LF and CRLF input
// decode the same regardless of the platform running the decoder
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// solidName returns everything after the "solid" keyword, trimmed
func solidName(line string) string {
	line = strings.TrimSpace(line)
	if len(line) < len(solidKeyword) || !strings.EqualFold(line[:len(solidKeyword)], solidKeyword) {
		return ""
	}
	return strings.TrimSpace(line[len(solidKeyword):])
}

// terminatorLine returns the index of the last terminator line, or 0 if there
// is none. The first line is never a terminator.
func terminatorLine(lines []string, prefix bool) int {
	end := 0
	for i := 1; i < len(lines); i++ {
		if isTerminator(lines[i], prefix) {
			end = i
		}
	}
	return end
}

func isTerminator(line string, prefix bool) bool {
	if !prefix {
		return line == keywordEndSolid
	}
	fields := strings.Fields(line)
	return len(fields) > 0 && fields[0] == keywordEndSolid
}

type scanner struct {
	doc    *mesh.STLDocument
	logger *slog.Logger

	open       bool // a facet normal was seen and still lacks vertices
	facetLine  int
	normal     mesh.TextVec3
	corners    [3]mesh.TextVec3
	cornerLine [3]int
	count      int
}

func (s *scanner) scanLine(line string, lineNo int) error {
	fields := strings.Fields(line)

	switch {
	case hasToken(fields, keywordFacet) && hasToken(fields, keywordNormal):
		normal, err := textTriple(fields, lineNo, keywordFacet, keywordNormal)
		if err != nil {
			return err
		}
		s.doc.Normals = append(s.doc.Normals, normal)
		if s.open {
			s.logger.Debug("skipping facet with too few vertices", "line", s.facetLine, "vertices", s.count)
		}
		s.open = true
		s.facetLine = lineNo
		s.normal = normal
		s.count = 0

	case hasToken(fields, keywordVertex):
		vertex, err := textTriple(fields, lineNo, keywordVertex)
		if err != nil {
			return err
		}
		s.doc.Vertices = append(s.doc.Vertices, vertex)
		if !s.open {
			return nil
		}
		s.corners[s.count] = vertex
		s.cornerLine[s.count] = lineNo
		s.count++
		if s.count == 3 {
			s.open = false
			return s.emit()
		}
	}

	return nil
}

func (s *scanner) emit() error {
	var tri mesh.Triangle
	if err := parseTriple(s.normal, s.facetLine, &tri.Normal); err != nil {
		return err
	}
	for i, dst := range []*mesh.Vec3{&tri.V0, &tri.V1, &tri.V2} {
		if err := parseTriple(s.corners[i], s.cornerLine[i], dst); err != nil {
			return err
		}
	}
	s.doc.Triangles = append(s.doc.Triangles, tri)
	return nil
}

func (s *scanner) finish() error {
	if !s.open {
		return nil
	}
	return &mesh.Error{
		Kind: mesh.KindUnexpectedEndOfASCIIStream,
		Op:   "decode ascii stl",
		Line: s.facetLine,
		Err:  fmt.Errorf("facet has %d of 3 vertices before end of body", s.count),
	}
}

func hasToken(fields []string, token string) bool {
	for _, f := range fields {
		if f == token {
			return true
		}
	}
	return false
}

// textTriple removes the keywords from a line and keeps the first three
// remaining tokens as text
func textTriple(fields []string, lineNo int, keywords ...string) (mesh.TextVec3, error) {
	var values []string
	for _, f := range fields {
		if !hasToken(keywords, f) {
			values = append(values, f)
		}
	}
	if len(values) < 3 {
		return mesh.TextVec3{}, &mesh.Error{
			Kind: mesh.KindInvalidData,
			Op:   "decode ascii stl",
			Line: lineNo,
			Err:  fmt.Errorf("%s: expected 3 values, got %d", strings.Join(keywords, " "), len(values)),
		}
	}
	return mesh.TextVec3{values[0], values[1], values[2]}, nil
}

func parseTriple(text mesh.TextVec3, lineNo int, dst *mesh.Vec3) error {
	for i, s := range text {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return &mesh.Error{
				Kind: mesh.KindInvalidData,
				Op:   "decode ascii stl",
				Line: lineNo,
				Err:  fmt.Errorf("value %q: %w", s, err),
			}
		}
		dst[i] = float32(f)
	}
	return nil
}
