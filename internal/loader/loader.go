// Package loader reads mesh files for the command-line front end: it picks a
// decoder from the file extension (or an explicit format), unpacks .xz
// inputs, renders OpenSCAD sources and fingerprints the decoded bytes.
package loader

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/obj"
	"github.com/philipparndt/gomesh/pkg/openscad"
	"github.com/philipparndt/gomesh/pkg/stl"
)

// Format is the mesh format of an input file
type Format int

const (
	// FormatUnknown means the format could not be determined
	FormatUnknown Format = iota
	// FormatSTL is binary or ASCII STL
	FormatSTL
	// FormatOBJ is Wavefront OBJ
	FormatOBJ
	// FormatSCAD is an OpenSCAD source rendered to STL
	FormatSCAD
)

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "stl"
	case FormatOBJ:
		return "obj"
	case FormatSCAD:
		return "scad"
	default:
		return "unknown"
	}
}

// ParseFormat maps a --format flag value to a Format. The empty string means
// detect from the extension.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "":
		return FormatUnknown, nil
	case "stl":
		return FormatSTL, nil
	case "obj":
		return FormatOBJ, nil
	case "scad":
		return FormatSCAD, nil
	default:
		return FormatUnknown, &mesh.Error{Kind: mesh.KindUnknownFormat, Op: "parse format", Err: fmt.Errorf("%q (expected stl, obj or scad)", name)}
	}
}

// DetectFormat derives the format from a file name. A trailing ".xz" marks a
// compressed input and is looked through.
func DetectFormat(path string) (Format, bool) {
	name := strings.ToLower(filepath.Base(path))
	compressed := strings.HasSuffix(name, ".xz")
	name = strings.TrimSuffix(name, ".xz")

	switch filepath.Ext(name) {
	case ".stl":
		return FormatSTL, compressed
	case ".obj":
		return FormatOBJ, compressed
	case ".scad":
		return FormatSCAD, compressed
	default:
		return FormatUnknown, compressed
	}
}

// Options configures a Loader
type Options struct {
	// Format overrides extension based detection
	Format Format
	// EndSolidPrefix accepts "endsolid <name>" as the ASCII STL terminator
	EndSolidPrefix bool
	Logger         *slog.Logger
}

// Loader loads mesh files
type Loader struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Loader
func New(opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{opts: opts, logger: logger}
}

// Result is a decoded input file. Exactly one of STL and OBJ is set.
type Result struct {
	Path       string
	Format     Format
	Compressed bool
	// Size is the byte length handed to the decoder, after decompression or rendering
	Size int64
	// Digest is the hex BLAKE3-256 of the bytes handed to the decoder
	Digest string

	STL *mesh.STLDocument
	OBJ *mesh.ObjDocument
}

// Load reads, decodes and fingerprints a file
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	format, compressed := DetectFormat(path)
	if l.opts.Format != FormatUnknown {
		format = l.opts.Format
	}
	if format == FormatUnknown {
		return nil, &mesh.Error{
			Kind: mesh.KindUnknownFormat,
			Op:   "load",
			Err:  fmt.Errorf("unsupported file type: %s (expected .stl, .obj or .scad)", filepath.Ext(path)),
		}
	}

	data, err := l.read(ctx, path, format, compressed)
	if err != nil {
		return nil, err
	}

	sum := blake3.Sum256(data)
	result := &Result{
		Path:       path,
		Format:     format,
		Compressed: compressed,
		Size:       int64(len(data)),
		Digest:     hex.EncodeToString(sum[:]),
	}

	switch format {
	case FormatOBJ:
		result.OBJ, err = obj.Decode(data, obj.WithLogger(l.logger))
	default:
		result.STL, err = stl.Decode(data, l.stlOptions()...)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.Debug("loaded mesh", "path", path, "format", format.String(), "bytes", result.Size)
	return result, nil
}

func (l *Loader) stlOptions() []stl.Option {
	opts := []stl.Option{stl.WithLogger(l.logger)}
	if l.opts.EndSolidPrefix {
		opts = append(opts, stl.WithTerminatorPrefix())
	}
	return opts
}

// read returns the whole decoder input in memory
func (l *Loader) read(ctx context.Context, path string, format Format, compressed bool) ([]byte, error) {
	if format == FormatSCAD {
		if compressed {
			return nil, &mesh.Error{Kind: mesh.KindUnknownFormat, Op: "load", Err: fmt.Errorf("compressed OpenSCAD sources are not supported: %s", path)}
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, &mesh.Error{Kind: mesh.KindIO, Op: "render scad", Err: err}
		}
		l.logger.Info("rendering OpenSCAD file", "path", abs)
		data, err := openscad.NewRenderer(filepath.Dir(abs)).Render(ctx, abs)
		if err != nil {
			return nil, &mesh.Error{Kind: mesh.KindIO, Op: "render scad", Err: err}
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mesh.Error{Kind: mesh.KindIO, Op: "read", Err: err}
	}
	if !compressed {
		return data, nil
	}

	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &mesh.Error{Kind: mesh.KindIO, Op: "decompress", Err: fmt.Errorf("%s: %w", path, err)}
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &mesh.Error{Kind: mesh.KindIO, Op: "decompress", Err: fmt.Errorf("%s: %w", path, err)}
	}
	l.logger.Debug("decompressed input", "path", path, "compressed", len(data), "bytes", len(out))
	return out, nil
}

// WatchList returns the files whose change should trigger a reload of path
func WatchList(path string, format Format) ([]string, error) {
	if format != FormatSCAD {
		return []string{path}, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &mesh.Error{Kind: mesh.KindIO, Op: "resolve scad dependencies", Err: err}
	}
	deps, err := openscad.NewRenderer(filepath.Dir(abs)).ResolveDependencies(abs)
	if err != nil {
		return nil, &mesh.Error{Kind: mesh.KindIO, Op: "resolve scad dependencies", Err: err}
	}
	return deps, nil
}
