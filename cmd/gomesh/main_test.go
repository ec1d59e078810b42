package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gomesh/internal/config"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

const squareSTL = `solid square
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 2 0 0
vertex 2 2 0
endloop
endfacet
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 2 2 0
vertex 0 2 0
endloop
endfacet
endsolid
`

const brokenOBJ = `v 0 0 0
v 1 0 0
v 0 x 0
f 1 2 3
f 1//1 2 9
`

// resetFlags restores every flag to its default, since cobra keeps parsed
// values on the package level commands between executions
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI in a clean directory and returns stdout and the error
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := executeContext(t, context.Background(), &out, &errOut, args...)
	return out.String(), err
}

func executeContext(t *testing.T, ctx context.Context, out, errOut io.Writer, args ...string) error {
	t.Helper()
	t.Setenv(config.EnvFile, "")
	chdir(t, t.TempDir())

	resetFlags(rootCmd)
	cfg = config.Default()

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	return rootCmd.ExecuteContext(ctx)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func binarySTL(t *testing.T, declared uint32, tris []mesh.Triangle) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	buf.Write(make([]byte, mesh.HeaderSize))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, declared))
	for _, tri := range tris {
		for _, v := range []mesh.Vec3{tri.Normal, tri.V0, tri.V1, tri.V2} {
			require.NoError(t, binary.Write(buf, binary.LittleEndian, v))
		}
		require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(0)))
	}
	return buf.Bytes()
}

func TestInfoASCII(t *testing.T) {
	path := writeFile(t, "square.stl", []byte(squareSTL))

	out, err := execute(t, "info", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Format: STL (ascii)")
	assert.Contains(t, out, "Name: square")
	assert.Contains(t, out, "Triangles: 2")
	assert.Contains(t, out, "Surface Area: 4.000000 square units")
	assert.Contains(t, out, "Width (X): 2.000000 units")
	assert.Contains(t, out, "BLAKE3: ")
}

func TestInfoBinary(t *testing.T) {
	tri := mesh.Triangle{
		Normal: mesh.Vec3{0, 0, 1},
		V0:     mesh.Vec3{0, 0, 0},
		V1:     mesh.Vec3{3, 0, 0},
		V2:     mesh.Vec3{0, 4, 0},
	}
	path := writeFile(t, "tri.stl", binarySTL(t, 1, []mesh.Triangle{tri}))

	out, err := execute(t, "info", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Format: STL (binary)")
	assert.Contains(t, out, "Size: 134 B")
	assert.Contains(t, out, "Triangles: 1")
	assert.Contains(t, out, "Edges: 3")
	assert.Contains(t, out, "Maximum: 5.000000 units")
}

func TestEdgesLongest(t *testing.T) {
	path := writeFile(t, "square.stl", []byte(squareSTL))

	out, err := execute(t, "edges", path, "--longest", "-n", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Top 2 Longest Edges")
	assert.Contains(t, out, "Total edges in model: 6")
	assert.Contains(t, out, "2.828427")
}

func TestEdgesInvalidRange(t *testing.T) {
	path := writeFile(t, "square.stl", []byte(squareSTL))

	_, err := execute(t, "edges", path, "--min", "3", "--max", "1")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestTrianglesLargest(t *testing.T) {
	path := writeFile(t, "square.stl", []byte(squareSTL))

	out, err := execute(t, "triangles", path, "--largest")
	require.NoError(t, err)

	assert.Contains(t, out, "Total triangles: 2")
	assert.Contains(t, out, "Total surface area: 4.000000 square units")
	assert.Contains(t, out, "Triangle #0:")
	assert.Contains(t, out, "Triangle #1:")
}

func TestMeasure(t *testing.T) {
	path := writeFile(t, "square.stl", []byte(squareSTL))

	out, err := execute(t, "measure", path,
		"--x1", "0", "--y1", "0", "--z1", "1",
		"--x2", "2", "--y2", "2", "--z2", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Direct distance: 2.828427 units")
	assert.Contains(t, out, "Nearest vertex: (0.000000, 0.000000, 0.000000) (distance: 1.000000)")
	assert.Contains(t, out, "Distance between nearest vertices: 2.828427 units")
}

func TestFaces(t *testing.T) {
	path := writeFile(t, "broken.obj", []byte(brokenOBJ))

	out, err := execute(t, "faces", path, "--diagnostics")
	require.NoError(t, err)

	assert.Contains(t, out, "Faces (showing 2 of 2)")
	assert.Contains(t, out, "Face #0: 1 2 3")
	assert.Contains(t, out, "Face #1: 1//1 2 9")
	assert.Contains(t, out, "unresolved:")
	assert.Contains(t, out, `line 3: numeric value defaulted "x"`)
}

func TestFacesRejectsSTL(t *testing.T) {
	path := writeFile(t, "square.stl", []byte(squareSTL))

	_, err := execute(t, "faces", path)
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestFormatOverride(t *testing.T) {
	path := writeFile(t, "mesh.dat", []byte(brokenOBJ))

	out, err := execute(t, "--format", "obj", "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Format: OBJ")
	assert.Contains(t, out, "Recovered values: 1")
}

func TestEndSolidPrefixFlag(t *testing.T) {
	named := bytes.Replace([]byte(squareSTL), []byte("endsolid\n"), []byte("endsolid square\n"), 1)
	path := writeFile(t, "named.stl", named)

	out, err := execute(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Triangles: 0")

	out, err = execute(t, "--endsolid-prefix", "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Triangles: 2")
}

func TestExitCodes(t *testing.T) {
	truncated := binarySTL(t, 3, nil)

	tests := []struct {
		name string
		args func(t *testing.T) []string
		want int
	}{
		{"missing file", func(t *testing.T) []string {
			return []string{"info", filepath.Join(t.TempDir(), "missing.stl")}
		}, exitIO},
		{"truncated binary", func(t *testing.T) []string {
			return []string{"info", writeFile(t, "short.stl", truncated)}
		}, exitDecode},
		{"unknown extension", func(t *testing.T) []string {
			return []string{"info", writeFile(t, "mesh.ply", []byte("ply"))}
		}, exitUsage},
		{"unknown format flag", func(t *testing.T) []string {
			return []string{"--format", "ply", "info", writeFile(t, "a.stl", []byte(squareSTL))}
		}, exitUsage},
		{"missing argument", func(t *testing.T) []string {
			return []string{"info"}
		}, exitUsage},
		{"bad log level", func(t *testing.T) []string {
			return []string{"--log-level", "chatty", "info", writeFile(t, "a.stl", []byte(squareSTL))}
		}, exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args(t)...)
			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(err))
		})
	}
}

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitUsage, exitCode(errors.New("unknown flag: --nope")))
	assert.Equal(t, exitIO, exitCode(&mesh.Error{Kind: mesh.KindIO, Op: "read"}))
	assert.Equal(t, exitDecode, exitCode(&mesh.Error{Kind: mesh.KindInvalidData, Op: "decode ascii"}))
	assert.Equal(t, exitDecode, exitCode(&mesh.Error{Kind: mesh.KindUnexpectedEndOfASCIIStream, Op: "decode ascii"}))
	assert.Equal(t, exitUsage, exitCode(usageErrorf("bad")))
}

func TestVersionAndCompletion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gomesh dev\n", out)

	out, err = execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "gomesh")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestRadius(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("v 2 0 0\nv 0 2 0\nv -2 0 0\nv 0 -2 0\nv 0 0 4\n")
	b.WriteString("f 1 2 5\nf 2 3 5\nf 3 4 5\nf 4 1 5\n")
	path := writeFile(t, "pyramid.obj", b.Bytes())

	out, err := execute(t, "radius", path, "--axis", "z", "--at", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Vertices on plane: 4")
	assert.Contains(t, out, "Radius: 2.000000 units")
	assert.Contains(t, out, "Center: (0.000000, 0.000000, 0.000000)")

	out, err = execute(t, "radius", path, "--at", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "No circle:")

	_, err = execute(t, "radius", path, "--axis", "w")
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestNegativeCount(t *testing.T) {
	stlPath := writeFile(t, "square.stl", []byte(squareSTL))
	objPath := writeFile(t, "broken.obj", []byte(brokenOBJ))

	tests := []struct {
		command string
		path    string
	}{
		{"triangles", stlPath},
		{"edges", stlPath},
		{"faces", objPath},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			_, err := execute(t, tt.command, tt.path, "-n", "-1")
			require.Error(t, err)
			assert.Equal(t, exitUsage, exitCode(err))
		})
	}
}

func TestZeroCount(t *testing.T) {
	path := writeFile(t, "square.stl", []byte(squareSTL))

	out, err := execute(t, "edges", path, "--shortest", "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "No edges found matching the criteria.")
}

func TestEndSolidPrefixFlagOverridesConfig(t *testing.T) {
	named := bytes.Replace([]byte(squareSTL), []byte("endsolid\n"), []byte("endsolid square\n"), 1)
	path := writeFile(t, "named.stl", named)
	configPath := writeFile(t, "gomesh.yaml", []byte("stl:\n  endsolid_prefix: true\n"))

	out, err := execute(t, "--config", configPath, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Triangles: 2")

	out, err = execute(t, "--config", configPath, "--endsolid-prefix=false", "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Triangles: 0")
}

// syncBuffer is a bytes.Buffer safe for the watch goroutines
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestWatchStopsOnCancel(t *testing.T) {
	path := writeFile(t, "square.stl", []byte(squareSTL))

	var out, errOut bytes.Buffer
	err := executeContext(t, canceledContext(), &out, &errOut, "watch", path)
	require.NoError(t, err)

	assert.Contains(t, out.String(), path+": 2 faces, 6 edges")
	assert.Contains(t, errOut.String(), "stopped watching")
}

func TestWatchKeepsRunningOnInitialDecodeError(t *testing.T) {
	path := writeFile(t, "short.stl", binarySTL(t, 3, nil))

	var out, errOut bytes.Buffer
	err := executeContext(t, canceledContext(), &out, &errOut, "watch", path)
	require.NoError(t, err)

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "load failed")
	assert.Contains(t, errOut.String(), "stopped watching")
}

func TestWatchErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	err := executeContext(t, canceledContext(), &out, &errOut, "watch", filepath.Join(t.TempDir(), "missing.stl"))
	require.Error(t, err)
	assert.Equal(t, exitIO, exitCode(err))

	scad := writeFile(t, "main.scad", []byte("include <missing.scad>\n"))
	err = executeContext(t, canceledContext(), &out, &errOut, "watch", scad)
	require.Error(t, err)
	assert.Equal(t, exitIO, exitCode(err))
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := writeFile(t, "square.stl", []byte(squareSTL))
	configPath := writeFile(t, "gomesh.yaml", []byte("watch:\n  debounce: 10ms\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, errOut := &syncBuffer{}, &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- executeContext(t, ctx, out, errOut, "--config", configPath, "watch", path)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(errOut.String(), "watching for changes")
	}, 5*time.Second, 10*time.Millisecond)

	single := "solid square\nfacet normal 0 0 1\nvertex 0 0 0\nvertex 2 0 0\nvertex 2 2 0\nendsolid\n"
	require.NoError(t, os.WriteFile(path, []byte(single), 0o644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), path+": 1 faces, 3 edges")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
