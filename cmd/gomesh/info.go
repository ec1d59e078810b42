package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/philipparndt/gomesh/pkg/analysis"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about a mesh file",
	Long:  "Show comprehensive information including format, dimensions, face count, surface area, and edge statistics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	result, err := load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	printInfo(cmd.OutOrStdout(), result, analyze(result))
	return nil
}

// analyze measures whichever document the result holds
func analyze(result *loader.Result) *analysis.MeasurementResult {
	if result.OBJ != nil {
		return analysis.AnalyzeOBJ(result.OBJ)
	}
	return analysis.AnalyzeSTL(result.STL)
}

func printInfo(w io.Writer, result *loader.Result, m *analysis.MeasurementResult) {
	fmt.Fprintln(w, "Mesh File Information")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "File: %s\n", result.Path)

	size := humanize.Bytes(uint64(result.Size))
	if result.Compressed {
		size += " (xz compressed on disk)"
	}

	switch {
	case result.STL != nil:
		fmt.Fprintf(w, "Format: STL (%s)\n", result.STL.Encoding)
		if result.STL.Name != "" {
			fmt.Fprintf(w, "Name: %s\n", result.STL.Name)
		}
	case result.OBJ != nil:
		fmt.Fprintln(w, "Format: OBJ")
	}
	fmt.Fprintf(w, "Size: %s\n", size)
	fmt.Fprintf(w, "BLAKE3: %s\n\n", result.Digest)

	fmt.Fprintln(w, "Model Statistics:")
	if result.STL != nil {
		fmt.Fprintf(w, "  Triangles: %s\n", humanize.Comma(int64(m.FaceCount)))
		if len(result.STL.Normals) > 0 || len(result.STL.Vertices) > 0 {
			fmt.Fprintf(w, "  Normal declarations: %d\n", len(result.STL.Normals))
			fmt.Fprintf(w, "  Vertex declarations: %d\n", len(result.STL.Vertices))
		}
	} else {
		doc := result.OBJ
		fmt.Fprintf(w, "  Vertices: %s\n", humanize.Comma(int64(len(doc.Vertices))))
		fmt.Fprintf(w, "  Normals: %s\n", humanize.Comma(int64(len(doc.Normals))))
		fmt.Fprintf(w, "  Texture coordinates: %s\n", humanize.Comma(int64(len(doc.TexCoords))))
		fmt.Fprintf(w, "  Faces: %s\n", humanize.Comma(int64(m.FaceCount)))
		if len(doc.Diagnostics) > 0 {
			fmt.Fprintf(w, "  Recovered values: %d (see 'gomesh faces')\n", len(doc.Diagnostics))
		}
		if m.UnresolvedCorners > 0 {
			fmt.Fprintf(w, "  Unresolved face corners: %d\n", m.UnresolvedCorners)
		}
	}
	fmt.Fprintf(w, "  Edges: %d\n", m.EdgeCount)
	fmt.Fprintf(w, "  Surface Area: %.6f square units\n\n", m.SurfaceArea)

	if m.BoundingBox.IsEmpty() {
		fmt.Fprintln(w, "Bounding Box: empty")
		return
	}

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", analysis.FormatVector(m.BoundingBox.Min))
	fmt.Fprintf(w, "  Max: %s\n", analysis.FormatVector(m.BoundingBox.Max))
	fmt.Fprintf(w, "  Center: %s\n\n", analysis.FormatVector(m.BoundingBox.Center()))

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width (X): %.6f units\n", m.Dimensions.X)
	fmt.Fprintf(w, "  Depth (Y): %.6f units\n", m.Dimensions.Y)
	fmt.Fprintf(w, "  Height (Z): %.6f units\n", m.Dimensions.Z)
	fmt.Fprintf(w, "  Diagonal: %.6f units\n", m.BoundingBox.Diagonal())
	fmt.Fprintf(w, "  Volume: %.6f cubic units\n\n", m.Volume)

	fmt.Fprintln(w, "Edge Lengths:")
	fmt.Fprintf(w, "  Minimum: %.6f units\n", m.MinEdgeLength)
	fmt.Fprintf(w, "  Maximum: %.6f units\n", m.MaxEdgeLength)
	fmt.Fprintf(w, "  Average: %.6f units\n", m.AvgEdgeLength)
}
