package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gomesh/pkg/analysis"
)

var (
	triCount    int
	triLargest  bool
	triSmallest bool
)

var trianglesCmd = &cobra.Command{
	Use:   "triangles [file]",
	Short: "Analyze triangles and faces in a mesh file",
	Long:  "Display information about triangles (or OBJ polygons) including area, perimeter, and vertex positions.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTriangles,
}

func init() {
	rootCmd.AddCommand(trianglesCmd)

	trianglesCmd.Flags().IntVarP(&triCount, "count", "n", 10, "Number of triangles to display")
	trianglesCmd.Flags().BoolVarP(&triLargest, "largest", "l", false, "Show largest triangles by area")
	trianglesCmd.Flags().BoolVarP(&triSmallest, "smallest", "s", false, "Show smallest triangles by area")
	trianglesCmd.MarkFlagsMutuallyExclusive("largest", "smallest")
}

func runTriangles(cmd *cobra.Command, args []string) error {
	result, err := load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	m := analyze(result)
	w := cmd.OutOrStdout()
	count, err := displayCount(cmd, triCount)
	if err != nil {
		return err
	}

	faces := m.Faces
	var title string
	switch {
	case triLargest:
		faces = analysis.SortFacesByArea(m, true)
		title = fmt.Sprintf("Top %d Largest Triangles", count)
	case triSmallest:
		faces = analysis.SortFacesByArea(m, false)
		title = fmt.Sprintf("Top %d Smallest Triangles", count)
	default:
		title = fmt.Sprintf("First %d Triangles", count)
	}

	minArea := math.MaxFloat64
	maxArea := 0.0
	for _, f := range m.Faces {
		minArea = math.Min(minArea, f.Area)
		maxArea = math.Max(maxArea, f.Area)
	}
	if len(m.Faces) == 0 {
		minArea = 0
	}

	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "Total triangles: %d\n", len(m.Faces))
	fmt.Fprintf(w, "Total surface area: %.6f square units\n", m.SurfaceArea)
	fmt.Fprintf(w, "Min triangle area: %.6f square units\n", minArea)
	fmt.Fprintf(w, "Max triangle area: %.6f square units\n", maxArea)
	if len(m.Faces) > 0 {
		fmt.Fprintf(w, "Avg triangle area: %.6f square units\n", m.SurfaceArea/float64(len(m.Faces)))
	}
	fmt.Fprintln(w)

	if count > len(faces) {
		count = len(faces)
	}
	for _, f := range faces[:count] {
		corners := make([]string, len(f.Corners))
		for i, c := range f.Corners {
			corners[i] = analysis.FormatVector(c)
		}
		fmt.Fprintf(w, "Triangle #%d:\n", f.Index)
		fmt.Fprintf(w, "  Area: %.6f square units\n", f.Area)
		fmt.Fprintf(w, "  Perimeter: %.6f units\n", f.Perimeter)
		fmt.Fprintf(w, "  Vertices: %s\n\n", strings.Join(corners, ", "))
	}
	return nil
}
