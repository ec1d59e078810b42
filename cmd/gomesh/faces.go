package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

var (
	facesCount       int
	facesDiagnostics bool
)

var facesCmd = &cobra.Command{
	Use:   "faces [file]",
	Short: "List the faces of an OBJ file",
	Long: `List OBJ faces with their vertex, texture coordinate and normal indices.
With --diagnostics the values that were recovered while decoding are listed
as well (unparsable numbers read as 0 and dropped face corners).`,
	Args: cobra.ExactArgs(1),
	RunE: runFaces,
}

func init() {
	rootCmd.AddCommand(facesCmd)

	facesCmd.Flags().IntVarP(&facesCount, "count", "n", 10, "Number of faces to display")
	facesCmd.Flags().BoolVarP(&facesDiagnostics, "diagnostics", "d", false, "Show decode diagnostics")
}

func runFaces(cmd *cobra.Command, args []string) error {
	if f, _ := loader.DetectFormat(args[0]); flagFormat == "" && f != loader.FormatOBJ {
		return usageErrorf("faces requires an OBJ file: %s", args[0])
	}

	result, err := load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if result.OBJ == nil {
		return usageErrorf("faces requires an OBJ file: %s", args[0])
	}

	doc := result.OBJ
	w := cmd.OutOrStdout()
	count, err := displayCount(cmd, facesCount)
	if err != nil {
		return err
	}
	count = min(count, len(doc.Faces))

	fmt.Fprintf(w, "Faces (showing %d of %d)\n", count, len(doc.Faces))
	fmt.Fprintln(w, "====================")
	for i, face := range doc.Faces[:count] {
		fmt.Fprintf(w, "Face #%d: %s\n", i, formatFace(face))
		if _, err := doc.ResolveFace(face); err != nil {
			fmt.Fprintf(w, "  unresolved: %v\n", err)
		}
	}

	if !facesDiagnostics {
		if len(doc.Diagnostics) > 0 {
			fmt.Fprintf(w, "\n%d diagnostics (use --diagnostics to list)\n", len(doc.Diagnostics))
		}
		return nil
	}

	fmt.Fprintf(w, "\nDiagnostics (%d)\n", len(doc.Diagnostics))
	fmt.Fprintln(w, "====================")
	for _, d := range doc.Diagnostics {
		fmt.Fprintln(w, d.String())
	}
	return nil
}

// formatFace renders a face the way it is written in OBJ (1-based v/vt/vn)
func formatFace(face mesh.Face) string {
	parts := make([]string, len(face))
	for i, fv := range face {
		vt, hasTexCoord := fv.TexCoordIndex()
		vn, hasNormal := fv.NormalIndex()

		part := fmt.Sprintf("%d", fv.Vertex+1)
		switch {
		case hasTexCoord && hasNormal:
			part += fmt.Sprintf("/%d/%d", vt+1, vn+1)
		case hasNormal:
			part += fmt.Sprintf("//%d", vn+1)
		case hasTexCoord:
			part += fmt.Sprintf("/%d", vt+1)
		}
		parts[i] = part
	}
	return strings.Join(parts, " ")
}
