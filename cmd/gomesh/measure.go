package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/geometry"
)

var (
	point1X, point1Y, point1Z float64
	point2X, point2Y, point2Z float64
)

var measureCmd = &cobra.Command{
	Use:   "measure [file]",
	Short: "Measure distance between two points",
	Long: `Measure the straight-line distance between two 3D points and between the
mesh vertices nearest to them.`,
	Args: cobra.ExactArgs(1),
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().Float64Var(&point1X, "x1", 0.0, "X coordinate of first point")
	measureCmd.Flags().Float64Var(&point1Y, "y1", 0.0, "Y coordinate of first point")
	measureCmd.Flags().Float64Var(&point1Z, "z1", 0.0, "Z coordinate of first point")
	measureCmd.Flags().Float64Var(&point2X, "x2", 0.0, "X coordinate of second point")
	measureCmd.Flags().Float64Var(&point2Y, "y2", 0.0, "Y coordinate of second point")
	measureCmd.Flags().Float64Var(&point2Z, "z2", 0.0, "Z coordinate of second point")

	measureCmd.MarkFlagsRequiredTogether("x1", "y1", "z1", "x2", "y2", "z2")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	p1 := geometry.NewVector3(point1X, point1Y, point1Z)
	p2 := geometry.NewVector3(point2X, point2Y, point2Z)

	loaded, err := load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	result := analyze(loaded)
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Point-to-Point Measurement")
	fmt.Fprintln(w, "==========================")

	nearest1, dist1 := analysis.FindNearestVertex(result, p1)
	nearest2, dist2 := analysis.FindNearestVertex(result, p2)
	hasVertices := !math.IsInf(dist1, 1)

	fmt.Fprintf(w, "\nPoint 1: %s\n", analysis.FormatVector(p1))
	if hasVertices {
		fmt.Fprintf(w, "  Nearest vertex: %s (distance: %.6f)\n", analysis.FormatVector(nearest1), dist1)
	}

	fmt.Fprintf(w, "\nPoint 2: %s\n", analysis.FormatVector(p2))
	if hasVertices {
		fmt.Fprintf(w, "  Nearest vertex: %s (distance: %.6f)\n", analysis.FormatVector(nearest2), dist2)
	}

	fmt.Fprintf(w, "\nDirect distance: %s\n", analysis.FormatMeasurement(p1.Distance(p2), ""))
	if hasVertices {
		fmt.Fprintf(w, "Distance between nearest vertices: %s\n", analysis.FormatMeasurement(nearest1.Distance(nearest2), ""))
	}
	return nil
}
