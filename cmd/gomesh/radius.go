package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/geometry"
)

var (
	radiusAxis      string
	radiusAt        float64
	radiusTolerance float64
)

var radiusCmd = &cobra.Command{
	Use:   "radius [file]",
	Short: "Fit a circle to the vertices on an axis aligned plane",
	Long: `Collect the mesh vertices lying on the plane <axis> = <at> and fit a circle
through them, e.g. to measure a hole or a cylinder cross section.`,
	Args: cobra.ExactArgs(1),
	RunE: runRadius,
}

func init() {
	rootCmd.AddCommand(radiusCmd)

	radiusCmd.Flags().StringVarP(&radiusAxis, "axis", "a", "z", "Plane normal axis: x, y or z")
	radiusCmd.Flags().Float64Var(&radiusAt, "at", 0.0, "Plane coordinate along the axis")
	radiusCmd.Flags().Float64Var(&radiusTolerance, "tolerance", 1e-4, "Maximum distance of a vertex from the plane")
}

func runRadius(cmd *cobra.Command, args []string) error {
	axis, err := geometry.ParseAxis(radiusAxis)
	if err != nil {
		return usageErrorf("%v", err)
	}
	if radiusTolerance < 0 {
		return usageErrorf("tolerance must not be negative: %g", radiusTolerance)
	}

	loaded, err := load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	result := analyze(loaded)
	w := cmd.OutOrStdout()

	points := analysis.VerticesOnPlane(result, axis, radiusAt, radiusTolerance)

	fmt.Fprintln(w, "Circle Fit")
	fmt.Fprintln(w, "==========")
	fmt.Fprintf(w, "Plane: %s = %.6f (tolerance %g)\n", axis, radiusAt, radiusTolerance)
	fmt.Fprintf(w, "Vertices on plane: %d\n\n", len(points))

	fit, err := geometry.FitCircle(points, axis)
	if err != nil {
		if errors.Is(err, geometry.ErrCollinear) || len(points) < 3 {
			fmt.Fprintf(w, "No circle: %v\n", err)
			return nil
		}
		return err
	}

	fmt.Fprintf(w, "Center: %s\n", analysis.FormatVector(fit.Center))
	fmt.Fprintf(w, "Radius: %s\n", analysis.FormatMeasurement(fit.Radius, ""))
	fmt.Fprintf(w, "Diameter: %s\n", analysis.FormatMeasurement(2*fit.Radius, ""))
	fmt.Fprintf(w, "Fit deviation: %.6f\n", fit.StdDev)
	return nil
}
