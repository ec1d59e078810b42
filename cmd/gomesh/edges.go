package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gomesh/pkg/analysis"
)

var (
	edgesCount     int
	edgesLongest   bool
	edgesShortest  bool
	edgesMinLength float64
	edgesMaxLength float64
)

var edgesCmd = &cobra.Command{
	Use:   "edges [file]",
	Short: "Analyze and measure edges in a mesh file",
	Long:  "Find and measure edges, including longest, shortest, or edges within a specific length range.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)

	edgesCmd.Flags().IntVarP(&edgesCount, "count", "n", 10, "Number of edges to display")
	edgesCmd.Flags().BoolVarP(&edgesLongest, "longest", "l", false, "Show longest edges")
	edgesCmd.Flags().BoolVarP(&edgesShortest, "shortest", "s", false, "Show shortest edges")
	edgesCmd.Flags().Float64Var(&edgesMinLength, "min", 0.0, "Minimum edge length filter")
	edgesCmd.Flags().Float64Var(&edgesMaxLength, "max", 0.0, "Maximum edge length filter")
	edgesCmd.MarkFlagsMutuallyExclusive("longest", "shortest")
}

func runEdges(cmd *cobra.Command, args []string) error {
	if edgesMaxLength < 0 || edgesMinLength < 0 || (edgesMaxLength > 0 && edgesMinLength > edgesMaxLength) {
		return usageErrorf("invalid length range: --min %g --max %g", edgesMinLength, edgesMaxLength)
	}

	loaded, err := load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	result := analyze(loaded)
	count, err := displayCount(cmd, edgesCount)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	var edges []analysis.EdgeInfo
	var title string

	switch {
	case edgesLongest:
		edges = analysis.FindLongestEdges(result, count)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	case edgesShortest:
		edges = analysis.FindShortestEdges(result, count)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	case edgesMaxLength > 0:
		edges = analysis.FindEdgesByLength(result, edgesMinLength, edgesMaxLength)
		title = fmt.Sprintf("Edges between %.6f and %.6f units (found %d)", edgesMinLength, edgesMaxLength, len(edges))
		if len(edges) > count {
			edges = edges[:count]
		}
	default:
		edges = result.AllEdges
		title = fmt.Sprintf("All Edges (showing first %d of %d)", min(count, len(edges)), len(edges))
		if len(edges) > count {
			edges = edges[:count]
		}
	}

	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "Total edges in model: %d\n", result.EdgeCount)
	fmt.Fprintf(w, "Min edge length: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(w, "Max edge length: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(w, "Avg edge length: %.6f units\n\n", result.AvgEdgeLength)

	if len(edges) == 0 {
		fmt.Fprintln(w, "No edges found matching the criteria.")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-6s %-35s %-35s %-15s\n", "Index", "Face", "Start", "End", "Length")
	fmt.Fprintln(w, "------------------------------------------------------------------------------------------------------------------")
	for i, edge := range edges {
		fmt.Fprintf(w, "%-6d %-6d %-35s %-35s %-15.6f\n",
			i+1,
			edge.FaceID,
			analysis.FormatVector(edge.Start),
			analysis.FormatVector(edge.End),
			edge.Length)
	}
	return nil
}
