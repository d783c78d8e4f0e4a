package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/philipparndt/alphashape/pkg/alphashape"
	"github.com/philipparndt/alphashape/pkg/analysis"
	"github.com/philipparndt/alphashape/pkg/mesh"
	"github.com/spf13/cobra"
)

func newInfoCmd(c *cli) *cobra.Command {
	var (
		offPath   string
		longest   int
		shortest  int
		minLength float64
		maxLength float64
		facets    int
	)
	cmd := &cobra.Command{
		Use:   "info [points]",
		Short: "Display the alpha shape of a point cloud",
		Long:  "Show triangulation size, critical alphas, solid components, boundary measurements and edge statistics at the configured alpha.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { c.metrics.Run("info", err) }()

			shape, err := c.buildShape(args[0], c.logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printInfo(out, args[0], shape)

			result := analysis.AnalyzeMesh(shape.Mesh())
			if longest > 0 {
				printEdges(out, fmt.Sprintf("Top %d Longest Edges", longest), analysis.FindLongestEdges(result, longest))
			}
			if shortest > 0 {
				printEdges(out, fmt.Sprintf("Top %d Shortest Edges", shortest), analysis.FindShortestEdges(result, shortest))
			}
			if maxLength > 0 {
				edges := analysis.FindEdgesByLength(result, minLength, maxLength)
				printEdges(out, fmt.Sprintf("Edges between %.6f and %.6f units (found %d)", minLength, maxLength, len(edges)), edges)
			}
			if facets > 0 {
				printFacets(out, shape.Mesh(), facets)
			}
			if offPath != "" {
				return shape.WriteOFF(offPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&offPath, "off", "", "Write the boundary to this OFF file")
	cmd.Flags().IntVarP(&longest, "longest", "l", 0, "Show the N longest boundary edges")
	cmd.Flags().IntVarP(&shortest, "shortest", "s", 0, "Show the N shortest boundary edges")
	cmd.Flags().Float64Var(&minLength, "min-length", 0, "Minimum length for the edge range listing")
	cmd.Flags().Float64Var(&maxLength, "max-length", 0, "Show boundary edges up to this length")
	cmd.Flags().IntVarP(&facets, "facets", "f", 0, "Show the N largest boundary facets")
	return cmd
}

func printInfo(out io.Writer, filename string, shape *alphashape.Shape) {
	filt := shape.Filtration()
	result := analysis.AnalyzeMesh(shape.Mesh())

	fmt.Fprintln(out, "Alpha Shape Information")
	fmt.Fprintln(out, "=======================")
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Triangulation:")
	fmt.Fprintf(out, "  Points: %d\n", filt.Triangulation().NumVertices())
	fmt.Fprintf(out, "  Finite cells: %d\n", filt.Triangulation().NumFiniteCells())
	fmt.Fprintf(out, "  Alpha values: %d\n", filt.Len())
	fmt.Fprintf(out, "  All-points alpha: %.6f\n", shape.CriticalAlphaByName("all-points"))
	fmt.Fprintf(out, "  One-region alpha: %.6f\n\n", shape.CriticalAlphaByName("one-region"))

	fmt.Fprintln(out, "Shape:")
	fmt.Fprintf(out, "  Alpha: %.6f\n", shape.Alpha())
	fmt.Fprintf(out, "  Solid components: %d\n", shape.NumSolidComponents())
	fmt.Fprintf(out, "  Boundary facets: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Boundary vertices: %d\n", result.VertexCount)
	fmt.Fprintf(out, "  Closed: %t\n", result.Closed)
	fmt.Fprintf(out, "  Surface area: %s\n", analysis.FormatMeasurement(result.SurfaceArea, "square units"))
	if result.Closed {
		fmt.Fprintf(out, "  Volume: %s\n\n", analysis.FormatMeasurement(result.Volume, "cubic units"))
	} else {
		fmt.Fprintf(out, "  Volume: n/a (boundary is not closed)\n\n")
	}

	if result.TriangleCount == 0 {
		return
	}
	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Count: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n", result.AvgEdgeLength)
}

func printEdges(out io.Writer, title string, edges []analysis.EdgeInfo) {
	fmt.Fprintf(out, "\n%s\n", title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "%-6s %-35s %-35s %-15s\n", "Index", "Start", "End", "Length")
	for i, edge := range edges {
		fmt.Fprintf(out, "%-6d %-35s %-35s %.6f\n", i+1, analysis.FormatVector(edge.Start), analysis.FormatVector(edge.End), edge.Length)
	}
}

type facetInfo struct {
	Index     int
	Area      float64
	Perimeter float64
	Vertices  string
}

// printFacets lists the count largest boundary facets by area
func printFacets(out io.Writer, m *mesh.Mesh, count int) {
	facets := make([]facetInfo, 0, m.NumFaces())
	for i := range m.Faces {
		tri := m.Triangle(i)
		facets = append(facets, facetInfo{
			Index:     i,
			Area:      tri.Area(),
			Perimeter: tri.Perimeter(),
			Vertices: fmt.Sprintf("%s, %s, %s",
				analysis.FormatVector(tri.A),
				analysis.FormatVector(tri.B),
				analysis.FormatVector(tri.C)),
		})
	}
	sort.SliceStable(facets, func(i, j int) bool {
		return facets[i].Area > facets[j].Area
	})
	if count > len(facets) {
		count = len(facets)
	}

	fmt.Fprintf(out, "\nTop %d Largest Facets\n", count)
	fmt.Fprintln(out, "====================")
	for _, f := range facets[:count] {
		fmt.Fprintf(out, "Facet #%d:\n", f.Index)
		fmt.Fprintf(out, "  Area: %.6f square units\n", f.Area)
		fmt.Fprintf(out, "  Perimeter: %.6f units\n", f.Perimeter)
		fmt.Fprintf(out, "  Vertices: %s\n", f.Vertices)
	}
}
