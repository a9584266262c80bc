package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/derekdreery/gansner/pkg/layered"
)

// position is one laid-out node in JSON output.
type position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func newLayoutCmd() *cobra.Command {
	var (
		output string
		format string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.toml]",
		Short: "Compute node positions for a graph description",
		Long: `Compute node positions for a graph description.

The layout command reads a TOML graph description (nodes with sizes, directed
edges, optional rank hints), assigns every node to a layer, and prints the
resulting positions. Input graphs may contain cycles; they are broken for
ranking and the description is never modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, args[0], output, format, debug)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table (default), json")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable layout invariant checks and phase logging")

	return cmd
}

func runLayout(cmd *cobra.Command, input, output, format string, debug bool) error {
	logger := loggerFromContext(cmd.Context())
	start := time.Now()

	desc, err := loadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	g, err := buildGraph(desc)
	if err != nil {
		return fmt.Errorf("build graph %s: %w", input, err)
	}
	logger.Debug("graph loaded", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	if debug {
		g.SetLogger(logger)
		err = g.LayoutDebug()
	} else {
		err = g.Layout()
	}
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	positions, err := collectPositions(g)
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		err = writeJSON(w, positions)
	case "table":
		err = writeTable(w, positions)
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Infof("Laid out %d nodes (%s)", len(positions), time.Since(start).Round(time.Millisecond))
	return nil
}

func collectPositions(g *layered.Graph) ([]position, error) {
	seq, err := g.Results()
	if err != nil {
		return nil, err
	}
	var positions []position
	for payload, pos := range seq {
		id, _ := payload.(string)
		positions = append(positions, position{ID: id, X: pos.X, Y: pos.Y})
	}
	return positions, nil
}

func writeJSON(w io.Writer, positions []position) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(positions)
}

func writeTable(w io.Writer, positions []position) error {
	if len(positions) == 0 {
		_, err := fmt.Fprintln(w, styleDim.Render("(empty graph)"))
		return err
	}
	width := len("node")
	for _, p := range positions {
		if len(p.ID) > width {
			width = len(p.ID)
		}
	}
	// Pad through the styles so column widths count visible cells, not the
	// escape bytes a color-capable terminal sees.
	const numWidth = 8
	var (
		headName = styleHeader.Width(width)
		headNum  = styleHeader.Width(numWidth).Align(lipgloss.Right)
		name     = styleValue.Width(width)
		num      = styleNumber.Width(numWidth).Align(lipgloss.Right)
	)
	if _, err := fmt.Fprintf(w, "%s  %s  %s\n",
		headName.Render("node"), headNum.Render("x"), headNum.Render("y")); err != nil {
		return err
	}
	for _, p := range positions {
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n",
			name.Render(p.ID),
			num.Render(fmt.Sprintf("%g", p.X)),
			num.Render(fmt.Sprintf("%g", p.Y))); err != nil {
			return err
		}
	}
	return nil
}
