package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/graph"
	"github.com/matzehuels/orthonet/pkg/render/nodelink"
	"github.com/matzehuels/orthonet/pkg/render/sink"
)

// Render formats.
const (
	FormatSVG      = "svg"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
)

var renderFormats = []string{FormatSVG, FormatDOT, FormatGraphviz}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		free    bool
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "render [figure.json|figure.yaml]",
		Short: "Render a figure as SVG or Graphviz",
		Long: `Render a figure.

Formats (comma separated):
  svg       routed diagram drawn by orthonet
  dot       Graphviz DOT source with nodes pinned at their positions
  graphviz  the DOT source rendered to SVG by Graphviz

With --free, DOT output leaves node placement to Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], output, parseFormats(formats), free, noCache)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path prefix (default: input without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", FormatSVG, "output formats: svg, dot, graphviz")
	cmd.Flags().BoolVar(&free, "free", false, "let Graphviz place nodes in DOT output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}

func parseFormats(s string) []string {
	if s == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (c *CLI) runRender(cmd *cobra.Command, input, output string, formats []string, free, noCache bool) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, renderFormats...); err != nil {
			return err
		}
	}
	l, cfg, cached, err := c.computeLayout(cmd.Context(), input, noCache)
	if err != nil {
		return err
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input))
	}

	out := cmd.OutOrStdout()
	var written []string
	for _, f := range formats {
		data, ext, err := c.renderFormat(cmd, l, f, cfg.Labels.FontSize, free)
		if err != nil {
			return fmt.Errorf("render %s: %w", f, err)
		}
		path := output + ext
		if err := writeFile(path, data); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess(out, "Rendered %s", input)
	printStats(out, l, cached)
	for _, p := range written {
		printFile(out, p)
	}
	return nil
}

func (c *CLI) renderFormat(cmd *cobra.Command, l *graph.Layout, format string, fontSize float64, free bool) ([]byte, string, error) {
	opts := nodelink.Options{Pinned: !free}
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, sink.WithFontSize(fontSize), sink.WithoutGhosts()), ".svg", nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, opts)), ".dot", nil
	case FormatGraphviz:
		spin := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Running Graphviz...")
		spin.Start()
		data, err := nodelink.RenderSVG(nodelink.ToDOT(l, opts), opts)
		spin.Stop()
		return data, ".graphviz.svg", err
	}
	return nil, "", errors.New(errors.ErrCodeUnsupported, "format %q", format)
}
