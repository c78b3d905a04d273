package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orthonet/pkg/cache"
	"github.com/matzehuels/orthonet/pkg/config"
	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/graph"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		format  string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "layout [figure.json|figure.yaml]",
		Short: "Place and route a figure",
		Long: `Place and route a figure.

The figure lists nodes (with optional sizes and positions) and links. Nodes
with positions are used as the starting point; the rest are placed by the
solver. The layout holds node bounds, routed waypoints and SVG path strings.

Use -o - to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output, format, noCache)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", graph.FormatJSON, "output format: json, yaml")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input, output, format string, noCache bool) error {
	if err := errors.ValidateFormat(format, graph.FormatJSON, graph.FormatYAML); err != nil {
		return err
	}
	l, _, cached, err := c.computeLayout(cmd.Context(), input, noCache)
	if err != nil {
		return err
	}

	if output == "-" {
		if format == graph.FormatYAML {
			return graph.WriteLayoutYAML(cmd.OutOrStdout(), l)
		}
		return graph.WriteLayout(cmd.OutOrStdout(), l)
	}
	if output == "" {
		output = derivePath(input, "layout."+format)
	}
	if err := graph.WriteLayoutFile(output, l); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	out := cmd.OutOrStdout()
	printSuccess(out, "Layout written")
	printStats(out, l, cached)
	printFile(out, output)
	return nil
}

// computeLayout reads a figure and runs it through a short-lived engine,
// going through the layout cache unless noCache is set.
func (c *CLI) computeLayout(ctx context.Context, input string, noCache bool) (*graph.Layout, config.Config, bool, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cfg, false, err
	}
	fig, err := graph.ReadFigureFile(input)
	if err != nil {
		return nil, cfg, false, err
	}

	store := newCache(noCache)
	defer store.Close()
	key := cache.LayoutKey(fig, cfg)
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		if l, err := graph.ReadLayout(bytes.NewReader(data)); err == nil {
			c.Logger.Debug("layout cache hit", "key", key)
			return l, cfg, true, nil
		}
	}

	e := c.newEngine(cfg)
	defer e.Close()

	prog := newProgress(c.Logger)
	l, err := e.Update(ctx, *fig)
	if err != nil {
		return nil, cfg, false, err
	}
	prog.done(fmt.Sprintf("Laid out %d nodes, routed %d links", len(l.Nodes), len(l.Routes)))

	var buf bytes.Buffer
	if err := graph.WriteLayout(&buf, l); err == nil {
		if err := store.Set(ctx, key, buf.Bytes(), cache.DefaultTTL); err != nil {
			c.Logger.Warn("layout cache write failed", "error", err)
		}
	}
	return l, cfg, false, nil
}

// derivePath maps dir/name.json to dir/name.<suffix>.
func derivePath(input, suffix string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + suffix
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
