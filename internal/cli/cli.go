// Package cli implements the orthonet command-line interface.
//
// Commands:
//   - layout: solve and route a figure, write the layout as JSON or YAML
//   - render: draw a figure as SVG, DOT or Graphviz SVG
//   - serve: run the HTTP session server
//   - drag: move nodes around interactively in the terminal
//
// Every command reads the optional TOML file given by --config and logs
// through charmbracelet/log; --verbose switches to debug level.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orthonet/pkg/buildinfo"
	"github.com/matzehuels/orthonet/pkg/cache"
	"github.com/matzehuels/orthonet/pkg/config"
	"github.com/matzehuels/orthonet/pkg/engine"
)

const appName = "orthonet"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          appName,
		Short:        "Orthogonal network diagram layout",
		Long:         `orthonet places the nodes of a network diagram without overlaps and routes every link as horizontal and vertical segments around them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.dragCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())
	return root
}

func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return cfg, nil
}

func (c *CLI) newEngine(cfg config.Config, opts ...engine.Option) *engine.Engine {
	return engine.New(cfg, append([]engine.Option{engine.WithLogger(c.Logger)}, opts...)...)
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(buildinfo.String())
		},
	}
}

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NullCache{}
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NullCache{}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NullCache{}
	}
	return fc
}

// cacheDir follows XDG: $XDG_CACHE_HOME/orthonet or ~/.cache/orthonet.
func cacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
