// Package config holds the engine configuration: canvas defaults, routing
// and path styling, and solver tuning.
//
// Configuration is an explicit value passed to the engine constructor.
// [Default] returns the built-in defaults; [Load] overlays a TOML file on top
// of them:
//
//	width = 1600
//	height = 900
//	margin = 20
//
//	[links]
//	nudge = 6
//
//	[solver]
//	constrained_iterations = 200
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/router"
	"github.com/matzehuels/orthonet/pkg/solver"
)

// Canvas and label defaults.
const (
	DefaultWidth   = 2000
	DefaultHeight  = 700
	DefaultPadding = solver.DefaultPadding
	DefaultMargin  = 20
	DefaultNudge   = 4

	// Extra space around a label when a node has no explicit size.
	DefaultLabelPaddingX = 50
	DefaultLabelPaddingY = 50
	DefaultFontSize      = 12
)

// Config is the complete engine configuration.
type Config struct {
	Width   float64 `toml:"width" json:"width" validate:"gt=0"`
	Height  float64 `toml:"height" json:"height" validate:"gt=0"`
	Padding float64 `toml:"padding" json:"padding" validate:"gte=0"`
	Margin  float64 `toml:"margin" json:"margin" validate:"gte=0"`

	Labels Labels       `toml:"labels" json:"labels"`
	Links  Links        `toml:"links" json:"links"`
	Solver SolverConfig `toml:"solver" json:"solver"`
}

// Labels controls label-derived node sizes.
type Labels struct {
	FontSize float64 `toml:"font_size" json:"fontSize" validate:"gt=0"`
	PaddingX float64 `toml:"padding_x" json:"paddingX" validate:"gte=0"`
	PaddingY float64 `toml:"padding_y" json:"paddingY" validate:"gte=0"`
}

// Links controls route separation and path styling.
type Links struct {
	Nudge        float64 `toml:"nudge" json:"nudge" validate:"gte=0"`
	CornerRadius float64 `toml:"corner_radius" json:"cornerRadius" validate:"gte=0"`
	ArrowWidth   float64 `toml:"arrow_width" json:"arrowWidth" validate:"gte=0"`
	ArrowHeight  float64 `toml:"arrow_height" json:"arrowHeight" validate:"gte=0"`
}

// SolverConfig tunes the layout solver.
type SolverConfig struct {
	LinkDistance            float64 `toml:"link_distance" json:"linkDistance" validate:"gt=0"`
	SymmetricDiffWeight     float64 `toml:"symmetric_diff_weight" json:"symmetricDiffWeight" validate:"gte=0"`
	UnconstrainedIterations int     `toml:"unconstrained_iterations" json:"unconstrainedIterations" validate:"gte=0"`
	ConstrainedIterations   int     `toml:"constrained_iterations" json:"constrainedIterations" validate:"gte=0"`
	GridSnapIterations      int     `toml:"grid_snap_iterations" json:"gridSnapIterations" validate:"gte=0"`
	ConvergenceThreshold    float64 `toml:"convergence_threshold" json:"convergenceThreshold" validate:"gt=0"`
	Seed                    uint64  `toml:"seed" json:"seed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Padding: DefaultPadding,
		Margin:  DefaultMargin,
		Labels: Labels{
			FontSize: DefaultFontSize,
			PaddingX: DefaultLabelPaddingX,
			PaddingY: DefaultLabelPaddingY,
		},
		Links: Links{
			Nudge:        DefaultNudge,
			CornerRadius: router.DefaultCornerRadius,
			ArrowWidth:   router.DefaultArrowWidth,
			ArrowHeight:  router.DefaultArrowHeight,
		},
		Solver: SolverConfig{
			LinkDistance:            solver.DefaultLinkDistance,
			SymmetricDiffWeight:     solver.DefaultSymmetricDiffWeight,
			UnconstrainedIterations: solver.DefaultUnconstrainedIterations,
			ConstrainedIterations:   solver.DefaultConstrainedIterations,
			GridSnapIterations:      solver.DefaultGridSnapIterations,
			ConvergenceThreshold:    solver.DefaultConvergenceThreshold,
			Seed:                    solver.DefaultSeed,
		},
	}
}

// Load reads a TOML file over the defaults and validates the result. An
// empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML data over base and validates the result.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return base, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	return nil
}

// PathStyle returns the router path style.
func (c Config) PathStyle() router.PathStyle {
	return router.PathStyle{
		CornerRadius: c.Links.CornerRadius,
		ArrowWidth:   c.Links.ArrowWidth,
		ArrowHeight:  c.Links.ArrowHeight,
	}
}

// SolverOptions returns solver options for the given padding.
func (c Config) SolverOptions(padding float64) solver.Options {
	s := c.Solver
	opts := solver.Options{
		LinkDistance:            s.LinkDistance,
		SymmetricDiffWeight:     s.SymmetricDiffWeight,
		Padding:                 padding,
		UnconstrainedIterations: s.UnconstrainedIterations,
		ConstrainedIterations:   s.ConstrainedIterations,
		GridSnapIterations:      s.GridSnapIterations,
		ConvergenceThreshold:    s.ConvergenceThreshold,
		Seed:                    s.Seed,
	}
	// Zero means "off" in the config file, while the solver reads zero as
	// "use the default".
	if opts.UnconstrainedIterations == 0 {
		opts.UnconstrainedIterations = -1
	}
	if opts.ConstrainedIterations == 0 {
		opts.ConstrainedIterations = -1
	}
	return opts
}
