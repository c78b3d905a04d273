package graph

import (
	"github.com/matzehuels/orthonet/pkg/diff"
	"github.com/matzehuels/orthonet/pkg/geom"
)

// =============================================================================
// Figure - Engine Input
// =============================================================================

// Figure is one update submitted to the engine. DataVersion is an opaque
// string or number tag for Nodes and Links.
type Figure struct {
	Nodes        []Node        `json:"nodes" yaml:"nodes" validate:"dive"`
	Links        []Link        `json:"links" yaml:"links" validate:"dive"`
	Width        float64       `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Height       float64       `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
	Margin       float64       `json:"margin,omitempty" yaml:"margin,omitempty" validate:"gte=0"`
	Padding      float64       `json:"padding,omitempty" yaml:"padding,omitempty" validate:"gte=0"`
	LinkSettings *LinkSettings `json:"linkSettings,omitempty" yaml:"linkSettings,omitempty"`
	DataVersion  any           `json:"dataVersion,omitempty" yaml:"dataVersion,omitempty"`
}

// LinkSettings controls route separation.
type LinkSettings struct {
	Nudge float64 `json:"nudge" yaml:"nudge" validate:"gte=0"`
}

// Node is an input node. Position optionally seeds the solver with a
// centre for nodes the engine has not placed yet.
type Node struct {
	ID       string      `json:"id" yaml:"id" validate:"required"`
	Label    string      `json:"label,omitempty" yaml:"label,omitempty"`
	Width    float64     `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Height   float64     `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
	Position *geom.Point `json:"position,omitempty" yaml:"position,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Link is a directed edge between two node ids.
type Link struct {
	Source string `json:"source" yaml:"source" validate:"required"`
	Target string `json:"target" yaml:"target" validate:"required"`
}

// Data is the part of a figure covered by DataVersion.
type Data struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Snapshot keys.
const (
	KeyWidth        = "width"
	KeyHeight       = "height"
	KeyMargin       = "margin"
	KeyPadding      = "padding"
	KeyLinkSettings = "linkSettings"
	KeyData         = "data"
	KeyDataVersion  = "dataVersion"
)

// Snapshot flattens f for change detection. Call it on a figure whose
// defaults have been filled in.
func (f Figure) Snapshot() diff.Snapshot {
	s := diff.Snapshot{
		KeyWidth:       f.Width,
		KeyHeight:      f.Height,
		KeyMargin:      f.Margin,
		KeyPadding:     f.Padding,
		KeyData:        Data{Nodes: f.Nodes, Links: f.Links},
		KeyDataVersion: f.DataVersion,
	}
	if f.LinkSettings != nil {
		s[KeyLinkSettings] = *f.LinkSettings
	}
	return s
}

// Nudge returns the configured nudge, or def when no link settings are set.
func (f Figure) Nudge(def float64) float64 {
	if f.LinkSettings == nil {
		return def
	}
	return f.LinkSettings.Nudge
}
