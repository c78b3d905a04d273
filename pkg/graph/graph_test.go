package graph

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/orthonet/pkg/diff"
	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/geom"
)

const figureJSON = `{
  "nodes": [{"id": "a"}, {"id": "b", "label": "Bravo", "width": 90}],
  "links": [{"source": "a", "target": "b"}],
  "width": 600, "height": 500, "margin": 20,
  "linkSettings": {"nudge": 6},
  "dataVersion": 2
}`

const figureYAML = `
nodes:
  - id: a
  - id: b
    label: Bravo
    width: 90
links:
  - source: a
    target: b
width: 600
height: 500
margin: 20
linkSettings:
  nudge: 6
dataVersion: 2
`

func TestReadFigure(t *testing.T) {
	for _, tc := range []struct{ format, data string }{
		{FormatJSON, figureJSON},
		{FormatYAML, figureYAML},
	} {
		t.Run(tc.format, func(t *testing.T) {
			f, err := ReadFigure(strings.NewReader(tc.data), tc.format)
			if err != nil {
				t.Fatalf("ReadFigure() error = %v", err)
			}
			if len(f.Nodes) != 2 || len(f.Links) != 1 {
				t.Fatalf("got %d nodes, %d links", len(f.Nodes), len(f.Links))
			}
			if f.Nodes[1].DisplayLabel() != "Bravo" || f.Nodes[0].DisplayLabel() != "a" {
				t.Errorf("labels = %q, %q", f.Nodes[0].DisplayLabel(), f.Nodes[1].DisplayLabel())
			}
			if f.Nudge(4) != 6 || fmt.Sprint(f.DataVersion) != "2" || f.Width != 600 {
				t.Errorf("figure = %+v", f)
			}
		})
	}
}

func TestReadFigureStringVersion(t *testing.T) {
	for _, tc := range []struct{ format, data string }{
		{FormatJSON, `{"nodes": [{"id": "a"}], "dataVersion": "rev-7"}`},
		{FormatYAML, "nodes:\n  - id: a\ndataVersion: rev-7\n"},
	} {
		t.Run(tc.format, func(t *testing.T) {
			f, err := ReadFigure(strings.NewReader(tc.data), tc.format)
			if err != nil {
				t.Fatalf("ReadFigure() error = %v", err)
			}
			if f.DataVersion != "rev-7" {
				t.Errorf("DataVersion = %#v", f.DataVersion)
			}
		})
	}
}

func TestReadFigureErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
		code   errors.Code
	}{
		{"malformed json", FormatJSON, `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"unknown field", FormatJSON, `{"nodes": [], "colour": 1}`, errors.ErrCodeInvalidFormat},
		{"missing id", FormatJSON, `{"nodes": [{"label": "x"}]}`, errors.ErrCodeInvalidInput},
		{"duplicate", FormatJSON, `{"nodes": [{"id": "a"}, {"id": "a"}]}`, errors.ErrCodeDuplicateNode},
		{"unknown target", FormatJSON, `{"nodes": [{"id": "a"}], "links": [{"source": "a", "target": "z"}]}`, errors.ErrCodeUnknownNode},
		{"yaml missing target", FormatYAML, "nodes:\n  - id: a\nlinks:\n  - source: a\n", errors.ErrCodeInvalidFormat},
		{"bad format", "xml", "<x/>", errors.ErrCodeInvalidFormat},
		{"object version", FormatJSON, `{"nodes": [{"id": "a"}], "dataVersion": {"rev": 1}}`, errors.ErrCodeInvalidInput},
		{"bool version", FormatYAML, "nodes:\n  - id: a\ndataVersion: true\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFigure(strings.NewReader(tt.data), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	f := Figure{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Links: []Link{{Source: "a", Target: "b"}, {Source: "b", Target: "b"}},
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	f.Nodes = append(f.Nodes, Node{ID: ""})
	if err := f.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty id: %v", err)
	}
	f.Nodes = []Node{{ID: "a", Width: -1}}
	f.Links = nil
	if err := f.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative width: %v", err)
	}
}

func TestSnapshotDiff(t *testing.T) {
	f := Figure{Nodes: []Node{{ID: "a"}}, Width: 600, Height: 500, Margin: 20, Padding: 10,
		LinkSettings: &LinkSettings{Nudge: 4}}
	if _, ok := diff.Diff(f.Snapshot(), f.Snapshot()); ok {
		t.Fatal("identical figures differ")
	}

	g := f
	g.Nodes = []Node{{ID: "a"}, {ID: "b"}}
	changes, ok := diff.Diff(f.Snapshot(), g.Snapshot())
	if !ok || !changes.Has(KeyData) || changes.Has(KeyWidth) {
		t.Errorf("changes = %v", changes.Keys())
	}

	// A version tag hides in-place edits.
	f.DataVersion, g.DataVersion = 1, 1
	if _, ok := diff.Diff(f.Snapshot(), g.Snapshot()); ok {
		t.Error("equal data versions should suppress the data diff")
	}

	f.DataVersion, g.DataVersion = "rev-7", "rev-7"
	if _, ok := diff.Diff(f.Snapshot(), g.Snapshot()); ok {
		t.Error("equal string versions should suppress the data diff")
	}
	g.DataVersion = "rev-8"
	if changes, _ := diff.Diff(f.Snapshot(), g.Snapshot()); !changes.Has(KeyData) {
		t.Errorf("changes = %v, want data after a version bump", changes.Keys())
	}
	g.DataVersion = "rev-7"

	g.LinkSettings = &LinkSettings{Nudge: 8}
	changes, _ = diff.Diff(f.Snapshot(), g.Snapshot())
	if !changes.Has(KeyLinkSettings) {
		t.Errorf("changes = %v, want linkSettings", changes.Keys())
	}
}

func TestNodeSize(t *testing.T) {
	n := Node{ID: "abcd"}
	w, h := n.Size(10, 50, 50)
	if math.Abs(w-72) > 1e-9 || math.Abs(h-62) > 1e-9 {
		t.Errorf("Size() = %v x %v", w, h)
	}
	n = Node{ID: "x", Width: 70, Height: 70}
	if w, h := n.Size(10, 50, 50); w != 70 || h != 70 {
		t.Errorf("explicit Size() = %v x %v", w, h)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{"g.json": FormatJSON, "g.YAML": FormatYAML, "g.yml": FormatYAML}
	for path, want := range tests {
		if got, err := FormatFromPath(path); err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v", path, got, err)
		}
	}
	if _, err := FormatFromPath("g.txt"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("FormatFromPath(g.txt) error = %v", err)
	}
}

func TestLayoutFile(t *testing.T) {
	l := &Layout{
		Revision: 3,
		Width:    600,
		Nodes:    []NodeLayout{{ID: "a", Center: geom.Pt(35, 35)}},
		Routes:   []RouteLayout{{Index: 0, Source: "a", Target: "a", Path: "M 0 0"}},
	}
	path := filepath.Join(t.TempDir(), "out.layout.json")
	if err := WriteLayoutFile(path, l); err != nil {
		t.Fatalf("WriteLayoutFile() error = %v", err)
	}
	var buf bytes.Buffer
	if err := WriteLayout(&buf, l); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLayout(&buf)
	if err != nil {
		t.Fatalf("ReadLayout() error = %v", err)
	}
	if got.Revision != 3 || got.NodeIDs()[0] != "a" {
		t.Errorf("ReadLayout() = %+v", got)
	}
	if n, ok := got.Node("a"); !ok || n.Center != geom.Pt(35, 35) {
		t.Errorf("Node(a) = %+v, %v", n, ok)
	}

	yamlPath := filepath.Join(t.TempDir(), "out.yaml")
	if err := WriteLayoutFile(yamlPath, l); err != nil {
		t.Fatalf("WriteLayoutFile(yaml) error = %v", err)
	}
}
