package diff

import (
	"fmt"
	"reflect"
	"testing"
)

type payload struct {
	Nodes []string `json:"nodes"`
}

func TestDiff(t *testing.T) {
	base := Snapshot{
		"width":  2000.0,
		"height": 700.0,
		"margin": 20.0,
		"data":   map[string]any{"nodes": []any{"a", "b"}},
	}

	tests := []struct {
		name string
		prev Snapshot
		next Snapshot
		want []string
	}{
		{
			name: "identical",
			prev: base,
			next: Snapshot{"width": 2000.0, "height": 700.0, "margin": 20.0, "data": map[string]any{"nodes": []any{"a", "b"}}},
			want: nil,
		},
		{
			name: "primitive change",
			prev: base,
			next: Snapshot{"width": 2000.0, "height": 700.0, "margin": 30.0, "data": base["data"]},
			want: []string{"margin"},
		},
		{
			name: "numeric kinds fold",
			prev: Snapshot{"width": 2000},
			next: Snapshot{"width": 2000.0},
			want: nil,
		},
		{
			name: "structural change",
			prev: base,
			next: Snapshot{"width": 2000.0, "height": 700.0, "margin": 20.0, "data": map[string]any{"nodes": []any{"a"}}},
			want: []string{"data"},
		},
		{
			name: "version tag hides mutation",
			prev: Snapshot{"data": payload{Nodes: []string{"a"}}, "dataVersion": 1},
			next: Snapshot{"data": payload{Nodes: []string{"a", "b"}}, "dataVersion": 1},
			want: nil,
		},
		{
			name: "version bump",
			prev: Snapshot{"data": payload{Nodes: []string{"a"}}, "dataVersion": 1},
			next: Snapshot{"data": payload{Nodes: []string{"a"}}, "dataVersion": 2},
			want: []string{"data"},
		},
		{
			name: "string tag hides mutation",
			prev: Snapshot{"data": payload{Nodes: []string{"a"}}, "dataVersion": "rev-7"},
			next: Snapshot{"data": payload{Nodes: []string{"a", "b"}}, "dataVersion": "rev-7"},
			want: nil,
		},
		{
			name: "string tag bump",
			prev: Snapshot{"data": payload{Nodes: []string{"a"}}, "dataVersion": "rev-7"},
			next: Snapshot{"data": payload{Nodes: []string{"a"}}, "dataVersion": "rev-8"},
			want: []string{"data"},
		},
		{
			name: "decoded number matches int tag",
			prev: Snapshot{"data": payload{Nodes: []string{"a"}}, "dataVersion": 3},
			next: Snapshot{"data": payload{Nodes: []string{"b"}}, "dataVersion": 3.0},
			want: nil,
		},
		{
			name: "zero version falls back to structure",
			prev: Snapshot{"data": payload{Nodes: []string{"a"}}, "dataVersion": 0},
			next: Snapshot{"data": payload{Nodes: []string{"b"}}, "dataVersion": 0},
			want: []string{"data"},
		},
		{
			name: "new key",
			prev: Snapshot{},
			next: Snapshot{"padding": 10.0},
			want: []string{"padding"},
		},
		{
			name: "removed key",
			prev: Snapshot{"padding": 10.0},
			next: Snapshot{},
			want: []string{"padding"},
		},
		{
			name: "version keys never reported",
			prev: Snapshot{"dataVersion": 1},
			next: Snapshot{"dataVersion": 2},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes, ok := Diff(tt.prev, tt.next)
			if ok != (len(tt.want) > 0) {
				t.Fatalf("Diff() ok = %v, want %v (changes %v)", ok, len(tt.want) > 0, changes.Keys())
			}
			got := changes.Keys()
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Diff() keys = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiffIdempotent(t *testing.T) {
	s := Snapshot{"width": 600.0, "data": payload{Nodes: []string{"a"}}, "dataVersion": 3}
	if _, ok := Diff(s, s); ok {
		t.Fatal("diffing a snapshot against itself reported a change")
	}
}

func TestFingerprintStable(t *testing.T) {
	a := map[string]any{"x": 1, "y": 2}
	b := map[string]any{"y": 2, "x": 1}
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("map key order changed the fingerprint")
	}
}

func ExampleDiff() {
	prev := Snapshot{"width": 600.0, "margin": 20.0}
	next := Snapshot{"width": 600.0, "margin": 25.0}
	changes, ok := Diff(prev, next)
	fmt.Println(ok, changes.Keys())
	// Output: true [margin]
}
