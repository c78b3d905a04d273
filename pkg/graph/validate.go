package graph

import (
	"reflect"

	"github.com/matzehuels/orthonet/pkg/errors"
)

// Validate checks the graph contract: node ids are valid and unique, sizes
// are non-negative, and every link names existing nodes.
func (f Figure) Validate() error {
	if f.Width < 0 || f.Height < 0 || f.Margin < 0 || f.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas parameters must not be negative")
	}
	if f.LinkSettings != nil && f.LinkSettings.Nudge < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "nudge must not be negative")
	}
	if !isVersionTag(f.DataVersion) {
		return errors.New(errors.ErrCodeInvalidInput, "dataVersion must be a string or a number, got %T", f.DataVersion)
	}
	seen := make(map[string]bool, len(f.Nodes))
	for i, n := range f.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeDuplicateNode, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if n.Width < 0 || n.Height < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "node %q: size must not be negative", n.ID)
		}
	}
	for i, l := range f.Links {
		if !seen[l.Source] {
			return errors.New(errors.ErrCodeUnknownNode, "link %d: unknown source node %q", i, l.Source)
		}
		if !seen[l.Target] {
			return errors.New(errors.ErrCodeUnknownNode, "link %d: unknown target node %q", i, l.Target)
		}
	}
	return nil
}

func isVersionTag(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.String, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
