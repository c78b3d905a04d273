// Package diff detects which keys of a flat figure snapshot changed between
// two updates.
//
// Object-valued keys may be paired with a version tag: a sibling key with the
// same name plus the suffix "Version" (e.g. "data" and "dataVersion"). When
// the new snapshot carries a non-zero tag, the object is treated as changed
// exactly when the tag differs, and its contents are never inspected. This
// lets callers mutate large payloads in place and signal the mutation by
// bumping the tag.
package diff

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
)

// VersionSuffix marks version-tag keys.
const VersionSuffix = "Version"

// Snapshot is a flat key/value view of a figure.
type Snapshot map[string]any

// Changes is the set of keys that differ between two snapshots.
type Changes map[string]bool

// Has reports whether any of keys changed.
func (c Changes) Has(keys ...string) bool {
	for _, k := range keys {
		if c[k] {
			return true
		}
	}
	return false
}

// Keys returns the changed keys in sorted order.
func (c Changes) Keys() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Diff compares next against prev. The boolean is false when nothing
// relevant changed, in which case the returned Changes is empty.
//
// Keys that exist in prev but not in next count as changed. Version-tag keys
// themselves are never reported.
func Diff(prev, next Snapshot) (Changes, bool) {
	out := Changes{}
	for key, nv := range next {
		if isVersionKey(key) {
			continue
		}
		if changed(key, prev, next, nv) {
			out[key] = true
		}
	}
	for key := range prev {
		if isVersionKey(key) {
			continue
		}
		if _, ok := next[key]; !ok {
			out[key] = true
		}
	}
	return out, len(out) > 0
}

func changed(key string, prev, next Snapshot, nv any) bool {
	pv, existed := prev[key]
	if !isObject(nv) {
		if !existed {
			return true
		}
		return !equalPrimitive(pv, nv)
	}
	if tag, ok := next[key+VersionSuffix]; ok && !isZero(tag) {
		return !equalPrimitive(tag, prev[key+VersionSuffix])
	}
	if !existed {
		return true
	}
	return Fingerprint(pv) != Fingerprint(nv)
}

// Fingerprint returns a SHA-256 hex digest of the canonical JSON encoding of
// v. Map keys are encoded in sorted order, so equal structures hash equally.
// Values that cannot be encoded fingerprint as the empty string.
func Fingerprint(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func isVersionKey(key string) bool {
	return len(key) > len(VersionSuffix) && strings.HasSuffix(key, VersionSuffix)
}

func isObject(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	}
	return false
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}

func equalPrimitive(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta.Comparable() && tb.Comparable() && ta == tb {
		return a == b
	}
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return fa == fb
	}
	return Fingerprint(a) == Fingerprint(b)
}

// toFloat folds the numeric kinds together so that 10 and 10.0 compare equal,
// as they do after a JSON round trip.
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
