// Package audit computes field-level change sets between entity snapshots
// and persists them as activity log records.
package audit

import (
	"encoding/json"
	"reflect"
)

// Redacted replaces sensitive values in persisted snapshots.
const Redacted = "********"

// sensitiveKeys are redacted by exact, case-sensitive match.
var sensitiveKeys = []string{"password", "hashed_password"}

// Redact returns a copy of data with sensitive values replaced by the
// redaction marker. Keys that are absent stay absent; a nil snapshot is
// returned unchanged. Redact is idempotent.
func Redact(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	cleaned := make(map[string]any, len(data))
	for k, v := range data {
		cleaned[k] = v
	}
	for _, key := range sensitiveKeys {
		if _, ok := cleaned[key]; ok {
			cleaned[key] = Redacted
		}
	}
	return cleaned
}

// Diff compares two optional snapshots and returns the fields that
// changed on each side. Both inputs are redacted first.
//
//   - both nil: (nil, nil)
//   - previous nil: the full new state is reported, there is nothing to
//     diff against
//   - next nil: the full previous state is reported, the entity was removed
//   - both present: only fields whose values differ are kept; nil values
//     are dropped from either side, and a side with nothing to report
//     comes back nil rather than as an empty map
func Diff(previous, next map[string]any) (map[string]any, map[string]any) {
	if previous == nil && next == nil {
		return nil, nil
	}

	previous = Redact(previous)
	next = Redact(next)

	if previous == nil {
		return nil, next
	}
	if next == nil {
		return previous, nil
	}

	previousChanges := make(map[string]any)
	newChanges := make(map[string]any)

	for key := range union(previous, next) {
		oldValue, newValue := previous[key], next[key]
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		if oldValue != nil {
			previousChanges[key] = oldValue
		}
		if newValue != nil {
			newChanges[key] = newValue
		}
	}

	if len(previousChanges) == 0 {
		previousChanges = nil
	}
	if len(newChanges) == 0 {
		newChanges = nil
	}
	return previousChanges, newChanges
}

// Snapshot flattens an entity into a field map via its JSON encoding, for
// callers capturing before/after state around a mutation. Fields tagged
// `json:"-"` (password hashes) never enter the snapshot.
func Snapshot(v any) map[string]any {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func union(a, b map[string]any) map[string]struct{} {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return keys
}
