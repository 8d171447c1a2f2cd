// Package savegame implements savegame slot storage and the persistence
// codec that carries script-defined state across save/load.
//
// The script-visible Level singleton wraps the Savegame object from this
// package, not the in-memory level: the save and load events are anchored
// here because they belong to the savegame lifecycle, while the level's
// informational accessors read from whichever level is currently active.
// This mapping is deliberate and mirrors how the save/load events have
// always been defined on the level from the script author's point of view.
package savegame

import (
	"fmt"

	"github.com/go-json-experiment/json"
)

// InvalidSavegameError reports persisted state that cannot be used:
// malformed JSON or an unsupported savegame version. It is recoverable at
// the granularity of one level's state; the rest of the savegame still
// loads.
type InvalidSavegameError struct {
	Reason string
	Err    error
}

func (e *InvalidSavegameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("savegame: invalid savegame: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("savegame: invalid savegame: %s", e.Reason)
}

func (e *InvalidSavegameError) Unwrap() error { return e.Err }

// Encode converts the value tree produced by a save handler to JSON text.
// Round-tripping through Encode and Decode is a fixed point for the
// JSON-representable subset: nil, bool, float64, string, []any and
// map[string]any. Anything else is coerced to its string form: a
// documented lossy conversion, not an error, so script authors who slip a
// rich value into the store lose fidelity rather than their savegame.
func Encode(tree map[string]any) (string, error) {
	data, err := json.Marshal(normalize(tree))
	if err != nil {
		return "", fmt.Errorf("savegame: encoding state: %w", err)
	}
	return string(data), nil
}

// Decode parses JSON text back into the value tree handed to load
// handlers. Malformed input yields InvalidSavegameError.
func Decode(text string) (map[string]any, error) {
	var tree map[string]any
	if err := json.Unmarshal([]byte(text), &tree); err != nil {
		return nil, &InvalidSavegameError{Reason: "malformed script state", Err: err}
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, nil
}

func normalize(v any) any {
	switch val := v.(type) {
	case nil, bool, string, float64:
		return val
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		// Non-string keys are stringified rather than rejected.
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	default:
		return fmt.Sprint(val)
	}
}
