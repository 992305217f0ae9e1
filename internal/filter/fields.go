package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/crucial707/changelog-browser/internal/models"
)

// ApplyFields keeps the records whose JSON form matches term at one of the
// dotted paths. A blank term keeps everything.
func ApplyFields(changes []models.ChangeRecord, term string, fields ...string) []models.ChangeRecord {
	out := make([]models.ChangeRecord, 0, len(changes))
	if normalize(term) == "" {
		return append(out, changes...)
	}
	for _, c := range changes {
		obj, err := recordObject(c)
		if err != nil {
			continue
		}
		if FieldMatch(obj, term, fields...) {
			out = append(out, c)
		}
	}
	return out
}

func recordObject(c models.ChangeRecord) (map[string]any, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// FieldMatch reports whether any of the dotted paths (e.g. "entity.name")
// resolves to a value in obj whose text contains term, ignoring case. It
// works on decoded JSON (maps and slices of any).
func FieldMatch(obj map[string]any, term string, fields ...string) bool {
	term = normalize(term)
	for _, f := range fields {
		v, ok := Lookup(obj, f)
		if !ok || v == nil {
			continue
		}
		if contains(fmt.Sprint(v), term) {
			return true
		}
	}
	return false
}

// Lookup resolves a dotted path through nested maps.
func Lookup(obj map[string]any, path string) (any, bool) {
	var cur any = obj
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
