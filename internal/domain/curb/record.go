package curb

import (
	"strconv"
)

// RawRecord is one loosely-structured row from an upstream open-data table.
// Upstream schemas are inconsistent by construction, so access goes through
// defensive accessors instead of a rigid struct.
type RawRecord map[string]any

// String returns the value at key as a string, or def when the key is absent,
// nil, or empty.
func (r RawRecord) String(key, def string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	if s == "" {
		return def
	}
	return s
}

// Float returns the value at key as a float64, tolerating string-typed
// numerics as Socrata tables often serve.
func (r RawRecord) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Object returns the value at key as a nested record, if it is one.
func (r RawRecord) Object(key string) (RawRecord, bool) {
	v, ok := r[key]
	if !ok {
		return nil, false
	}
	if m, ok := v.(map[string]any); ok {
		return RawRecord(m), true
	}
	return nil, false
}
