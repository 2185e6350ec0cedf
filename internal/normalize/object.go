package normalize

import (
	"strings"

	"github.com/spf13/cast"
)

// object is a read-only view over a decoded JSON object. A key that is absent, null, empty or
// of the wrong type reads as not present.
type object map[string]any

func (o object) obj(key string) (object, bool) {
	m, ok := o[key].(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	return object(m), true
}

func (o object) list(key string) ([]any, bool) {
	l, ok := o[key].([]any)
	if !ok || len(l) == 0 {
		return nil, false
	}
	return l, true
}

func (o object) str(key string) (string, bool) {
	v, ok := o[key]
	if !ok || v == nil {
		return "", false
	}
	switch v.(type) {
	case map[string]any, []any:
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func (o object) num(key string) (float64, bool) {
	v, ok := o[key]
	if !ok || v == nil {
		return 0, false
	}
	if _, isBool := v.(bool); isBool {
		return 0, false
	}
	if s, isStr := v.(string); isStr {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (o object) integer(key string) int {
	f, _ := o.num(key)
	return int(f)
}

func (o object) boolean(key string) bool {
	b, err := cast.ToBoolE(o[key])
	return err == nil && b
}

// strs returns the string entries of a list, skipping anything that is not a scalar.
func (o object) strs(key string) []string {
	l, ok := o.list(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		switch item.(type) {
		case nil, map[string]any, []any:
			continue
		}
		if s, err := cast.ToStringE(item); err == nil && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// objs returns the object entries of a list.
func (o object) objs(key string) []object {
	l, ok := o.list(key)
	if !ok {
		return nil
	}
	out := make([]object, 0, len(l))
	for _, item := range l {
		if m, ok := item.(map[string]any); ok {
			out = append(out, object(m))
		}
	}
	return out
}
