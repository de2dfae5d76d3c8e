package config

import "github.com/spf13/cast"

// AttributeMap is the JSON-like value tree a component's config carries:
// null|bool|number|string|list|object. Unknown keys are ignored by every
// factory; each accessor here returns a default rather than erroring so a
// malformed or missing attribute degrades to ConfigError territory only
// when a factory explicitly requires it.
type AttributeMap map[string]interface{}

func (a AttributeMap) StringOr(key, def string) string {
	v, ok := a[key]
	if !ok {
		return def
	}
	return cast.ToString(v)
}

func (a AttributeMap) BoolOr(key string, def bool) bool {
	v, ok := a[key]
	if !ok {
		return def
	}
	return cast.ToBool(v)
}

func (a AttributeMap) IntOr(key string, def int) int {
	v, ok := a[key]
	if !ok {
		return def
	}
	return cast.ToInt(v)
}

func (a AttributeMap) Float64Or(key string, def float64) float64 {
	v, ok := a[key]
	if !ok {
		return def
	}
	return cast.ToFloat64(v)
}

// StringSlice returns key coerced to a []string, or nil if absent or not
// list-shaped.
func (a AttributeMap) StringSlice(key string) []string {
	v, ok := a[key]
	if !ok {
		return nil
	}
	raw, err := cast.ToSliceE(v)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, cast.ToString(r))
	}
	return out
}

// Has reports whether key is present regardless of value (including an
// explicit null).
func (a AttributeMap) Has(key string) bool {
	_, ok := a[key]
	return ok
}
