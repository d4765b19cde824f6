package scene

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/dfki-ric/phobos/utils"
)

// Properties are the custom properties of a scene object, keyed by slash separated paths such as
// "joint/limits/upper".
type Properties map[string]interface{}

// Has reports whether the key is set.
func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// HasPrefix reports whether any key starts with prefix.
func (p Properties) HasPrefix(prefix string) bool {
	for k := range p {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// Keys returns the keys in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WithPrefix returns the properties whose key starts with prefix, with the prefix removed.
func (p Properties) WithPrefix(prefix string) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range p {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out
}

// String returns the value at key as a string. Missing keys yield "".
func (p Properties) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", errors.Wrapf(err, "property %q", key)
	}
	return s, nil
}

// StringOr returns the value at key as a string, or def when the key is missing or not a string.
func (p Properties) StringOr(key, def string) string {
	if !p.Has(key) {
		return def
	}
	s, err := p.String(key)
	if err != nil {
		return def
	}
	return s
}

// Float returns the value at key as a float64. The second return is false when the key is missing.
func (p Properties) Float(key string) (float64, bool, error) {
	v, ok := p[key]
	if !ok {
		return 0, false, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, true, errors.Wrapf(err, "property %q", key)
	}
	return f, true, nil
}

// FloatPtr returns the value at key as a float64 pointer, nil when missing.
func (p Properties) FloatPtr(key string) (*float64, error) {
	f, ok, err := p.Float(key)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

// Int returns the value at key as an int. The second return is false when the key is missing.
func (p Properties) Int(key string) (int, bool, error) {
	v, ok := p[key]
	if !ok {
		return 0, false, nil
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, true, errors.Wrapf(err, "property %q", key)
	}
	return i, true, nil
}

// Bool returns the value at key as a bool. Missing keys yield false.
func (p Properties) Bool(key string) (bool, error) {
	v, ok := p[key]
	if !ok {
		return false, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, errors.Wrapf(err, "property %q", key)
	}
	return b, nil
}

// Floats returns the value at key as a list of float64. Missing keys yield nil.
func (p Properties) Floats(key string) ([]float64, error) {
	v, ok := p[key]
	if !ok {
		return nil, nil
	}
	floats, err := toFloats(v)
	if err != nil {
		return nil, errors.Wrapf(err, "property %q", key)
	}
	return floats, nil
}

// Strings returns the value at key as a list of strings. Missing keys yield nil.
func (p Properties) Strings(key string) ([]string, error) {
	v, ok := p[key]
	if !ok {
		return nil, nil
	}
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, errors.Wrapf(err, "property %q", key)
	}
	return s, nil
}

func toFloats(v interface{}) ([]float64, error) {
	switch vals := v.(type) {
	case []float64:
		return append([]float64(nil), vals...), nil
	case []interface{}:
		out := make([]float64, 0, len(vals))
		for _, val := range vals {
			f, err := cast.ToFloat64E(val)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	case [3]float64:
		return vals[:], nil
	default:
		return nil, utils.NewUnexpectedTypeError([]float64{}, v)
	}
}

// Clone returns a shallow copy.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
