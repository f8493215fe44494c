// Package convert projects a parsed value.Value tree into host-native Go
// data under the conversion choices of options.LoadOptions (spec.md §4.3).
package convert

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/masinc/jyaml/options"
	"github.com/masinc/jyaml/value"
)

// OrderedMap is the insertion-ordered map type returned in place of
// map[string]any when LoadOptions.UseOrderedMap is set. It lives here
// rather than in value because it is a converter-facing output type, not
// the parser's own tree type.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]any)}
}

// Set appends key/val, or replaces the value in place if key is already
// present, preserving first-insertion order.
func (m *OrderedMap) Set(key string, val any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in first-insertion order.
func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for every entry in insertion order, stopping early if fn
// returns false.
func (m *OrderedMap) Range(fn func(key string, val any) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int { return len(m.keys) }

// ToNative projects v into host-native data per opts (spec.md §4.3's
// LoadOption table), grounded on the original Python reference's
// _convert_with_options dispatch.
func ToNative(v value.Value, opts options.LoadOptions) (any, error) {
	switch n := v.(type) {
	case *value.Null:
		if opts.ParseNull {
			return nil, nil
		}
		return "null", nil

	case *value.Bool:
		if opts.ParseBooleans && opts.AsNativeTypes {
			return n.Value, nil
		}
		if n.Value {
			return "true", nil
		}
		return "false", nil

	case *value.Int:
		if !(opts.ParseNumbers && opts.AsNativeTypes) {
			return strconv.FormatInt(n.Value, 10), nil
		}
		if opts.NumberHook != nil {
			return opts.NumberHook(n.Value)
		}
		return n.Value, nil

	case *value.Float:
		if !(opts.ParseNumbers && opts.AsNativeTypes) {
			return strconv.FormatFloat(n.Value, 'g', -1, 64), nil
		}
		if opts.NumberHook != nil {
			return opts.NumberHook(n.Value)
		}
		if opts.UseDecimal {
			return decimal.NewFromFloat(n.Value), nil
		}
		return n.Value, nil

	case *value.String:
		return n.Value, nil

	case *value.Array:
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			conv, err := ToNative(item, opts)
			if err != nil {
				return nil, err
			}
			items[i] = conv
		}
		return items, nil

	case *value.Object:
		pairs := make([]options.Pair, 0, n.Len())
		for _, p := range n.Pairs {
			conv, err := ToNative(p.Value, opts)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, options.Pair{Key: p.Key, Value: conv})
		}

		if opts.ObjectHook != nil {
			return opts.ObjectHook(pairs)
		}
		if opts.UseOrderedMap {
			om := NewOrderedMap()
			for _, p := range pairs {
				om.Set(p.Key, p.Value)
			}
			return om, nil
		}
		m := make(map[string]any, len(pairs))
		for _, p := range pairs {
			m[p.Key] = p.Value
		}
		return m, nil

	default:
		return nil, errUnknownValue(v)
	}
}

func errUnknownValue(v value.Value) error {
	return &unknownValueError{kind: v.Kind()}
}

type unknownValueError struct{ kind value.Kind }

func (e *unknownValueError) Error() string {
	return "convert: unknown value kind: " + e.kind.String()
}
