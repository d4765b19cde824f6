// Package annotation groups flat, slash separated custom property keys into nested mappings.
//
// Host objects carry free-form properties such as "joint/limits/effort" or "sensor/rate". Anything that
// has no first-class field on a model record is kept in a Bag, grouped by its key path.
package annotation

import (
	"sort"
	"strings"
)

// Separator splits the levels of a key path.
const Separator = "/"

// Bag is a nested mapping of annotation values. Values are either scalars, slices or nested Bags.
type Bag map[string]interface{}

// Group drops the excluded keys and splits each remaining key once on the first separator. Keys without a
// separator are stored at the top level, the others under a nested Bag named by their prefix.
//
// Keys are visited in sorted order. When a scalar and a group share a prefix, the group wins.
func Group(flat map[string]interface{}, excluded ...string) Bag {
	skip := make(map[string]struct{}, len(excluded))
	for _, k := range excluded {
		skip[k] = struct{}{}
	}
	return GroupFunc(flat, func(key string) bool {
		_, ok := skip[key]
		return !ok
	}, nil)
}

// GroupFunc is Group with a caller supplied filter and key rewrite. keep is applied to the original key, rewrite
// (if not nil) to every kept key before splitting. A key that is rewritten to the empty string is dropped.
func GroupFunc(flat map[string]interface{}, keep func(key string) bool, rewrite func(key string) string) Bag {
	out := Bag{}
	for _, key := range sortedKeys(flat) {
		if keep != nil && !keep(key) {
			continue
		}
		value := flat[key]
		if rewrite != nil {
			key = rewrite(key)
		}
		if key == "" {
			continue
		}
		prefix, rest, found := strings.Cut(key, Separator)
		if !found {
			if _, isGroup := out[key].(Bag); isGroup {
				continue
			}
			out[key] = value
			continue
		}
		group, ok := out[prefix].(Bag)
		if !ok {
			group = Bag{}
			out[prefix] = group
		}
		group[rest] = value
	}
	return out
}

// Deepen splits every key on all of its separators, building a Bag as deep as the key paths. Keys that share a
// prefix are merged into the same nested Bag.
func Deepen(flat map[string]interface{}) Bag {
	out := Bag{}
	for _, key := range sortedKeys(flat) {
		out.Set(key, flat[key])
	}
	return out
}

// Set stores value at the given key path, creating nested Bags as needed. A scalar found on the way is
// replaced by a Bag.
func (b Bag) Set(path string, value interface{}) {
	parts := strings.Split(path, Separator)
	current := b
	for _, part := range parts[:len(parts)-1] {
		next, ok := asBag(current[part])
		if !ok {
			next = Bag{}
			current[part] = next
		}
		current = next
	}
	last := parts[len(parts)-1]
	if _, isGroup := asBag(current[last]); isGroup {
		return
	}
	current[last] = value
}

// Get returns the value at the given key path.
func (b Bag) Get(path string) (interface{}, bool) {
	parts := strings.Split(path, Separator)
	current := b
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if current, ok = asBag(v); !ok {
			return nil, false
		}
	}
	return nil, false
}

// Flatten is the inverse of Deepen: it joins nested keys with the separator, prepending prefix (if not empty)
// to every key.
func Flatten(prefix string, bag Bag) map[string]interface{} {
	out := map[string]interface{}{}
	flattenInto(out, prefix, bag)
	return out
}

func flattenInto(out map[string]interface{}, prefix string, bag Bag) {
	for k, v := range bag {
		key := k
		if prefix != "" {
			key = prefix + Separator + k
		}
		if nested, ok := asBag(v); ok {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = v
	}
}

// asBag accepts both Bag and the plain map type produced by decoding JSON.
func asBag(v interface{}) (Bag, bool) {
	switch typed := v.(type) {
	case Bag:
		return typed, true
	case map[string]interface{}:
		return Bag(typed), true
	default:
		return nil, false
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
