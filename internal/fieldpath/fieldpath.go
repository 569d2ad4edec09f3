// Package fieldpath resolves dot-separated paths against decoded JSON documents.
package fieldpath

import "strings"

// Get walks obj along the dot-separated path. It returns false when the path
// is empty, a segment is missing, or a non-object value is reached mid-path.
func Get(obj any, path string) (any, bool) {
	if obj == nil || path == "" {
		return nil, false
	}

	cur := obj
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := m[key]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// String resolves path and returns its value when it is a string.
func String(obj any, path string) string {
	v, ok := Get(obj, path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
