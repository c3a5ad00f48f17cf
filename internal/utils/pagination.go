// Package utils holds small generic helpers shared across layers. Nothing in
// here may depend on domain types.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def when s is empty or not a
// number. Used by handlers for query parameters like page and limit, where a
// malformed value should fall back rather than error.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
