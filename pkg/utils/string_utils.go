package utils

import "strings"

// NewNullString is a helper for string pointers, returning nil if string is empty.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ContainsFold reports whether substr is within s, ignoring case. An empty substr matches.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
