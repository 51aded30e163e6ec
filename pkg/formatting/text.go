package formatting

import "strings"

// Truncate returns at most n runes of s. Non-positive n yields an empty string.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// CollapseSpace replaces every run of Unicode whitespace with a single space
// and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
