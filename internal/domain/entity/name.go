package entity

import "strings"

// SafeName turns s into a single path element: separators and characters
// reserved on common filesystems become '_', and names that would resolve to
// the current or parent directory are replaced.
func SafeName(s string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, s)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
