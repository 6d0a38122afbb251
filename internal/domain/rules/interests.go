package rules

import "strings"

// NormalizeInterests trims and lowercases interest tags, dropping tags
// that are empty after trimming. Order is preserved, duplicates removed.
func NormalizeInterests(interests []string) []string {
	out := make([]string, 0, len(interests))
	seen := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		tag := strings.ToLower(strings.TrimSpace(interest))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// HasCommonInterest reports whether two already-normalized tag sets
// intersect in at least one tag.
func HasCommonInterest(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(a))
	for _, tag := range a {
		set[tag] = struct{}{}
	}
	for _, tag := range b {
		if _, ok := set[tag]; ok {
			return true
		}
	}
	return false
}
