package domain

import "strings"

// NormalizeSkills trims and lowercases each skill, dropping blanks and repeats.
// First occurrence wins so the stored order follows the caller's order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ParseSkillList accepts either repeated values or comma-separated values
// (or a mix of both) and returns the normalized list.
func ParseSkillList(values ...string) []string {
	var parts []string
	for _, v := range values {
		parts = append(parts, strings.Split(v, ",")...)
	}
	return NormalizeSkills(parts)
}
