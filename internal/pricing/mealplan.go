package pricing

import "strings"

// DefaultMealName is used when an estimate has no usable meal names.
const DefaultMealName = "Signature Menu"

// NormalizeMealPlan trims names, drops blanks and duplicates, and falls back
// to a single default meal. The result is never empty.
func NormalizeMealPlan(names []string) []string {
	plan := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		plan = append(plan, name)
	}
	if len(plan) == 0 {
		return []string{DefaultMealName}
	}
	return plan
}

// ParseMealPlan splits free text (one meal per line, or comma separated)
// into meal names. It does not apply the default meal.
func ParseMealPlan(raw string) []string {
	raw = strings.ReplaceAll(raw, ",", "\n")
	var names []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names
}
