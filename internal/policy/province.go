package policy

import "strings"

// MatchesProvince reports whether a user affiliated with province and branch
// belongs to target. The province must equal target ignoring case; the branch
// only has to contain it.
func MatchesProvince(province, branch, target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}
	if p := strings.TrimSpace(province); p != "" && strings.EqualFold(p, target) {
		return true
	}
	if branch == "" {
		return false
	}
	return strings.Contains(strings.ToLower(branch), strings.ToLower(target))
}
