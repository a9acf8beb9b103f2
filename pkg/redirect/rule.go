package redirect

import "strings"

// Separator splits a role from its target URL in a configuration line.
const Separator = "="

// Rule maps a role name to the URL its members land on after login.
type Rule struct {
	Role string `json:"role"`
	URL  string `json:"url"`
}

// String renders the rule in configuration syntax.
func (r Rule) String() string {
	return r.Role + Separator + r.URL
}

// Rules is an ordered rule sequence as it appeared in the configuration.
type Rules []Rule

// Map returns the role -> URL view of the rules. Later duplicates override
// earlier ones.
func (rs Rules) Map() map[string]string {
	m := make(map[string]string, len(rs))
	for _, r := range rs {
		m[r.Role] = r.URL
	}
	return m
}

// Lookup returns the URL configured for role, honouring last-wins.
func (rs Rules) Lookup(role string) (string, bool) {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i].Role == role {
			return rs[i].URL, true
		}
	}
	return "", false
}

// Roles returns the distinct role names in first-seen order.
func (rs Rules) Roles() []string {
	seen := make(map[string]struct{}, len(rs))
	roles := make([]string, 0, len(rs))
	for _, r := range rs {
		if _, ok := seen[r.Role]; ok {
			continue
		}
		seen[r.Role] = struct{}{}
		roles = append(roles, r.Role)
	}
	return roles
}

// Render writes the rules back as configuration text, one rule per line.
func Render(rules Rules) string {
	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}
