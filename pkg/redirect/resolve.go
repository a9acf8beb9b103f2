package redirect

// Decision is the outcome of resolving a user's redirect target.
type Decision struct {
	URL     string `json:"url"`
	Role    string `json:"role,omitempty"` // role whose rule matched; empty on default
	Matched bool   `json:"matched"`
}

// Resolve walks userRoles in order and returns the URL of the first role that
// has a rule. With no match it returns defaultURL.
func Resolve(rules Rules, userRoles []string, defaultURL string) Decision {
	if len(rules) > 0 {
		m := rules.Map()
		for _, role := range userRoles {
			if url, ok := m[role]; ok {
				return Decision{URL: url, Role: role, Matched: true}
			}
		}
	}
	return Decision{URL: defaultURL}
}

// ResolveRedirect parses raw and resolves it for userRoles in one step.
// Malformed lines are ignored.
func ResolveRedirect(raw string, userRoles []string, defaultURL string) string {
	rules, _ := Parse(raw)
	return Resolve(rules, userRoles, defaultURL).URL
}
