// Package redirect resolves the post-login destination of a user from a
// role-to-URL configuration block.
//
// The configuration is plain text, one rule per line:
//
//	admin=/clients/
//	staff=/clients/
//	client=/client/{name}/
//
// Lines are split on the first "=" only, so URLs may carry query strings.
// Blank lines are ignored. A line without a separator is reported as a
// *ParseError and skipped; it never invalidates the rest of the block.
// When a role appears more than once the last rule wins.
//
// # Basic Usage
//
//	rules, diags := redirect.Parse(raw)
//	for _, d := range diags {
//		slog.Warn("bad role redirect line", "line", d.Line, "err", d)
//	}
//	decision := redirect.Resolve(rules, userRoles, "/")
//	http.Redirect(w, r, decision.URL, http.StatusSeeOther)
//
// Or, when diagnostics are not needed:
//
//	url := redirect.ResolveRedirect(raw, userRoles, "/")
//
// Everything in this package is a pure function of its inputs and is safe for
// concurrent use.
package redirect
