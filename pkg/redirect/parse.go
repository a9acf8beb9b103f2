package redirect

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingSeparator is reported for a line without "=".
	ErrMissingSeparator = errors.New("missing '=' separator")
	// ErrEmptyRole is reported for a line whose role part is blank.
	ErrEmptyRole = errors.New("empty role name")
	// ErrEmptyURL is reported for a line whose URL part is blank.
	ErrEmptyURL = errors.New("empty redirect url")
	// ErrCommentLine is reported for "#" lines; comments are not part of the format.
	ErrCommentLine = errors.New("comment lines are not supported")
)

// ParseError describes one malformed configuration line. Parsing continues
// past it.
type ParseError struct {
	Line int    // 1-based line number in the raw text
	Text string // the offending line, trimmed
	Err  error  // one of the Err* reasons above
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a role=url block. Malformed lines are skipped and returned as
// diagnostics; the rules that did parse are always usable.
func Parse(raw string) (Rules, []*ParseError) {
	var (
		rules Rules
		diags []*ParseError
	)
	if strings.TrimSpace(raw) == "" {
		return rules, diags
	}

	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			diags = append(diags, &ParseError{Line: i + 1, Text: line, Err: ErrCommentLine})
			continue
		}

		role, url, found := strings.Cut(line, Separator)
		if !found {
			diags = append(diags, &ParseError{Line: i + 1, Text: line, Err: ErrMissingSeparator})
			continue
		}
		role = strings.TrimSpace(role)
		url = strings.TrimSpace(url)

		switch {
		case role == "":
			diags = append(diags, &ParseError{Line: i + 1, Text: line, Err: ErrEmptyRole})
			continue
		case url == "":
			diags = append(diags, &ParseError{Line: i + 1, Text: line, Err: ErrEmptyURL})
			continue
		}

		rules = append(rules, Rule{Role: role, URL: url})
	}

	return rules, diags
}

// JoinErrors folds diagnostics into a single error, or nil when there are none.
func JoinErrors(diags []*ParseError) error {
	if len(diags) == 0 {
		return nil
	}
	errs := make([]error, len(diags))
	for i, d := range diags {
		errs[i] = d
	}
	return errors.Join(errs...)
}
