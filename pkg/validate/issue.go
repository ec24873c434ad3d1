// Package validate checks untyped schema payloads against the recognized UI
// schema shapes and reports structured, human-actionable issues.
package validate

import (
	"fmt"
	"strings"
)

// RootPath is the literal placeholder rendered for issues at the payload root.
const RootPath = "(root)"

// MaxIssues caps the reported issue list; the remainder is summarized as a
// counter so a hostile payload cannot flood the diagnostic panel.
const MaxIssues = 8

// Issue is a single structural validation failure.
type Issue struct {
	// Path locates the failing value in dotted/bracketed form, e.g.
	// "uiSchema.fields[2].type". RootPath for the payload itself.
	Path    string `json:"path"`
	Message string `json:"message"`
	// Allowed and Suggestion are set for enum mismatches: the full list of
	// accepted values plus a single best-guess correction by edit distance.
	Allowed    []any `json:"allowed,omitempty"`
	Suggestion any   `json:"suggestion,omitempty"`
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(i.Path)
	b.WriteString(": ")
	b.WriteString(i.Message)
	if i.Suggestion != nil {
		fmt.Fprintf(&b, " (did you mean %v?)", i.Suggestion)
	}
	return b.String()
}

// Result aggregates validation issues. Truncated counts issues beyond
// MaxIssues that were dropped from Issues.
type Result struct {
	Issues    []Issue `json:"issues,omitempty"`
	Truncated int     `json:"truncated,omitempty"`
}

// Valid reports whether the payload passed validation.
func (r Result) Valid() bool {
	return len(r.Issues) == 0 && r.Truncated == 0
}

// Summary renders the capped issue list plus the "N more" counter.
func (r Result) Summary() string {
	if r.Valid() {
		return ""
	}
	lines := make([]string, 0, len(r.Issues)+1)
	for _, issue := range r.Issues {
		lines = append(lines, issue.String())
	}
	if r.Truncated > 0 {
		lines = append(lines, fmt.Sprintf("… and %d more", r.Truncated))
	}
	return strings.Join(lines, "\n")
}

func capResult(issues []Issue) Result {
	if len(issues) <= MaxIssues {
		return Result{Issues: issues}
	}
	return Result{
		Issues:    issues[:MaxIssues],
		Truncated: len(issues) - MaxIssues,
	}
}

func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, index int) string {
	return fmt.Sprintf("%s[%d]", parent, index)
}

func displayPath(path string) string {
	if path == "" {
		return RootPath
	}
	return path
}
