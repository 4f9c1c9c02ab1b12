package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/layered-lang/layered/compiler/diag"
)

// RenderOptions configures diagnostic output formatting
type RenderOptions struct {
	NoColor bool
	// Quiet suppresses warnings and info diagnostics
	Quiet bool
}

// RenderDiagnostics writes a human-readable report for one document.
//
// Example output:
//
//	app.layered.yml:12:5 error[reference]: unresolved reference: User (domain.Task.assignee)
//	  hint: declare entity User in the domain layer
func RenderDiagnostics(w io.Writer, file string, diags diag.List, opts RenderOptions) {
	for _, d := range diags {
		if opts.Quiet && !d.IsError() {
			continue
		}

		c := severityColor(d.Severity)
		if opts.NoColor {
			c.DisableColor()
		}

		fmt.Fprintf(w, "%s:%d:%d ", file, d.Location.Line, d.Location.Column)
		c.Fprintf(w, "%s[%s]", d.Severity, d.Category)
		fmt.Fprintf(w, ": %s", d.Message)
		if d.Location.Path != "" {
			gray := color.New(color.FgHiBlack)
			if opts.NoColor {
				gray.DisableColor()
			}
			gray.Fprintf(w, " (%s)", d.Location.Path)
		}
		fmt.Fprintln(w)

		if d.Suggestion != "" {
			hint := color.New(color.FgCyan)
			if opts.NoColor {
				hint.DisableColor()
			}
			hint.Fprintf(w, "  hint: %s\n", d.Suggestion)
		}
	}
}

// RenderSummary writes the closing counts line.
//
// Example output:
//
//	✗ 2 errors, 1 warning
func RenderSummary(w io.Writer, diags diag.List, noColor bool) {
	errors := diags.Count(diag.Error) + diags.Count(diag.Fatal)
	warnings := diags.Count(diag.Warning)

	switch {
	case errors > 0:
		c := color.New(color.FgRed, color.Bold)
		if noColor {
			c.DisableColor()
		}
		c.Fprintf(w, "✗ %s", plural(errors, "error"))
		if warnings > 0 {
			c.Fprintf(w, ", %s", plural(warnings, "warning"))
		}
		fmt.Fprintln(w)
	case warnings > 0:
		c := color.New(color.FgYellow, color.Bold)
		if noColor {
			c.DisableColor()
		}
		c.Fprintf(w, "⚠ %s\n", plural(warnings, "warning"))
	default:
		WriteSuccess(w, "document is valid", noColor)
	}
}

// WriteSuccess writes a green checkmark line
func WriteSuccess(w io.Writer, message string, noColor bool) {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	green.Fprintf(w, "✓ %s\n", message)
}

// WriteError writes a red error line for non-diagnostic failures such
// as unreadable files.
func WriteError(w io.Writer, message string, noColor bool) {
	red := color.New(color.FgRed, color.Bold)
	if noColor {
		red.DisableColor()
	}
	red.Fprintf(w, "✗ %s\n", message)
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.Fatal, diag.Error:
		return color.New(color.FgRed, color.Bold)
	case diag.Warning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// AnnotateSuggestions appends a did-you-mean hint to unresolved
// reference diagnostics when a declared name is close to the missing
// one. Candidates are every declared name in the document.
func AnnotateSuggestions(diags diag.List, candidates []string) diag.List {
	out := make(diag.List, 0, len(diags))
	for _, d := range diags {
		if d.Category == diag.Reference {
			if name, ok := unresolvedName(d.Message); ok {
				if matches := FindSimilar(name, candidates, nil); len(matches) > 0 {
					hint := "did you mean " + strings.Join(matches, ", ") + "?"
					if d.Suggestion != "" {
						hint = hint + " (or " + d.Suggestion + ")"
					}
					d.Suggestion = hint
				}
			}
		}
		out = append(out, d)
	}
	return out
}

func unresolvedName(message string) (string, bool) {
	const prefix = "unresolved reference: "
	if !strings.HasPrefix(message, prefix) {
		return "", false
	}
	return strings.TrimPrefix(message, prefix), true
}
