package diag

// List is an ordered collection of diagnostics. Order is discovery
// order within the fixed layer-processing order, so it is stable for a
// given document.
type List []Diagnostic

// Add appends a diagnostic to the list
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Addf appends a formatted diagnostic to the list
func (l *List) Addf(category Category, severity Severity, loc Location, format string, args ...any) {
	*l = append(*l, Newf(category, severity, loc, format, args...))
}

// Merge appends all diagnostics from another list
func (l *List) Merge(other List) {
	*l = append(*l, other...)
}

// HasErrors returns true if any diagnostic is at Error or Fatal severity
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.IsError() {
			return true
		}
	}
	return false
}

// HasFatal returns true if any diagnostic is at Fatal severity
func (l List) HasFatal() bool {
	for _, d := range l {
		if d.IsFatal() {
			return true
		}
	}
	return false
}

// MaxSeverity returns the highest severity present, or Info for an
// empty list.
func (l List) MaxSeverity() Severity {
	max := Info
	for _, d := range l {
		if d.Severity > max {
			max = d.Severity
		}
	}
	return max
}

// ByCategory returns the diagnostics matching the given category
func (l List) ByCategory(c Category) List {
	var out List
	for _, d := range l {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of diagnostics at the given severity
func (l List) Count(s Severity) int {
	n := 0
	for _, d := range l {
		if d.Severity == s {
			n++
		}
	}
	return n
}
