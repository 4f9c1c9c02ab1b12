package diag

import "fmt"

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Severity
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Severity
func (s *Severity) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	switch str {
	case "info":
		*s = Info
	case "warning":
		*s = Warning
	case "error":
		*s = Error
	case "fatal":
		*s = Fatal
	default:
		*s = Error
	}
	return nil
}

// Category classifies what kind of problem a diagnostic reports
type Category int

const (
	// Syntax covers malformed type expressions and structurally
	// impossible document shapes.
	Syntax Category = iota
	// Schema covers well-shaped values that violate a constraint.
	Schema
	// Reference covers names that do not resolve in their namespace.
	Reference
	// Consistency covers cross-cutting rules: cycles, duplicate ids,
	// unmapped operations.
	Consistency
	// Generation is reserved for downstream code generators. The
	// validator never emits it.
	Generation
)

// String returns the string representation of the category
func (c Category) String() string {
	switch c {
	case Syntax:
		return "syntax"
	case Schema:
		return "schema"
	case Reference:
		return "reference"
	case Consistency:
		return "consistency"
	case Generation:
		return "generation"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Category
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Category
func (c *Category) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	switch str {
	case "syntax":
		*c = Syntax
	case "schema":
		*c = Schema
	case "reference":
		*c = Reference
	case "consistency":
		*c = Consistency
	case "generation":
		*c = Generation
	default:
		*c = Consistency
	}
	return nil
}

// Location points at a place in the source document. Line and Column
// come from the YAML node; Path is the dotted path into the document
// (e.g. "domain.Task.fields.assignee").
type Location struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Path   string `json:"path"`
}

// String formats the location for terminal output
func (l Location) String() string {
	if l.Path == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%d:%d (%s)", l.Line, l.Column, l.Path)
}

// Diagnostic is one reported problem. Diagnostics are accumulated
// during validation and never thrown away.
type Diagnostic struct {
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Location   Location `json:"location"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// New creates a new Diagnostic
func New(category Category, severity Severity, loc Location, message string) Diagnostic {
	return Diagnostic{
		Category: category,
		Severity: severity,
		Location: loc,
		Message:  message,
	}
}

// Newf creates a new Diagnostic with a formatted message
func Newf(category Category, severity Severity, loc Location, format string, args ...any) Diagnostic {
	return New(category, severity, loc, fmt.Sprintf(format, args...))
}

// WithSuggestion attaches a fix suggestion to the diagnostic
func (d Diagnostic) WithSuggestion(suggestion string) Diagnostic {
	d.Suggestion = suggestion
	return d
}

// Error implements the error interface
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s/%s: %s",
		d.Location.Line,
		d.Location.Column,
		d.Category,
		d.Severity,
		d.Message)
}

// IsError returns true if the diagnostic is at Error or Fatal severity
func (d Diagnostic) IsError() bool {
	return d.Severity == Error || d.Severity == Fatal
}

// IsWarning returns true if the diagnostic is at Warning severity
func (d Diagnostic) IsWarning() bool {
	return d.Severity == Warning
}

// IsFatal returns true if the diagnostic is at Fatal severity
func (d Diagnostic) IsFatal() bool {
	return d.Severity == Fatal
}
