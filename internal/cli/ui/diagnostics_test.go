package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/layered-lang/layered/compiler/diag"
)

func TestRenderDiagnostics(t *testing.T) {
	diags := diag.List{
		diag.New(diag.Reference, diag.Error,
			diag.Location{Line: 12, Column: 5, Path: "domain.Task.assignee"},
			"unresolved reference: User").
			WithSuggestion("declare entity User in the domain layer"),
		diag.New(diag.Consistency, diag.Warning,
			diag.Location{Line: 20, Column: 3},
			"unmapped operation: CreateInvoice"),
	}

	var buf bytes.Buffer
	RenderDiagnostics(&buf, "app.layered.yml", diags, RenderOptions{NoColor: true})

	out := buf.String()
	assert.Contains(t, out, "app.layered.yml:12:5 error[reference]: unresolved reference: User (domain.Task.assignee)")
	assert.Contains(t, out, "  hint: declare entity User in the domain layer")
	assert.Contains(t, out, "app.layered.yml:20:3 warning[consistency]: unmapped operation: CreateInvoice")
}

func TestRenderDiagnostics_QuietSkipsWarnings(t *testing.T) {
	diags := diag.List{
		diag.New(diag.Consistency, diag.Warning, diag.Location{Line: 1, Column: 1}, "noise"),
		diag.New(diag.Reference, diag.Error, diag.Location{Line: 2, Column: 1}, "real problem"),
	}

	var buf bytes.Buffer
	RenderDiagnostics(&buf, "doc.yml", diags, RenderOptions{NoColor: true, Quiet: true})

	assert.NotContains(t, buf.String(), "noise")
	assert.Contains(t, buf.String(), "real problem")
}

func TestRenderSummary(t *testing.T) {
	tests := []struct {
		name  string
		diags diag.List
		want  string
	}{
		{
			name:  "clean",
			diags: diag.List{},
			want:  "✓ document is valid",
		},
		{
			name: "warnings only",
			diags: diag.List{
				diag.New(diag.Consistency, diag.Warning, diag.Location{}, "w1"),
			},
			want: "⚠ 1 warning",
		},
		{
			name: "errors and warnings",
			diags: diag.List{
				diag.New(diag.Reference, diag.Error, diag.Location{}, "e1"),
				diag.New(diag.Reference, diag.Error, diag.Location{}, "e2"),
				diag.New(diag.Consistency, diag.Warning, diag.Location{}, "w1"),
			},
			want: "✗ 2 errors, 1 warning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			RenderSummary(&buf, tt.diags, true)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestAnnotateSuggestions(t *testing.T) {
	diags := diag.List{
		diag.New(diag.Reference, diag.Error,
			diag.Location{Path: "domain.Task.assignee"},
			"unresolved reference: Usr"),
	}

	annotated := AnnotateSuggestions(diags, []string{"User", "Invoice", "Payment"})

	assert.Contains(t, annotated[0].Suggestion, "did you mean User")
}

func TestAnnotateSuggestions_NoCloseMatch(t *testing.T) {
	diags := diag.List{
		diag.New(diag.Reference, diag.Error, diag.Location{},
			"unresolved reference: CompletelyUnrelated"),
	}

	annotated := AnnotateSuggestions(diags, []string{"User"})

	assert.Empty(t, annotated[0].Suggestion)
}
