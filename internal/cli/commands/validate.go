package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
	"github.com/layered-lang/layered/compiler/validator"
	"github.com/layered-lang/layered/internal/cli/config"
	"github.com/layered-lang/layered/internal/cli/ui"
)

var (
	validateJSON    bool
	validateQuiet   bool
	validateStrict  bool
	validateNoColor bool
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [document]",
		Short: "Validate a layered document",
		Long: `Parse a layered document, resolve every cross-layer reference and
report all diagnostics at once.

The document path defaults to the "document" setting in layered.yml
(app.layered.yml if unset).

Examples:
  layered validate
  layered validate system.layered.yml
  layered validate --json > report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().BoolVar(&validateJSON, "json", false, "Emit the diagnostic report as JSON")
	cmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "Only show errors")
	cmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as errors")
	cmd.Flags().BoolVar(&validateNoColor, "no-color", false, "Disable colored output")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, err := documentPath(args)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read document: %w", err)
	}

	doc, diags := validator.ValidateSource(data)
	diags = ui.AnnotateSuggestions(diags, declaredNames(doc))

	out := cmd.OutOrStdout()
	if validateJSON {
		report := diag.NewReport(diags)
		rendered, err := report.FormatAsJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rendered)
	} else {
		ui.RenderDiagnostics(out, path, diags, ui.RenderOptions{
			NoColor: validateNoColor,
			Quiet:   validateQuiet,
		})
		ui.RenderSummary(out, diags, validateNoColor)
	}

	strict := validateStrict
	maxWarnings := -1
	if cfg, err := config.Load(); err == nil {
		if cfg.Validate.Strict {
			strict = true
		}
		maxWarnings = cfg.Validate.MaxWarnings
	}

	if diags.HasErrors() {
		return fmt.Errorf("validation failed")
	}
	warnings := diags.Count(diag.Warning)
	if strict && warnings > 0 {
		return fmt.Errorf("validation failed: warnings present in strict mode")
	}
	if maxWarnings >= 0 && warnings > maxWarnings {
		return fmt.Errorf("validation failed: %d warnings exceed the limit of %d", warnings, maxWarnings)
	}
	return nil
}

// documentPath picks the document from args, falling back to the
// configured default.
func documentPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.Document, nil
}

// declaredNames collects every name the document declares, used for
// did-you-mean suggestions on unresolved references.
func declaredNames(doc *document.Document) []string {
	var names []string
	for _, e := range doc.Entities {
		names = append(names, e.Name)
	}
	for _, t := range doc.CustomTypes {
		names = append(names, t.Name)
	}
	for _, op := range doc.Operations {
		names = append(names, op.Name)
	}
	for _, c := range doc.Components {
		names = append(names, c.ID)
	}
	for _, i := range doc.Integrations {
		names = append(names, i.Name)
	}
	if doc.Security != nil {
		for _, r := range doc.Security.Roles {
			names = append(names, r.Name)
		}
	}
	return names
}
