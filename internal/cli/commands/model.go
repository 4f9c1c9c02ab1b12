package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/layered-lang/layered/compiler/document"
	"github.com/layered-lang/layered/compiler/validator"
	"github.com/layered-lang/layered/internal/cli/ui"
)

var (
	modelSummary bool
	modelForce   bool
	modelNoColor bool
)

// NewModelCommand creates the model command
func NewModelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model [document]",
		Short: "Emit the resolved document model",
		Long: `Validate a layered document and emit the resolved model as JSON,
for consumption by code generators and other downstream tools.

The model is only emitted when validation produced no errors, unless
--force is given.

Examples:
  layered model > model.json
  layered model --summary
  layered model system.layered.yml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: runModel,
	}

	cmd.Flags().BoolVar(&modelSummary, "summary", false, "Print a per-layer summary instead of JSON")
	cmd.Flags().BoolVar(&modelForce, "force", false, "Emit the model even when validation failed")
	cmd.Flags().BoolVar(&modelNoColor, "no-color", false, "Disable colored output")

	return cmd
}

func runModel(cmd *cobra.Command, args []string) error {
	path, err := documentPath(args)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read document: %w", err)
	}

	doc, diags := validator.ValidateSource(data)

	if diags.HasErrors() && !modelForce {
		ui.RenderDiagnostics(cmd.ErrOrStderr(), path, diags, ui.RenderOptions{NoColor: modelNoColor})
		return fmt.Errorf("document has errors; re-run with --force to emit the model anyway")
	}

	if modelSummary {
		renderModelSummary(cmd, doc)
		return nil
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode model: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

func renderModelSummary(cmd *cobra.Command, doc *document.Document) {
	out := cmd.OutOrStdout()

	kv := ui.NewKeyValueTable(out, modelNoColor)
	kv.AddRow("project", doc.Project.Name)
	kv.AddRow("entities", strconv.Itoa(len(doc.Entities)))
	kv.AddRow("custom types", strconv.Itoa(len(doc.CustomTypes)))
	kv.AddRow("operations", strconv.Itoa(len(doc.Operations)))
	kv.AddRow("components", strconv.Itoa(len(doc.Components)))
	kv.AddRow("workflows", strconv.Itoa(len(doc.Workflows)))
	kv.AddRow("pages", strconv.Itoa(len(doc.Pages)))
	kv.Render()
	fmt.Fprintln(out)

	if len(doc.Entities) > 0 {
		ui.Header(out, "Entities", modelNoColor)
		table := ui.NewTable(out, []string{"NAME", "FIELDS", "RELATIONSHIPS"}, modelNoColor)
		for _, e := range doc.Entities {
			table.AddRow(e.Name,
				strconv.Itoa(len(e.Fields)),
				strconv.Itoa(relationshipCount(doc, e.Name)))
		}
		table.Render()
		fmt.Fprintln(out)
	}

	if len(doc.Operations) > 0 {
		ui.Header(out, "Operations", modelNoColor)
		table := ui.NewTable(out, []string{"NAME", "MODIFIES", "ERRORS"}, modelNoColor)
		for _, op := range doc.Operations {
			table.AddRow(op.Name, refNames(op.Modifies), refNames(op.Errors))
		}
		table.Render()
	}
}

func relationshipCount(doc *document.Document, entity string) int {
	n := 0
	for _, rel := range doc.Relationships {
		if rel.From == entity {
			n++
		}
	}
	return n
}

func refNames(refs []*document.Ref) string {
	if len(refs) == 0 {
		return "-"
	}
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	return strings.Join(names, ", ")
}
