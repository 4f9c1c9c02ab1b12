package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	newInteractive bool
	newTemplate    string
	newPort        int
)

// templateNames lists the built-in starter documents
var templateNames = []string{"minimal", "service"}

// validateProjectName validates project name with security checks
func validateProjectName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) == 0 || len(name) > 100 {
		return fmt.Errorf("project name must be 1-100 characters")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("project name cannot be an absolute path")
	}

	matched, _ := regexp.MatchString(`^[a-zA-Z0-9_-]+$`, name)
	if !matched {
		return fmt.Errorf("project name can only contain letters, numbers, dashes, and underscores")
	}
	return nil
}

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Create a new layered project",
		Long: `Create a new layered project directory with a starter document and
configuration.

If no project name is provided, you will be prompted to enter one.

Templates:
  minimal - project and domain layers only
  service - all ten layers with a worked billing example

Examples:
  layered new my-system
  layered new my-system --template service
  layered new --interactive`,
		RunE: runNew,
	}

	cmd.Flags().BoolVarP(&newInteractive, "interactive", "i", false, "Interactive project setup with prompts")
	cmd.Flags().StringVarP(&newTemplate, "template", "t", "minimal", "Starter template (minimal, service)")
	cmd.Flags().IntVar(&newPort, "port", 8420, "Default validation server port")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	var projectName string
	if len(args) > 0 {
		projectName = args[0]
	}

	if newInteractive {
		if err := promptProjectSetup(&projectName); err != nil {
			return err
		}
	}
	if projectName == "" {
		prompt := &survey.Input{Message: "Project name:"}
		if err := survey.AskOne(prompt, &projectName); err != nil {
			return err
		}
	}
	if err := validateProjectName(projectName); err != nil {
		return err
	}
	if !validTemplate(newTemplate) {
		return fmt.Errorf("unknown template %q (available: %s)",
			newTemplate, strings.Join(templateNames, ", "))
	}

	if _, err := os.Stat(projectName); err == nil {
		return fmt.Errorf("directory %s already exists", projectName)
	}
	if err := os.MkdirAll(projectName, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	files := map[string]string{
		"layered.yml":     projectConfig(projectName),
		"app.layered.yml": starterDocument(projectName, newTemplate),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(projectName, name), []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	out := cmd.OutOrStdout()
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	successColor.Fprintf(out, "✓ Created project %s\n", projectName)
	infoColor.Fprintf(out, "\nNext steps:\n")
	infoColor.Fprintf(out, "  cd %s\n", projectName)
	infoColor.Fprintf(out, "  layered validate\n")

	return nil
}

func promptProjectSetup(projectName *string) error {
	questions := []*survey.Question{}
	if *projectName == "" {
		questions = append(questions, &survey.Question{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Project name:"},
			Validate: survey.Required,
		})
	}
	questions = append(questions,
		&survey.Question{
			Name: "template",
			Prompt: &survey.Select{
				Message: "Starter template:",
				Options: templateNames,
				Default: "minimal",
			},
		},
	)

	answers := struct {
		Name     string
		Template string
	}{Name: *projectName}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}
	if answers.Name != "" {
		*projectName = answers.Name
	}
	newTemplate = answers.Template
	return nil
}

func validTemplate(name string) bool {
	for _, t := range templateNames {
		if t == name {
			return true
		}
	}
	return false
}

func projectConfig(name string) string {
	return fmt.Sprintf(`project_name: %s
document: app.layered.yml
server:
  host: localhost
  port: %d
validate:
  strict: false
`, name, newPort)
}

func starterDocument(name, template string) string {
	if template == "service" {
		return fmt.Sprintf(`project:
  name: %s
  version: "0.1"

domain:
  types:
    Money: "decimal{min: 0}"
  Customer:
    id: uuid
    email: "string{format: email}"
  Invoice:
    id: uuid
    customer: reference[Customer]
    total: Money

logic:
  CreateInvoice:
    inputs:
      customer: reference[Customer]
      total: Money
    output: Invoice
    modifies: [Invoice]
    errors: [CustomerNotFound]

components:
  billing:
    kind: service
    responsibilities: [CreateInvoice]

workflow:
  invoicing:
    steps:
      - call: CreateInvoice

ui:
  invoices:
    route: /invoices
    entity: Invoice

security:
  roles:
    admin:
    accountant:
      inherits: [admin]
  permissions:
    - action: CreateInvoice
      allowed_roles: [accountant]

mapping:
  CreateInvoice: billing.CreateInvoice
`, name)
	}

	return fmt.Sprintf(`project:
  name: %s
  version: "0.1"

domain:
  Example:
    id: uuid
    name: string

mapping:
  unmapped: []
`, name)
}
