package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layered-lang/layered/compiler/validator"
)

func inTempDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func resetNewFlags() {
	newInteractive = false
	newTemplate = "minimal"
	newPort = 8420
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"my-system", false},
		{"my_system2", false},
		{"", true},
		{"/etc/passwd", true},
		{"has space", true},
		{"../escape", true},
	}

	for _, tt := range tests {
		err := validateProjectName(tt.name)
		if tt.wantErr {
			assert.Error(t, err, "name %q", tt.name)
		} else {
			assert.NoError(t, err, "name %q", tt.name)
		}
	}
}

func TestNewCommand_CreatesProject(t *testing.T) {
	inTempDir(t)
	resetNewFlags()

	out, err := executeCommand(t, "new", "my-system")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project my-system")

	assert.FileExists(t, filepath.Join("my-system", "layered.yml"))
	assert.FileExists(t, filepath.Join("my-system", "app.layered.yml"))
}

func TestNewCommand_RefusesExistingDirectory(t *testing.T) {
	inTempDir(t)
	resetNewFlags()
	require.NoError(t, os.Mkdir("taken", 0755))

	_, err := executeCommand(t, "new", "taken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestNewCommand_UnknownTemplate(t *testing.T) {
	inTempDir(t)
	resetNewFlags()

	_, err := executeCommand(t, "new", "my-system", "--template", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}

// Every starter template must validate cleanly.
func TestStarterDocumentsAreValid(t *testing.T) {
	for _, template := range templateNames {
		t.Run(template, func(t *testing.T) {
			source := starterDocument("demo", template)
			_, diags := validator.ValidateSource([]byte(source))
			assert.False(t, diags.HasErrors(), "template %s: %v", template, diags)
		})
	}
}
