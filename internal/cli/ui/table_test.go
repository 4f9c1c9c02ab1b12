package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"ENTITY", "FIELDS"}, true)
	table.AddRow("User", "3")
	table.AddRow("Invoice", "5")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ENTITY")
	assert.Contains(t, lines[0], "FIELDS")
	assert.Contains(t, lines[2], "User")
	assert.Contains(t, lines[3], "Invoice")

	// Columns align on the widest cell
	assert.True(t, strings.Index(lines[2], "3") == strings.Index(lines[3], "5"),
		"expected aligned columns:\n%s", buf.String())
}

func TestTableRender_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, nil, true)
	table.AddRow("orphan")
	table.Render()
	assert.Empty(t, buf.String())
}

func TestKeyValueTableRender(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("project", "billing")
	kv.AddRow("entities", "4")
	kv.Render()

	out := buf.String()
	assert.Contains(t, out, "project:")
	assert.Contains(t, out, "billing")
	assert.Contains(t, out, "entities:")
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Entities", true)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "Entities", lines[0])
	assert.Equal(t, strings.Repeat("─", len("Entities")), lines[1])
}
