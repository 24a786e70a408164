package seed

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "glossary.yaml")

	yamlContent := `---
groups:
  - name: hardware
  - name: legacy
    disabled: true
abbreviations:
  - name: CPU
    description: Central Processing Unit
    groups: [hardware]
  - name: PC
    descriptions:
      - Personal Computer
      - Program Counter
exceptions:
  - name: OK
    comment: interjection
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	f, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(f.Groups) != 2 || !f.Groups[1].Disabled {
		t.Errorf("Groups = %+v", f.Groups)
	}
	if len(f.Abbreviations) != 2 {
		t.Fatalf("Abbreviations = %+v", f.Abbreviations)
	}
	if got := f.Abbreviations[1].allDescriptions(); len(got) != 2 {
		t.Errorf("PC descriptions = %v", got)
	}
	if len(f.Exceptions) != 1 || f.Exceptions[0].Comment != "interjection" {
		t.Errorf("Exceptions = %+v", f.Exceptions)
	}
}

func TestLoaderLoadWithEnvVariables(t *testing.T) {
	t.Setenv("ABBR_TEST_TEAM", "platform")
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "glossary.yaml")

	yamlContent := `groups:
  - name: ${ABBR_TEST_TEAM}
    comment: costs $5 and ${ABBR_TEST_UNSET_VAR}done
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	f, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Groups[0].Name != "platform" {
		t.Errorf("group name = %q, want platform", f.Groups[0].Name)
	}
	if f.Groups[0].Comment != "costs $5 and done" {
		t.Errorf("comment = %q", f.Groups[0].Comment)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	_, err := NewLoader("/nonexistent/path/glossary.yaml").Load()
	if err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "broken.yaml")
	if err := os.WriteFile(yamlPath, []byte("groups: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	if _, err := NewLoader(yamlPath).Load(); err == nil {
		t.Error("Load() with invalid yaml should return error")
	}
}
