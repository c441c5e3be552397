package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nlrun/internal/domain"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// --- LoadFile ---

func TestLoadFile_ParsesPromptCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jq.yaml")
	writeFile(t, path, `metaPrompt: |
  Compose jq programs.
tools:
  - name: jq
    instruction: |
      Emit one jq invocation.
`)

	catalog, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(catalog.Tools) != 1 || catalog.Tools[0].Name != "jq" {
		t.Fatalf("tools = %+v", catalog.Tools)
	}
	if !strings.Contains(catalog.MetaPrompt, "Compose jq programs.") {
		t.Fatalf("metaPrompt = %q", catalog.MetaPrompt)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing prompt file")
	}
}

func TestLoadFile_EmptyToolName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "tools:\n  - name: \"\"\n    instruction: x\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for empty tool name")
	}
}

// --- CreateTemplate ---

func TestCreateTemplate_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd.yaml")
	written, err := CreateTemplate("cmd", path)
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if written != path {
		t.Fatalf("written = %q, want %q", written, path)
	}

	catalog, err := LoadFile(path)
	if err != nil {
		t.Fatalf("template must be loadable: %v", err)
	}
	if len(catalog.Tools) != 1 || catalog.Tools[0].Name != "cmd" {
		t.Fatalf("template tools = %+v", catalog.Tools)
	}
}

func TestCreateTemplate_DefaultNameIsSanitized(t *testing.T) {
	chdir(t, t.TempDir())
	written, err := CreateTemplate("ls|wc", "")
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if filepath.Base(written) != "ls_wc.yaml" {
		t.Fatalf("written = %q, want ls_wc.yaml", written)
	}
}

func TestCreateTemplate_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd.yaml")
	writeFile(t, path, "tools: []\n")
	if _, err := CreateTemplate("cmd", path); err == nil {
		t.Fatal("expected refusal to overwrite existing file")
	}
}

func TestCreateTemplate_EmptyCommand(t *testing.T) {
	if _, err := CreateTemplate("  ", ""); err == nil {
		t.Fatal("expected error for blank command name")
	}
}

// --- sanitizeFilename ---

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"ls|wc":   "ls_wc",
		"grep":    "grep",
		"a b/c":   "a_b_c",
		"___":     "prompt",
		"":        "prompt",
		"tool-2x": "tool-2x",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

// --- Availability / ListTools ---

func TestAvailability_MissingTool(t *testing.T) {
	if got := Availability("definitely-not-a-tool"); got != "[ ]" {
		t.Fatalf("got %q, want [ ]", got)
	}
}

func TestAvailability_FindsToolOnPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "faketool")
	writeFile(t, bin, "#!/bin/sh\n")
	t.Setenv("PATH", dir)

	if got := Availability("faketool"); got != "[x]" {
		t.Fatalf("got %q, want [x]", got)
	}
}

func TestAvailability_AbsolutePath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "abstool")
	writeFile(t, bin, "#!/bin/sh\n")

	if got := Availability(bin); got != "[x]" {
		t.Fatalf("existing absolute path: got %q", got)
	}
	if got := Availability(filepath.Join(dir, "absent")); got != "[ ]" {
		t.Fatalf("missing absolute path: got %q", got)
	}
}

func TestListTools_RendersGlobalAndPromptFile(t *testing.T) {
	promptPath := filepath.Join(t.TempDir(), "extra.yaml")
	writeFile(t, promptPath, "tools:\n  - name: sed\n    instruction: x\n")

	global := &domain.Catalog{Tools: []domain.ToolDefinition{
		{Name: "jq", Instruction: "y"},
	}}

	var out strings.Builder
	if err := ListTools(&out, "/home/u/.nlrun/config.yaml", global, promptPath); err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	for _, want := range []string{
		"Global config file: /home/u/.nlrun/config.yaml",
		"Tools (1):",
		"- jq [",
		"Prompt file: " + promptPath,
		"- sed [",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestListTools_UnconfiguredGlobal(t *testing.T) {
	var out strings.Builder
	if err := ListTools(&out, "cfg.yaml", nil, ""); err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if !strings.Contains(out.String(), "Default prompt: not configured") {
		t.Fatalf("output = %q", out.String())
	}

	out.Reset()
	if err := ListTools(&out, "cfg.yaml", &domain.Catalog{}, ""); err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if !strings.Contains(out.String(), "Tools: (none configured)") {
		t.Fatalf("output = %q", out.String())
	}
}
