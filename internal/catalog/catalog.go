// Package catalog manages tool catalogs: loading prompt files, merging
// them into the global default catalog, scaffolding new prompt templates
// and reporting which configured tools are actually installed.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"nlrun/internal/domain"
)

// ErrNoToolsInPrompt is returned when an imported prompt file defines no tools.
var ErrNoToolsInPrompt = errors.New("prompt config must define at least one tool")

// LoadFile parses a standalone prompt catalog from a YAML file.
func LoadFile(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read prompt file %s: %w", path, err)
	}

	var catalog domain.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse prompt file %s: %w", path, err)
	}

	for _, tool := range catalog.Tools {
		if strings.TrimSpace(tool.Name) == "" {
			return domain.Catalog{}, fmt.Errorf("prompt file %s contains a tool with an empty name", path)
		}
	}

	return catalog, nil
}

// CreateTemplate scaffolds a prompt YAML file for a single command. The
// file name defaults to the sanitized command name; customPath, when not
// empty, overrides it. Existing files are never overwritten. Returns the
// absolute path of the written file.
func CreateTemplate(command, customPath string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", errors.New("create-prompt requires a command name")
	}

	path := customPath
	if path == "" {
		path = sanitizeFilename(command) + ".yaml"
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("prompt config already exists at %s, refusing to overwrite", path)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	template := fmt.Sprintf(`metaPrompt: |
  Compose a single %[1]s command that satisfies the user request.
  Do not add shell operators or use disallowed tools.
tools:
  - name: %[1]s
    instruction: |
      Accept a natural language request and emit one %[1]s invocation.
      Include all required flags explicitly and avoid chaining other commands.
`, command)

	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return "", fmt.Errorf("write prompt template to %s: %w", path, err)
	}

	return path, nil
}

// ListTools writes the tool inventory of the global catalog, and
// optionally of an extra prompt file, to w. Every tool is annotated with
// its PATH availability.
func ListTools(w io.Writer, globalPath string, global *domain.Catalog, promptPath string) error {
	fmt.Fprintf(w, "Global config file: %s\n", globalPath)
	switch {
	case global == nil:
		fmt.Fprintln(w, "  Default prompt: not configured")
	case len(global.Tools) == 0:
		fmt.Fprintln(w, "  Tools: (none configured)")
	default:
		writeToolLines(w, global.Tools)
	}

	if promptPath == "" {
		return nil
	}

	catalog, err := LoadFile(promptPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nPrompt file: %s\n", promptPath)
	if len(catalog.Tools) == 0 {
		fmt.Fprintln(w, "  Tools: (none configured)")
	} else {
		writeToolLines(w, catalog.Tools)
	}
	return nil
}

func writeToolLines(w io.Writer, tools []domain.ToolDefinition) {
	fmt.Fprintf(w, "  Tools (%d):\n", len(tools))
	for _, tool := range tools {
		fmt.Fprintf(w, "    - %s %s\n", tool.Name, Availability(tool.Name))
	}
}

// Availability reports whether a tool resolves to an executable, as
// "[x]" or "[ ]". Absolute paths are checked directly, bare names are
// looked up on PATH.
func Availability(tool string) string {
	if filepath.IsAbs(tool) {
		if info, err := os.Stat(tool); err == nil && !info.IsDir() {
			return "[x]"
		}
		return "[ ]"
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(filepath.Join(dir, tool)); err == nil && !info.IsDir() {
			return "[x]"
		}
	}
	return "[ ]"
}

func sanitizeFilename(name string) string {
	var out strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			out.WriteRune(r)
		default:
			out.WriteRune('_')
		}
	}
	sanitized := out.String()
	if strings.Trim(sanitized, "_") == "" {
		return "prompt"
	}
	return sanitized
}
