package prompt

import (
	"errors"
	"fmt"
	"strings"

	"nlrun/internal/domain"
)

// ErrNoTools is returned for catalogs without a usable tool definition.
var ErrNoTools = errors.New("prompt catalog must define at least one tool")

// BuildSystemPrompt renders the catalog into the system prompt sent to
// the generation service and derives the tool whitelist from it. The two
// always come from the same catalog so the service is only ever offered
// tools the validator will accept.
func BuildSystemPrompt(catalog domain.Catalog) (string, []string, error) {
	if len(catalog.Tools) == 0 {
		return "", nil, ErrNoTools
	}

	names := make([]string, 0, len(catalog.Tools))
	instructions := make([]string, 0, len(catalog.Tools))
	for _, tool := range catalog.Tools {
		if strings.TrimSpace(tool.Name) == "" || strings.TrimSpace(tool.Instruction) == "" {
			return "", nil, fmt.Errorf("each tool must have non-empty 'name' and 'instruction' fields")
		}
		names = append(names, tool.Name)
		instructions = append(instructions, tool.Instruction)
	}

	var listing strings.Builder
	listing.WriteString("You may ONLY use the following tools:\n")
	for _, name := range names {
		fmt.Fprintf(&listing, "- %s\n", name)
	}

	var parts []string
	if meta := strings.TrimSpace(catalog.MetaPrompt); meta != "" {
		parts = append(parts, meta)
	}
	parts = append(parts, listing.String())
	parts = append(parts, "\nTool details:\n\n"+strings.Join(instructions, "\n\n"))

	return strings.TrimSpace(strings.Join(parts, "\n\n")), names, nil
}
