package prompt

import (
	"fmt"
	"os"
	"strings"
)

// PeekMaxBytes caps how much of each --peek file is forwarded. The
// samples exist to let the service infer structure and field names, not
// to ship whole datasets.
const PeekMaxBytes = 16 * 1024

// BuildPeekContext reads each peek file, truncates it, and assembles the
// fenced sample-data block sent alongside the prompt. An empty file list
// yields an empty context.
func BuildPeekContext(peekFiles []string) (string, error) {
	if len(peekFiles) == 0 {
		return "", nil
	}

	var out strings.Builder
	for i, path := range peekFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read peek file %s: %w", path, err)
		}

		truncated := data
		if len(truncated) > PeekMaxBytes {
			truncated = truncated[:PeekMaxBytes]
		}

		fmt.Fprintf(&out, "=== Sample %d: %s ===\n", i+1, path)
		if len(data) > PeekMaxBytes {
			fmt.Fprintf(&out, "(truncated after %d bytes)\n", PeekMaxBytes)
		}
		out.WriteString("```text\n")
		out.Write(truncated)
		out.WriteString("\n```\n\n")
	}

	return out.String(), nil
}
