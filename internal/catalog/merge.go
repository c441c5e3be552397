package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"nlrun/internal/domain"
)

// ResolverIO abstracts the terminal interaction used to resolve tool
// name conflicts during an import. Tests substitute a scripted fake.
type ResolverIO interface {
	IsInteractive() bool
	WriteString(s string) error
	// ReadLine returns the next input line. io.EOF means the user
	// closed the stream, which cancels the import.
	ReadLine() (string, error)
}

// StdioResolver resolves conflicts against the process stdin/stdout.
type StdioResolver struct {
	reader *bufio.Reader
}

// NewStdioResolver returns a resolver bound to os.Stdin and os.Stdout.
func NewStdioResolver() *StdioResolver {
	return &StdioResolver{reader: bufio.NewReader(os.Stdin)}
}

func (r *StdioResolver) IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (r *StdioResolver) WriteString(s string) error {
	if _, err := os.Stdout.WriteString(s); err != nil {
		return fmt.Errorf("write duplicate resolution prompt: %w", err)
	}
	return nil
}

func (r *StdioResolver) ReadLine() (string, error) {
	line, err := r.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return line, nil
}

// MergeResult is the outcome of a catalog import. Cancelled imports
// leave the global catalog untouched.
type MergeResult struct {
	Tools     []domain.ToolDefinition
	Cancelled bool
}

// Merge folds incoming tool definitions into the existing ones. Name
// collisions are resolved interactively: the user chooses per tool to
// overwrite the global definition, skip the imported one, or cancel the
// whole import. A collision on a non-interactive stream is an error.
func Merge(existing, incoming []domain.ToolDefinition, promptLabel string, rio ResolverIO) (MergeResult, error) {
	merged := make([]domain.ToolDefinition, len(existing))
	copy(merged, existing)

	for _, tool := range incoming {
		pos := indexOf(merged, tool.Name)
		if pos < 0 {
			merged = append(merged, tool)
			continue
		}

		if !rio.IsInteractive() {
			return MergeResult{}, fmt.Errorf(
				"tool '%s' already exists in the global default prompt and interactive resolution is required; re-run in a TTY to choose overwrite, skip, or cancel",
				tool.Name)
		}

		if err := showConflict(rio, merged[pos], tool, promptLabel); err != nil {
			return MergeResult{}, err
		}

		choice, cancelled, err := askChoice(rio, tool.Name)
		if err != nil {
			return MergeResult{}, err
		}
		if cancelled {
			return MergeResult{Cancelled: true}, nil
		}
		if choice == "o" {
			merged[pos] = tool
		}
	}

	return MergeResult{Tools: merged}, nil
}

func askChoice(rio ResolverIO, toolName string) (choice string, cancelled bool, err error) {
	for {
		prompt := fmt.Sprintf(
			"Conflict for tool '%s':\n\n[O] Overwrite global definition with imported definition\n[S] Skip imported definition (keep global)\n[C] Cancel entire import\n\nChoice [O/S/C]: ",
			toolName)
		if err := rio.WriteString(prompt); err != nil {
			return "", false, err
		}

		line, err := rio.ReadLine()
		if errors.Is(err, io.EOF) {
			return "", true, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("read duplicate resolution choice: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "o", "s":
			return strings.ToLower(strings.TrimSpace(line)), false, nil
		case "c":
			return "", true, nil
		default:
			if err := rio.WriteString("Please enter O, S, or C.\n\n"); err != nil {
				return "", false, err
			}
		}
	}
}

func showConflict(rio ResolverIO, existing, incoming domain.ToolDefinition, promptLabel string) error {
	var out strings.Builder
	fmt.Fprintf(&out, "\n=== Tool conflict detected: '%s' ===\n", existing.Name)
	out.WriteString("Current global definition:\n")
	fmt.Fprintf(&out, "name: %s\ninstruction:\n%s\n\n", existing.Name, existing.Instruction)
	fmt.Fprintf(&out, "Imported definition (from %s):\nname: %s\ninstruction:\n%s\n\n",
		promptLabel, incoming.Name, incoming.Instruction)
	return rio.WriteString(out.String())
}

func indexOf(tools []domain.ToolDefinition, name string) int {
	for i, tool := range tools {
		if tool.Name == name {
			return i
		}
	}
	return -1
}
