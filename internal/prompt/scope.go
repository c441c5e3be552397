package prompt

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ScopeDotMaxBytes caps the directory listing substituted for "--scope .".
const ScopeDotMaxBytes = 8 * 1024

const truncationNote = "(truncated directory listing)"

// ExpandScope turns a --scope value into the hint passed to the model.
// The literal "." expands into a listing of the current directory; any
// other value passes through untouched.
func ExpandScope(scope string) (string, error) {
	if scope != "." {
		return scope, nil
	}
	return BuildScopeListing()
}

// BuildScopeListing replaces the "." scope with a sorted listing of the
// current directory, directories suffixed with "/", capped at
// ScopeDotMaxBytes with a trailing truncation note.
func BuildScopeListing() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine current directory: %w", err)
	}

	dirEntries, err := os.ReadDir(cwd)
	if err != nil {
		return "", fmt.Errorf("list directory %s: %w", cwd, err)
	}

	names := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	maxContent := ScopeDotMaxBytes - len(truncationNote) - 1

	var listing strings.Builder
	truncated := false
	for _, name := range names {
		addition := len(name)
		if listing.Len() > 0 {
			addition++
		}
		if listing.Len()+addition > maxContent {
			truncated = true
			break
		}
		if listing.Len() > 0 {
			listing.WriteByte('\n')
		}
		listing.WriteString(name)
	}

	if truncated {
		if listing.Len() > 0 {
			listing.WriteByte('\n')
		}
		listing.WriteString(truncationNote)
	}

	return listing.String(), nil
}
