package safety

import (
	"fmt"
	"strings"

	"nlrun/internal/domain"
)

// DisallowedToolError reports a first token that does not match any
// whitelisted tool name. Whitelisting is never relaxed.
type DisallowedToolError struct {
	Tool    string
	Allowed []string
}

func (e *DisallowedToolError) Error() string {
	return fmt.Sprintf("Disallowed command '%s'. Allowed tools: %s",
		e.Tool, strings.Join(e.Allowed, ", "))
}

// DisallowedOperatorError reports a live shell operator found in a
// generated command while operating in safe mode.
type DisallowedOperatorError struct {
	Operator string
}

func (e *DisallowedOperatorError) Error() string {
	return fmt.Sprintf("Disallowed shell operator '%s' in generated command. "+
		"Re-run with --relaxed if you really want to execute it.", e.Operator)
}

// Validate tokenizes a raw command line and checks it against the tool
// whitelist and, in safe mode, the operator blocklist.
//
// On success it returns the non-empty token sequence. On failure it
// returns exactly one of: an error wrapping ErrMalformedCommand, a
// *DisallowedToolError, or a *DisallowedOperatorError. The verdict is
// deterministic: it depends only on the arguments, never on filesystem
// state.
func Validate(raw string, whitelist []string, mode domain.Mode) ([]string, error) {
	tokens, err := Split(raw)
	if err != nil {
		return nil, fmt.Errorf("splitting generated command: %w", err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: command is empty after parsing", ErrMalformedCommand)
	}

	first := tokens[0]
	allowed := false
	for _, name := range whitelist {
		if name == first {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, &DisallowedToolError{Tool: first, Allowed: whitelist}
	}

	if mode != domain.ModeRelaxed {
		if op, found := DetectOperator(raw); found {
			return nil, &DisallowedOperatorError{Operator: op}
		}
	}

	return tokens, nil
}
