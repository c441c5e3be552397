package safety

// DetectOperator scans a raw command line for shell operators that change
// execution semantics beyond a single process invocation: pipes,
// redirection, command substitution, sequencing, and backgrounding.
//
// The scan works on the raw string rather than on tokens because an
// unquoted operator may sit flush against a word boundary ("ls|wc").
// Single-quoted spans neutralize everything. Double-quoted spans still
// leave $(...), ${...}, and backtick substitution live, matching how the
// shell itself treats them.
//
// It returns the offending operator and true, or "" and false when the
// command is operator-free.
func DetectOperator(raw string) (string, bool) {
	runes := []rune(raw)
	inSingle := false
	inDouble := false
	escaped := false

	peek := func(i int) rune {
		if i+1 < len(runes) {
			return runes[i+1]
		}
		return 0
	}

	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case c == '\\' && !inSingle:
			escaped = true
			continue
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			continue
		case c == '"' && !inSingle:
			inDouble = !inDouble
			continue
		}

		if inSingle {
			continue
		}

		// Substitution is live even inside double quotes.
		switch c {
		case '$':
			switch peek(i) {
			case '(':
				return "$(...)", true
			case '{':
				return "${...}", true
			}
		case '`':
			return "`...`", true
		}

		if inDouble {
			continue
		}

		switch c {
		case '|':
			switch peek(i) {
			case '|':
				return "||", true
			case '&':
				return "|&", true
			}
			return "|", true
		case '&':
			if peek(i) == '&' {
				return "&&", true
			}
			return "&", true
		case ';':
			return ";", true
		case '>':
			switch peek(i) {
			case '>':
				return ">>", true
			case '(':
				return ">(", true
			}
			return ">", true
		case '<':
			switch peek(i) {
			case '<':
				return "<<", true
			case '(':
				return "<(", true
			}
			return "<", true
		}
	}

	return "", false
}
