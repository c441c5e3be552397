package safety

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrMalformedCommand marks command lines whose quoting never terminates.
var ErrMalformedCommand = errors.New("malformed command")

// Split breaks a raw command line into shell-like tokens: whitespace
// delimits words, single- and double-quoted spans form one token with the
// quotes stripped, and a backslash outside single quotes escapes the next
// character. Inside double quotes a backslash is only special before the
// characters it can escape there ($, `, ", \, newline); before anything
// else it stays a literal backslash, as in POSIX word splitting. A quoted
// operator character ("a|b") therefore stays literal text inside its
// token.
func Split(raw string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	inSingle := false
	inDouble := false
	escaped := false

	for _, r := range raw {
		switch {
		case escaped:
			if inDouble && !escapableInDoubleQuotes(r) {
				cur.WriteRune('\\')
			}
			cur.WriteRune(r)
			inToken = true
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
			inToken = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			inToken = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			inToken = true
		case unicode.IsSpace(r) && !inSingle && !inDouble:
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}

	if inSingle || inDouble {
		return nil, fmt.Errorf("%w: unterminated quote", ErrMalformedCommand)
	}
	if escaped {
		return nil, fmt.Errorf("%w: trailing escape character", ErrMalformedCommand)
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}

	return tokens, nil
}

// escapableInDoubleQuotes reports whether a backslash escapes r inside a
// double-quoted span.
func escapableInDoubleQuotes(r rune) bool {
	switch r {
	case '$', '`', '"', '\\', '\n':
		return true
	}
	return false
}
