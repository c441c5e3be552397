package domain

import "context"

// Runner launches a validated command and reports its exit code.
//
// In safe mode tokens are spawned directly (first token is the process
// image); in relaxed mode the raw command line is delegated to the
// platform shell. A spawn failure is returned as an error, distinct from
// a nonzero exit code of a process that did run.
type Runner interface {
	Run(ctx context.Context, raw string, tokens []string, mode Mode) (int, error)
}
