package domain

// Mode selects how a validated command is executed.
type Mode string

const (
	// ModeSafe spawns the first token directly with literal arguments.
	// No shell is involved and operator blocking is active.
	ModeSafe Mode = "safe"
	// ModeRelaxed hands the whole command line to the platform shell.
	// Operator blocking is disabled; confirmation is always mandatory.
	ModeRelaxed Mode = "relaxed"
)
