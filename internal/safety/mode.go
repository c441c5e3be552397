package safety

import "nlrun/internal/domain"

// Resolution is the effective execution mode for one invocation.
type Resolution struct {
	Mode                 domain.Mode
	ConfirmationRequired bool
	ExplanationRequired  bool
}

// ResolveMode combines the operator flags with the matched tool's
// force-explain policy.
//
// Relaxed mode always requires confirmation, and so does an explanation:
// explaining a command without the chance to cancel it would be
// pointless. The tool policy only forces an explanation when the
// operator asked for nothing themselves.
func ResolveMode(relaxed, confirm, explain bool, toolForceExplain *bool) Resolution {
	mode := domain.ModeSafe
	if relaxed {
		mode = domain.ModeRelaxed
	}

	forced := toolForceExplain != nil && *toolForceExplain

	explanation := explain
	if !relaxed && !confirm && forced {
		explanation = true
	}

	return Resolution{
		Mode:                 mode,
		ConfirmationRequired: relaxed || confirm || explain || forced,
		ExplanationRequired:  explanation,
	}
}
