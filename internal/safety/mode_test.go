package safety

import (
	"testing"

	"nlrun/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

// --- ResolveMode: rule table ---

func TestResolveMode_RuleTable(t *testing.T) {
	cases := []struct {
		name                          string
		relaxed, confirm, explain     bool
		force                         *bool
		wantMode                      domain.Mode
		wantConfirm, wantExplanation bool
	}{
		{"all unset", false, false, false, nil, domain.ModeSafe, false, false},
		{"force explain false is same as unset", false, false, false, boolPtr(false), domain.ModeSafe, false, false},
		{"tool forces explanation", false, false, false, boolPtr(true), domain.ModeSafe, true, true},
		{"explain flag", false, false, true, nil, domain.ModeSafe, true, true},
		{"explicit confirm", false, true, false, nil, domain.ModeSafe, true, false},
		{"explicit confirm with explain", false, true, true, nil, domain.ModeSafe, true, true},
		{"confirm overrides tool force", false, true, false, boolPtr(true), domain.ModeSafe, true, false},
		{"relaxed", true, false, false, nil, domain.ModeRelaxed, true, false},
		{"relaxed with explain", true, false, true, nil, domain.ModeRelaxed, true, true},
		{"relaxed overrides tool force", true, false, false, boolPtr(true), domain.ModeRelaxed, true, false},
		{"relaxed with everything", true, true, true, boolPtr(true), domain.ModeRelaxed, true, true},
	}

	for _, tc := range cases {
		got := ResolveMode(tc.relaxed, tc.confirm, tc.explain, tc.force)
		if got.Mode != tc.wantMode {
			t.Errorf("%s: mode %v, want %v", tc.name, got.Mode, tc.wantMode)
		}
		if got.ConfirmationRequired != tc.wantConfirm {
			t.Errorf("%s: confirmation %v, want %v", tc.name, got.ConfirmationRequired, tc.wantConfirm)
		}
		if got.ExplanationRequired != tc.wantExplanation {
			t.Errorf("%s: explanation %v, want %v", tc.name, got.ExplanationRequired, tc.wantExplanation)
		}
	}
}

func TestResolveMode_RelaxedAlwaysRequiresConfirmation(t *testing.T) {
	forces := []*bool{nil, boolPtr(false), boolPtr(true)}
	for _, confirm := range []bool{false, true} {
		for _, explain := range []bool{false, true} {
			for _, force := range forces {
				res := ResolveMode(true, confirm, explain, force)
				if !res.ConfirmationRequired {
					t.Fatalf("relaxed mode without confirmation (confirm=%v explain=%v force=%v)",
						confirm, explain, force)
				}
				if res.Mode != domain.ModeRelaxed {
					t.Fatalf("expected relaxed mode, got %v", res.Mode)
				}
			}
		}
	}
}

func TestResolveMode_ExplanationImpliesConfirmation(t *testing.T) {
	forces := []*bool{nil, boolPtr(false), boolPtr(true)}
	for _, relaxed := range []bool{false, true} {
		for _, confirm := range []bool{false, true} {
			for _, explain := range []bool{false, true} {
				for _, force := range forces {
					res := ResolveMode(relaxed, confirm, explain, force)
					if res.ExplanationRequired && !res.ConfirmationRequired {
						t.Fatalf("explanation without confirmation (relaxed=%v confirm=%v explain=%v)",
							relaxed, confirm, explain)
					}
				}
			}
		}
	}
}
