package model

import "testing"

func TestDecisionSettingsValidate(t *testing.T) {
	tests := []struct {
		name      string
		tAuto     float64
		tEscalate float64
		wantErr   bool
	}{
		{"defaults", 0.85, 0.5, false},
		{"equal thresholds", 0.7, 0.7, false},
		{"full range", 1.0, 0.0, false},
		{"tAuto above one", 1.1, 0.5, true},
		{"tAuto negative", -0.1, 0.5, true},
		{"tEscalate above one", 0.9, 1.2, true},
		{"inverted thresholds", 0.4, 0.6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &DecisionSettings{TenantID: "t1", TAuto: tt.tAuto, TEscalate: tt.tEscalate}
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultDecisionSettingsAreConservative(t *testing.T) {
	s := DefaultDecisionSettings("t1")

	if s.AutosendAllowed {
		t.Error("new tenants must start with autosend off")
	}
	if !s.SelfCheckEnabled {
		t.Error("new tenants must start with self-check on")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
	if !s.ForcesHandoff("complaint") || !s.ForcesHandoff("refund") {
		t.Error("complaint and refund must force handoff by default")
	}
}

func TestIntentLists(t *testing.T) {
	s := &DecisionSettings{
		IntentsAutosendAllowed: []string{"shipping", "faq"},
		IntentsForceHandoff:    []string{"complaint"},
	}

	if !s.AutosendIntentAllowed("shipping") {
		t.Error("shipping is on the allow-list")
	}
	if s.AutosendIntentAllowed("price") {
		t.Error("price is not on the allow-list")
	}
	if s.ForcesHandoff("shipping") {
		t.Error("shipping must not force handoff")
	}
	if !s.ForcesHandoff("complaint") {
		t.Error("complaint must force handoff")
	}
}

func TestOutcomeStatusFor(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    SuggestionStatus
		ok      bool
	}{
		{OutcomeApproved, StatusApproved, true},
		{OutcomeEdited, StatusEdited, true},
		{OutcomeRejected, StatusRejected, true},
		{Outcome("DELETED"), "", false},
	}

	for _, tt := range tests {
		got, ok := tt.outcome.StatusFor()
		if got != tt.want || ok != tt.ok {
			t.Errorf("StatusFor(%s) = (%s, %v), want (%s, %v)", tt.outcome, got, ok, tt.want, tt.ok)
		}
	}
}
