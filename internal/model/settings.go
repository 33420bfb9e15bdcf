package model

import (
	"fmt"
	"time"
)

// DecisionSettings are the per-tenant thresholds and autosend toggles.
// Mutated only through the settings endpoint; the engine reads them
// through the cache and never writes.
type DecisionSettings struct {
	TenantID               string    `json:"tenantId" bson:"_id"`
	TAuto                  float64   `json:"tAuto" bson:"tAuto"`
	TEscalate              float64   `json:"tEscalate" bson:"tEscalate"`
	AutosendAllowed        bool      `json:"autosendAllowed" bson:"autosendAllowed"`
	IntentsAutosendAllowed []string  `json:"intentsAutosendAllowed" bson:"intentsAutosendAllowed"`
	IntentsForceHandoff    []string  `json:"intentsForceHandoff" bson:"intentsForceHandoff"`
	SelfCheckEnabled       bool      `json:"selfCheckEnabled" bson:"selfCheckEnabled"`
	UpdatedAt              time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DefaultDecisionSettings returns the conservative defaults a tenant
// starts with: no autosend, self-check on.
func DefaultDecisionSettings(tenantID string) *DecisionSettings {
	return &DecisionSettings{
		TenantID:            tenantID,
		TAuto:               0.85,
		TEscalate:           0.5,
		AutosendAllowed:     false,
		IntentsForceHandoff: []string{"complaint", "refund"},
		SelfCheckEnabled:    true,
	}
}

// Validate enforces the settings-write invariants. The engine assumes
// any stored settings already passed this.
func (s *DecisionSettings) Validate() error {
	if s.TAuto < 0 || s.TAuto > 1 {
		return fmt.Errorf("tAuto must be in [0,1], got %v", s.TAuto)
	}
	if s.TEscalate < 0 || s.TEscalate > 1 {
		return fmt.Errorf("tEscalate must be in [0,1], got %v", s.TEscalate)
	}
	if s.TAuto < s.TEscalate {
		return fmt.Errorf("tAuto (%v) must be >= tEscalate (%v)", s.TAuto, s.TEscalate)
	}
	return nil
}

// ForcesHandoff reports whether the intent is on the tenant's mandatory
// operator-handoff list
func (s *DecisionSettings) ForcesHandoff(intent string) bool {
	for _, i := range s.IntentsForceHandoff {
		if i == intent {
			return true
		}
	}
	return false
}

// AutosendIntentAllowed reports whether the intent is on the autosend
// allow-list
func (s *DecisionSettings) AutosendIntentAllowed(intent string) bool {
	for _, i := range s.IntentsAutosendAllowed {
		if i == intent {
			return true
		}
	}
	return false
}
