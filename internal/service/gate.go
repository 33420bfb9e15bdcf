package service

import (
	"context"

	"github.com/fradegh/ai-sales-sub002/internal/cache"
	"github.com/fradegh/ai-sales-sub002/internal/model"
)

// AutosendGate decides whether an AUTO_SEND decision may actually bypass
// a human. Three independent locks, all must hold: the global feature
// flag, the tenant setting, and the intent allow-list. The decision
// itself is never rewritten; analytics keep the raw policy output.
type AutosendGate struct {
	flags cache.FlagStore
}

func NewAutosendGate(flags cache.FlagStore) *AutosendGate {
	return &AutosendGate{flags: flags}
}

// GateResult is the gate verdict. BlockReason is the first failing lock,
// checked in order FLAG_OFF, SETTING_OFF, INTENT_NOT_ALLOWED; empty when
// eligible or when the decision was not AUTO_SEND to begin with.
type GateResult struct {
	Eligible    bool
	BlockReason model.AutosendBlockReason
}

func (g *AutosendGate) Check(ctx context.Context, decision model.Decision, intent string, settings *model.DecisionSettings) GateResult {
	if decision != model.DecisionAutoSend {
		return GateResult{}
	}
	if !g.flags.IsEnabled(ctx, cache.FlagAIAutosendEnabled) {
		return GateResult{BlockReason: model.BlockFlagOff}
	}
	if !settings.AutosendAllowed {
		return GateResult{BlockReason: model.BlockSettingOff}
	}
	if !settings.AutosendIntentAllowed(intent) {
		return GateResult{BlockReason: model.BlockIntentNotAllowed}
	}
	return GateResult{Eligible: true}
}
