package service

import (
	"github.com/fradegh/ai-sales-sub002/internal/model"
)

// PolicyInput is everything the evaluator needs for one suggestion.
// All fields are read-only; evaluation is bit-deterministic for a fixed
// input.
type PolicyInput struct {
	Intent        string
	IntentScore   float64
	Report        model.SourceReport
	MissingFields []string
	SelfCheck     model.SelfCheckResult
	Settings      *model.DecisionSettings
}

// PolicyResult is the governed decision plus its full audit trail
type PolicyResult struct {
	Confidence    model.Confidence
	Decision      model.Decision
	Penalties     []model.Penalty
	ForceEscalate bool
	IntentForced  bool
	Explanations  []string
}

// EvaluatePolicy applies the penalty table to the aggregated base
// confidence and derives the three-way decision against the tenant
// thresholds.
//
// Penalty application order is fixed: NO_SOURCES, LOW_SIMILARITY,
// STALE_DATA, CONFLICTING_SOURCES, MISSING_FIELDS. NO_SOURCES and
// LOW_SIMILARITY are mutually exclusive by construction.
func EvaluatePolicy(in PolicyInput) PolicyResult {
	result := PolicyResult{
		Penalties: make([]model.Penalty, 0, 4),
	}

	apply := func(code model.PenaltyCode) {
		result.Penalties = append(result.Penalties, model.NewPenalty(code))
		if code.ForceEscalate() {
			result.ForceEscalate = true
		}
	}

	if len(in.Report.Sources) == 0 {
		apply(model.PenaltyNoSources)
	} else if in.Report.MaxSimilarity < LowSimilarityThreshold {
		apply(model.PenaltyLowSimilarity)
	}
	if in.Report.HasStaleData {
		apply(model.PenaltyStaleData)
	}
	if in.Report.Conflicts {
		apply(model.PenaltyConflictingSources)
	}
	if len(in.MissingFields) > 0 {
		apply(model.PenaltyMissingFields)
	}

	base := AggregateConfidence(in.Report.MaxSimilarity, in.IntentScore, in.SelfCheck.Score)
	deduction := 0.0
	for _, p := range result.Penalties {
		deduction += p.Value
	}

	result.Confidence = model.Confidence{
		Similarity: clamp01(in.Report.MaxSimilarity),
		Intent:     clamp01(in.IntentScore),
		SelfCheck:  clamp01(in.SelfCheck.Score),
		Total:      clamp01(base - deduction),
	}

	// Intent-level override beats everything, including high confidence
	if in.Settings.ForcesHandoff(in.Intent) {
		result.IntentForced = true
		result.Decision = model.DecisionEscalate
	} else {
		switch {
		case result.ForceEscalate || result.Confidence.Total < in.Settings.TEscalate:
			result.Decision = model.DecisionEscalate
		case result.Confidence.Total >= in.Settings.TAuto:
			result.Decision = model.DecisionAutoSend
		default:
			result.Decision = model.DecisionNeedApproval
		}

		// A failed self-check never escalates on its own but it does
		// keep the reply away from autosend
		if result.Decision == model.DecisionAutoSend && in.SelfCheck.NeedHandoff {
			result.Decision = model.DecisionNeedApproval
		}
	}

	result.Explanations = ComposeExplanations(result.IntentForced, result.Penalties, in.SelfCheck.Reasons)

	return result
}
