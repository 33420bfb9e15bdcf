package service

import "github.com/fradegh/ai-sales-sub002/internal/model"

// ComposeExplanations renders the ordered operator-facing reason list:
// intent handoff first, then penalty messages in application order, then
// self-check reasons. Pure formatting; the strings themselves live in
// the penalty table.
func ComposeExplanations(intentForced bool, penalties []model.Penalty, selfCheckReasons []string) []string {
	explanations := make([]string, 0, len(penalties)+len(selfCheckReasons)+1)
	if intentForced {
		explanations = append(explanations, model.PenaltyIntentForceHandoff.Message())
	}
	for _, p := range penalties {
		explanations = append(explanations, p.Message)
	}
	explanations = append(explanations, selfCheckReasons...)
	return explanations
}
