package model

// SelfCheckResult is the verifier verdict over a drafted reply
type SelfCheckResult struct {
	Score       float64  `json:"score"`       // 0-1
	NeedHandoff bool     `json:"needHandoff"` // true forces the decision toward escalation
	Reasons     []string `json:"reasons,omitempty"`
}

// NeutralSelfCheck is used when a tenant has self-check disabled: full
// score, no handoff, no reasons.
func NeutralSelfCheck() SelfCheckResult {
	return SelfCheckResult{Score: 1.0}
}

// DegradedSelfCheck is the conservative verdict substituted when the
// verifier fails, times out, or returns garbage.
func DegradedSelfCheck(reason string) SelfCheckResult {
	return SelfCheckResult{
		Score:       0.3,
		NeedHandoff: true,
		Reasons:     []string{reason},
	}
}
