package model

// Decision is the three-way policy output for a suggestion
type Decision string

const (
	DecisionAutoSend     Decision = "AUTO_SEND"
	DecisionNeedApproval Decision = "NEED_APPROVAL"
	DecisionEscalate     Decision = "ESCALATE"
)

// AutosendBlockReason is the first failing lock of the autosend gate.
// Checked in declaration order.
type AutosendBlockReason string

const (
	BlockFlagOff          AutosendBlockReason = "FLAG_OFF"
	BlockSettingOff       AutosendBlockReason = "SETTING_OFF"
	BlockIntentNotAllowed AutosendBlockReason = "INTENT_NOT_ALLOWED"
)

// Confidence holds the three sub-scores plus the aggregated total after
// penalty deduction, all clamped to [0,1]
type Confidence struct {
	Similarity float64 `json:"similarity" bson:"similarity"`
	Intent     float64 `json:"intent" bson:"intent"`
	SelfCheck  float64 `json:"selfCheck" bson:"selfCheck"`
	Total      float64 `json:"total" bson:"total"`
}

// SuggestionStatus tracks the human-review lifecycle of a suggestion
type SuggestionStatus string

const (
	StatusPending  SuggestionStatus = "pending"
	StatusApproved SuggestionStatus = "approved"
	StatusRejected SuggestionStatus = "rejected"
	StatusEdited   SuggestionStatus = "edited"
)

// Outcome is the human action on a pending suggestion
type Outcome string

const (
	OutcomeApproved Outcome = "APPROVED"
	OutcomeEdited   Outcome = "EDITED"
	OutcomeRejected Outcome = "REJECTED"
)

// StatusFor maps a human outcome to the resulting suggestion status
func (o Outcome) StatusFor() (SuggestionStatus, bool) {
	switch o {
	case OutcomeApproved:
		return StatusApproved, true
	case OutcomeEdited:
		return StatusEdited, true
	case OutcomeRejected:
		return StatusRejected, true
	}
	return "", false
}
