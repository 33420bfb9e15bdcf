package model

import "time"

// AiSuggestion is the engine's primary output artifact. Decision fields
// are computed once at creation; afterwards only the status transitions
// (pending -> approved|rejected|edited) via operator action.
type AiSuggestion struct {
	ID                   string              `json:"id" bson:"_id"`
	TenantID             string              `json:"tenantId" bson:"tenantId"`
	ConversationID       string              `json:"conversationId" bson:"conversationId"`
	MessageID            string              `json:"messageId" bson:"messageId"`
	SuggestedReply       string              `json:"suggestedReply" bson:"suggestedReply"`
	Intent               string              `json:"intent" bson:"intent"`
	Confidence           Confidence          `json:"confidence" bson:"confidence"`
	Decision             Decision            `json:"decision" bson:"decision"`
	Explanations         []string            `json:"explanations" bson:"explanations"`
	Penalties            []Penalty           `json:"penalties" bson:"penalties"`
	UsedSources          []UsedSource        `json:"usedSources" bson:"usedSources"`
	SourceConflicts      bool                `json:"sourceConflicts" bson:"sourceConflicts"`
	MissingFields        []string            `json:"missingFields,omitempty" bson:"missingFields,omitempty"`
	AutosendEligible     bool                `json:"autosendEligible" bson:"autosendEligible"`
	AutosendBlockReason  AutosendBlockReason `json:"autosendBlockReason,omitempty" bson:"autosendBlockReason,omitempty"`
	SelfCheckNeedHandoff bool                `json:"selfCheckNeedHandoff" bson:"selfCheckNeedHandoff"`
	SelfCheckReasons     []string            `json:"selfCheckReasons,omitempty" bson:"selfCheckReasons,omitempty"`
	Status               SuggestionStatus    `json:"status" bson:"status"`
	CreatedAt            time.Time           `json:"createdAt" bson:"createdAt"`
	ResolvedAt           *time.Time          `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}

// InboundMessageRequest is the webhook body posted by channel adapters
// for each customer message, with the drafted reply and intent already
// attached by the upstream pipeline.
type InboundMessageRequest struct {
	TenantID       string   `json:"tenantId"`
	ConversationID string   `json:"conversationId"`
	MessageID      string   `json:"messageId"`
	Text           string   `json:"text"`
	SuggestedReply string   `json:"suggestedReply"`
	Intent         string   `json:"intent"`
	IntentScore    float64  `json:"intentScore"`
	MissingFields  []string `json:"missingFields,omitempty"`
}

// OutcomeRequest records the operator's action on a suggestion
type OutcomeRequest struct {
	Outcome      Outcome `json:"outcome"`
	EditedReply  string  `json:"editedReply,omitempty"`
	MessageCount int     `json:"messageCount"`
}
