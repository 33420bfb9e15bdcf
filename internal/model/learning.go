package model

import "time"

// LearningReason is the closed set of signals that make a conversation
// worth a retraining review
type LearningReason string

const (
	LearningEscalated          LearningReason = "ESCALATED"
	LearningEdited             LearningReason = "EDITED"
	LearningLowSimilarity      LearningReason = "LOW_SIMILARITY"
	LearningStaleData          LearningReason = "STALE_DATA"
	LearningLongConversation   LearningReason = "LONG_CONVERSATION"
	LearningMultipleRejections LearningReason = "MULTIPLE_REJECTIONS"
)

// Fixed weight per reason; the learning score is their sum.
var learningWeights = map[LearningReason]int{
	LearningEscalated:          3,
	LearningEdited:             2,
	LearningLowSimilarity:      2,
	LearningStaleData:          3,
	LearningLongConversation:   1,
	LearningMultipleRejections: 2,
}

// Weight returns the fixed score contribution of this reason
func (r LearningReason) Weight() int {
	return learningWeights[r]
}

// LearningQueueStatus tracks review progress of a queue item
type LearningQueueStatus string

const (
	LearningStatusPending  LearningQueueStatus = "pending"
	LearningStatusReviewed LearningQueueStatus = "reviewed"
)

// LearningQueueItem is one conversation queued for retraining review.
// Keyed by conversation; repeated upserts keep the max score and the
// union of reasons.
type LearningQueueItem struct {
	ConversationID string              `json:"conversationId" bson:"_id"`
	TenantID       string              `json:"tenantId" bson:"tenantId"`
	LearningScore  int                 `json:"learningScore" bson:"learningScore"`
	Reasons        []LearningReason    `json:"reasons" bson:"reasons"`
	Status         LearningQueueStatus `json:"status" bson:"status"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}
