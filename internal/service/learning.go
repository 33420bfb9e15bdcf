package service

import (
	"context"
	"fmt"

	"github.com/fradegh/ai-sales-sub002/internal/model"
	"github.com/fradegh/ai-sales-sub002/internal/repository"
)

// longConversationThreshold is the message count above which a
// conversation earns the LONG_CONVERSATION learning signal.
const longConversationThreshold = 10

// LearningService scores human outcomes and feeds the retraining queue
type LearningService struct {
	suggestionRepo repository.SuggestionRepo
	learningRepo   repository.LearningRepo
}

func NewLearningService(suggestionRepo repository.SuggestionRepo, learningRepo repository.LearningRepo) *LearningService {
	return &LearningService{
		suggestionRepo: suggestionRepo,
		learningRepo:   learningRepo,
	}
}

// ScoreOutcome computes the retraining priority for a resolved
// suggestion. Pure; the fixed weights live on model.LearningReason.
func ScoreOutcome(suggestion *model.AiSuggestion, outcome model.Outcome, messageCount int, multipleRejections bool) (int, []model.LearningReason) {
	var reasons []model.LearningReason

	if suggestion.Decision == model.DecisionEscalate {
		reasons = append(reasons, model.LearningEscalated)
	}
	if outcome == model.OutcomeEdited {
		reasons = append(reasons, model.LearningEdited)
	}
	if hasPenalty(suggestion.Penalties, model.PenaltyLowSimilarity) {
		reasons = append(reasons, model.LearningLowSimilarity)
	}
	if hasPenalty(suggestion.Penalties, model.PenaltyStaleData) {
		reasons = append(reasons, model.LearningStaleData)
	}
	if messageCount > longConversationThreshold {
		reasons = append(reasons, model.LearningLongConversation)
	}
	if multipleRejections {
		reasons = append(reasons, model.LearningMultipleRejections)
	}

	score := 0
	for _, r := range reasons {
		score += r.Weight()
	}
	return score, reasons
}

// RecordOutcome upserts the learning-queue item for the conversation.
// A zero score performs no write.
func (s *LearningService) RecordOutcome(ctx context.Context, suggestion *model.AiSuggestion, outcome model.Outcome, messageCount int) error {
	rejected, err := s.suggestionRepo.CountByConversationAndStatus(ctx, suggestion.ConversationID, model.StatusRejected)
	if err != nil {
		return fmt.Errorf("count rejections: %w", err)
	}

	score, reasons := ScoreOutcome(suggestion, outcome, messageCount, rejected >= 2)
	if score == 0 {
		return nil
	}

	return s.learningRepo.Upsert(ctx, &model.LearningQueueItem{
		ConversationID: suggestion.ConversationID,
		TenantID:       suggestion.TenantID,
		LearningScore:  score,
		Reasons:        reasons,
	})
}

func hasPenalty(penalties []model.Penalty, code model.PenaltyCode) bool {
	for _, p := range penalties {
		if p.Code == code {
			return true
		}
	}
	return false
}
