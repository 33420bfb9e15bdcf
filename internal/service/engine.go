package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fradegh/ai-sales-sub002/internal/cache"
	"github.com/fradegh/ai-sales-sub002/internal/model"
	"github.com/fradegh/ai-sales-sub002/internal/repository"
)

const conversationLockStripes = 64

// Engine runs the full decision pipeline for one inbound message:
// retrieval -> source detection -> self-check -> policy -> autosend gate
// -> persisted suggestion -> broadcast.
type Engine struct {
	detector       *SourceDetector
	retriever      Retriever
	selfCheck      SelfChecker
	gate           *AutosendGate
	learning       *LearningService
	suggestionRepo repository.SuggestionRepo
	settingsRepo   repository.SettingsRepo
	settingsCache  cache.SettingsCache
	broadcaster    Broadcaster

	// Evaluation is serialized per conversation so duplicate webhook
	// deliveries cannot race past the pending check. Striped to bound
	// memory; the unique index on the repository is the backstop.
	convLocks [conversationLockStripes]sync.Mutex
}

func NewEngine(
	detector *SourceDetector,
	retriever Retriever,
	selfCheck SelfChecker,
	gate *AutosendGate,
	learning *LearningService,
	suggestionRepo repository.SuggestionRepo,
	settingsRepo repository.SettingsRepo,
	settingsCache cache.SettingsCache,
) *Engine {
	return &Engine{
		detector:       detector,
		retriever:      retriever,
		selfCheck:      selfCheck,
		gate:           gate,
		learning:       learning,
		suggestionRepo: suggestionRepo,
		settingsRepo:   settingsRepo,
		settingsCache:  settingsCache,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (e *Engine) SetBroadcaster(b Broadcaster) {
	e.broadcaster = b
}

func (e *Engine) lockFor(conversationID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(conversationID))
	return &e.convLocks[h.Sum32()%conversationLockStripes]
}

// Evaluate turns an inbound customer message into a governed suggestion.
// Collaborator failures degrade (empty sources, conservative self-check)
// rather than abort; only persistence errors abandon the evaluation.
func (e *Engine) Evaluate(ctx context.Context, req *model.InboundMessageRequest) (*model.AiSuggestion, error) {
	mu := e.lockFor(req.ConversationID)
	mu.Lock()
	defer mu.Unlock()

	existing, err := e.suggestionRepo.GetPendingByConversation(ctx, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("check pending suggestion: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	settings, err := e.getSettings(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	retrieval, err := e.retriever.Retrieve(ctx, req.TenantID, req.Text)
	if err != nil {
		// Degrade to an empty result; the NO_SOURCES penalty takes over
		log.Printf("retrieval failed for conversation %s: %v", req.ConversationID, err)
		retrieval = model.RetrievalResult{}
	}

	report := e.detector.Detect(retrieval, time.Now())

	selfCheck := model.NeutralSelfCheck()
	if settings.SelfCheckEnabled {
		selfCheck = e.selfCheck.Check(ctx, SelfCheckRequest{
			CustomerText: req.Text,
			Reply:        req.SuggestedReply,
			Sources:      report.Sources,
		})
	}

	policy := EvaluatePolicy(PolicyInput{
		Intent:        req.Intent,
		IntentScore:   req.IntentScore,
		Report:        report,
		MissingFields: req.MissingFields,
		SelfCheck:     selfCheck,
		Settings:      settings,
	})

	gateResult := e.gate.Check(ctx, policy.Decision, req.Intent, settings)

	suggestion := &model.AiSuggestion{
		ID:                   uuid.New().String(),
		TenantID:             req.TenantID,
		ConversationID:       req.ConversationID,
		MessageID:            req.MessageID,
		SuggestedReply:       req.SuggestedReply,
		Intent:               req.Intent,
		Confidence:           policy.Confidence,
		Decision:             policy.Decision,
		Explanations:         policy.Explanations,
		Penalties:            policy.Penalties,
		UsedSources:          report.Sources,
		SourceConflicts:      report.Conflicts,
		MissingFields:        req.MissingFields,
		AutosendEligible:     gateResult.Eligible,
		AutosendBlockReason:  gateResult.BlockReason,
		SelfCheckNeedHandoff: selfCheck.NeedHandoff,
		SelfCheckReasons:     selfCheck.Reasons,
		Status:               model.StatusPending,
		CreatedAt:            time.Now(),
	}

	if err := e.suggestionRepo.Create(ctx, suggestion); err != nil {
		if err == repository.ErrPendingExists {
			// Lost the race to a concurrent delivery on another
			// instance; the stored suggestion wins
			stored, getErr := e.suggestionRepo.GetPendingByConversation(ctx, req.ConversationID)
			if getErr == nil && stored != nil {
				return stored, nil
			}
			return nil, err
		}
		return nil, fmt.Errorf("persist suggestion: %w", err)
	}

	if e.broadcaster != nil {
		e.broadcaster.BroadcastToTenant(req.TenantID, "suggestion_new", suggestion)
	}

	return suggestion, nil
}

// ResolveOutcome applies the operator action to a pending suggestion and
// feeds the learning queue
func (e *Engine) ResolveOutcome(ctx context.Context, suggestionID string, req *model.OutcomeRequest) (*model.AiSuggestion, error) {
	status, ok := req.Outcome.StatusFor()
	if !ok {
		return nil, fmt.Errorf("unknown outcome %q", req.Outcome)
	}

	suggestion, err := e.suggestionRepo.GetByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}

	editedReply := ""
	if req.Outcome == model.OutcomeEdited {
		editedReply = req.EditedReply
	}
	if err := e.suggestionRepo.Resolve(ctx, suggestionID, status, editedReply); err != nil {
		return nil, err
	}
	suggestion.Status = status
	if editedReply != "" {
		suggestion.SuggestedReply = editedReply
	}

	// Best effort: a learning-queue hiccup must not fail the operator
	// action that already happened
	if err := e.learning.RecordOutcome(ctx, suggestion, req.Outcome, req.MessageCount); err != nil {
		log.Printf("learning feedback failed for conversation %s: %v", suggestion.ConversationID, err)
	}

	if e.broadcaster != nil {
		e.broadcaster.BroadcastToTenant(suggestion.TenantID, "suggestion_resolved", map[string]interface{}{
			"suggestionId":   suggestion.ID,
			"conversationId": suggestion.ConversationID,
			"status":         string(status),
		})
	}

	return suggestion, nil
}

// getSettings reads through the TTL cache; cache failures fall back to
// the repository
func (e *Engine) getSettings(ctx context.Context, tenantID string) (*model.DecisionSettings, error) {
	cached, err := e.settingsCache.Get(ctx, tenantID)
	if err == nil && cached != nil {
		return cached, nil
	}
	if err != nil {
		log.Printf("settings cache read failed for tenant %s: %v", tenantID, err)
	}

	settings, err := e.settingsRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if cacheErr := e.settingsCache.Set(ctx, settings); cacheErr != nil {
		log.Printf("settings cache write failed for tenant %s: %v", tenantID, cacheErr)
	}
	return settings, nil
}
