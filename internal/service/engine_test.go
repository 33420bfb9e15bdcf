package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fradegh/ai-sales-sub002/internal/cache"
	"github.com/fradegh/ai-sales-sub002/internal/model"
	"github.com/fradegh/ai-sales-sub002/internal/repository"
)

// --- fakes shared across the service tests ---

type fakeSuggestionRepo struct {
	mu          sync.Mutex
	byID        map[string]*model.AiSuggestion
	createCalls int
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{byID: make(map[string]*model.AiSuggestion)}
}

func (f *fakeSuggestionRepo) EnsureIndexes(context.Context) error { return nil }

func (f *fakeSuggestionRepo) Create(_ context.Context, suggestion *model.AiSuggestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	for _, s := range f.byID {
		if s.ConversationID == suggestion.ConversationID && s.Status == model.StatusPending {
			return repository.ErrPendingExists
		}
	}
	copied := *suggestion
	f.byID[suggestion.ID] = &copied
	return nil
}

func (f *fakeSuggestionRepo) GetByID(_ context.Context, id string) (*model.AiSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSuggestionRepo) GetPendingByConversation(_ context.Context, conversationID string) (*model.AiSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		if s.ConversationID == conversationID && s.Status == model.StatusPending {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSuggestionRepo) Resolve(_ context.Context, id string, status model.SuggestionStatus, editedReply string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok || s.Status != model.StatusPending {
		return mongo.ErrNoDocuments
	}
	s.Status = status
	if editedReply != "" {
		s.SuggestedReply = editedReply
	}
	now := time.Now()
	s.ResolvedAt = &now
	return nil
}

func (f *fakeSuggestionRepo) CountByConversationAndStatus(_ context.Context, conversationID string, status model.SuggestionStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.byID {
		if s.ConversationID == conversationID && s.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeLearningRepo struct {
	items map[string]*model.LearningQueueItem
}

func newFakeLearningRepo() *fakeLearningRepo {
	return &fakeLearningRepo{items: make(map[string]*model.LearningQueueItem)}
}

func (f *fakeLearningRepo) Upsert(_ context.Context, item *model.LearningQueueItem) error {
	existing, ok := f.items[item.ConversationID]
	if !ok {
		copied := *item
		copied.Status = model.LearningStatusPending
		f.items[item.ConversationID] = &copied
		return nil
	}
	if item.LearningScore > existing.LearningScore {
		existing.LearningScore = item.LearningScore
	}
	for _, r := range item.Reasons {
		found := false
		for _, have := range existing.Reasons {
			if have == r {
				found = true
				break
			}
		}
		if !found {
			existing.Reasons = append(existing.Reasons, r)
		}
	}
	return nil
}

func (f *fakeLearningRepo) GetByConversation(_ context.Context, conversationID string) (*model.LearningQueueItem, error) {
	return f.items[conversationID], nil
}

func (f *fakeLearningRepo) ListPending(_ context.Context, tenantID string, limit int64) ([]*model.LearningQueueItem, error) {
	var out []*model.LearningQueueItem
	for _, item := range f.items {
		if item.TenantID == tenantID && item.Status == model.LearningStatusPending {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeLearningRepo) MarkReviewed(_ context.Context, conversationID string) error {
	if item, ok := f.items[conversationID]; ok {
		item.Status = model.LearningStatusReviewed
	}
	return nil
}

type fakeSettingsRepo struct {
	settings  map[string]*model.DecisionSettings
	readiness map[string]float64
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{
		settings:  make(map[string]*model.DecisionSettings),
		readiness: make(map[string]float64),
	}
}

func (f *fakeSettingsRepo) Get(_ context.Context, tenantID string) (*model.DecisionSettings, error) {
	if s, ok := f.settings[tenantID]; ok {
		return s, nil
	}
	return model.DefaultDecisionSettings(tenantID), nil
}

func (f *fakeSettingsRepo) Update(_ context.Context, settings *model.DecisionSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if settings.AutosendAllowed && f.readiness[settings.TenantID] < repository.AutosendReadinessThreshold {
		return repository.ErrAutosendNotReady
	}
	f.settings[settings.TenantID] = settings
	return nil
}

func (f *fakeSettingsRepo) GetReadiness(_ context.Context, tenantID string) (float64, error) {
	return f.readiness[tenantID], nil
}

type fakeSettingsCache struct {
	entries map[string]*model.DecisionSettings
}

func newFakeSettingsCache() *fakeSettingsCache {
	return &fakeSettingsCache{entries: make(map[string]*model.DecisionSettings)}
}

func (f *fakeSettingsCache) Get(_ context.Context, tenantID string) (*model.DecisionSettings, error) {
	return f.entries[tenantID], nil
}

func (f *fakeSettingsCache) Set(_ context.Context, settings *model.DecisionSettings) error {
	f.entries[settings.TenantID] = settings
	return nil
}

func (f *fakeSettingsCache) Invalidate(_ context.Context, tenantID string) error {
	delete(f.entries, tenantID)
	return nil
}

type fakeRetriever struct {
	result model.RetrievalResult
	err    error
}

func (f *fakeRetriever) Retrieve(context.Context, string, string) (model.RetrievalResult, error) {
	return f.result, f.err
}

type fakeSelfChecker struct {
	result model.SelfCheckResult
}

func (f *fakeSelfChecker) Check(context.Context, SelfCheckRequest) model.SelfCheckResult {
	return f.result
}

type broadcastEvent struct {
	tenantID string
	msgType  string
}

type fakeBroadcaster struct {
	events []broadcastEvent
}

func (f *fakeBroadcaster) BroadcastToTenant(tenantID string, msgType string, _ interface{}) {
	f.events = append(f.events, broadcastEvent{tenantID: tenantID, msgType: msgType})
}

type engineFixture struct {
	engine      *Engine
	suggestions *fakeSuggestionRepo
	learning    *fakeLearningRepo
	settings    *fakeSettingsRepo
	cache       *fakeSettingsCache
	retriever   *fakeRetriever
	selfCheck   *fakeSelfChecker
	broadcaster *fakeBroadcaster
	flags       *fakeFlagStore
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		suggestions: newFakeSuggestionRepo(),
		learning:    newFakeLearningRepo(),
		settings:    newFakeSettingsRepo(),
		cache:       newFakeSettingsCache(),
		retriever:   &fakeRetriever{},
		selfCheck:   &fakeSelfChecker{result: model.SelfCheckResult{Score: 1.0}},
		broadcaster: &fakeBroadcaster{},
		flags:       &fakeFlagStore{flags: map[string]bool{cache.FlagAIAutosendEnabled: true}},
	}
	f.engine = NewEngine(
		NewSourceDetector(24*time.Hour),
		f.retriever,
		f.selfCheck,
		NewAutosendGate(f.flags),
		NewLearningService(f.suggestions, f.learning),
		f.suggestions,
		f.settings,
		f.cache,
	)
	f.engine.SetBroadcaster(f.broadcaster)
	return f
}

func inbound(conversationID string) *model.InboundMessageRequest {
	return &model.InboundMessageRequest{
		TenantID:       "t1",
		ConversationID: conversationID,
		MessageID:      "m1",
		Text:           "Сколько стоит доставка?",
		SuggestedReply: "Доставка по городу бесплатная.",
		Intent:         "shipping",
		IntentScore:    0.9,
	}
}

func goodRetrieval() model.RetrievalResult {
	return model.RetrievalResult{
		ProductChunks: []model.RetrievedChunk{
			{SourceType: model.SourceTypeProduct, SourceID: "p1", ChunkText: "Доставка бесплатно", Similarity: 0.92,
				Metadata: model.ChunkMetadata{ProductName: "Доставка"}},
		},
	}
}

// --- engine scenarios ---

func TestEngine_EvaluateCreatesPendingSuggestion(t *testing.T) {
	f := newEngineFixture()
	f.retriever.result = goodRetrieval()

	suggestion, err := f.engine.Evaluate(context.Background(), inbound("c1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if suggestion.Status != model.StatusPending {
		t.Errorf("status = %s, want pending", suggestion.Status)
	}
	if suggestion.ID == "" {
		t.Error("suggestion must get an id")
	}
	if len(suggestion.UsedSources) != 1 {
		t.Errorf("usedSources = %d, want 1", len(suggestion.UsedSources))
	}
	if len(f.broadcaster.events) != 1 || f.broadcaster.events[0].msgType != "suggestion_new" {
		t.Errorf("expected one suggestion_new broadcast, got %v", f.broadcaster.events)
	}
	if f.cache.entries["t1"] == nil {
		t.Error("settings must be cached after the first read-through")
	}
}

func TestEngine_SecondMessageReturnsExistingPending(t *testing.T) {
	f := newEngineFixture()
	f.retriever.result = goodRetrieval()

	first, err := f.engine.Evaluate(context.Background(), inbound("c1"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.engine.Evaluate(context.Background(), inbound("c1"))
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != second.ID {
		t.Errorf("duplicate delivery created a second suggestion: %s vs %s", first.ID, second.ID)
	}
	if f.suggestions.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", f.suggestions.createCalls)
	}
	if len(f.broadcaster.events) != 1 {
		t.Errorf("duplicate delivery must not re-broadcast, got %v", f.broadcaster.events)
	}
}

func TestEngine_RetrievalFailureDegradesToNoSources(t *testing.T) {
	f := newEngineFixture()
	f.retriever.err = errors.New("vector search unavailable")

	suggestion, err := f.engine.Evaluate(context.Background(), inbound("c1"))
	if err != nil {
		t.Fatalf("retrieval failure must not abort the evaluation: %v", err)
	}

	if !hasCode(suggestion.Penalties, model.PenaltyNoSources) {
		t.Error("degraded retrieval must yield NO_SOURCES")
	}
	if suggestion.Decision != model.DecisionEscalate {
		t.Errorf("decision = %s, want ESCALATE", suggestion.Decision)
	}
}

func TestEngine_AutosendGateRecordsBlockReason(t *testing.T) {
	f := newEngineFixture()
	f.retriever.result = goodRetrieval()
	// Default tenant settings have autosend off; flag is on in the
	// fixture, so SETTING_OFF is the first failing lock
	req := inbound("c1")
	req.IntentScore = 0.95

	suggestion, err := f.engine.Evaluate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if suggestion.Decision != model.DecisionAutoSend {
		t.Fatalf("decision = %s, want AUTO_SEND (total=%v)", suggestion.Decision, suggestion.Confidence.Total)
	}
	if suggestion.AutosendEligible {
		t.Error("autosend must stay blocked by the tenant setting")
	}
	if suggestion.AutosendBlockReason != model.BlockSettingOff {
		t.Errorf("block reason = %s, want SETTING_OFF", suggestion.AutosendBlockReason)
	}
}

func TestEngine_ResolveOutcomeEditedFeedsLearningQueue(t *testing.T) {
	f := newEngineFixture()
	f.retriever.result = model.RetrievalResult{
		ProductChunks: []model.RetrievedChunk{
			{SourceID: "p1", ChunkText: "Цена 1500", Similarity: 0.45},
		},
	}

	suggestion, err := f.engine.Evaluate(context.Background(), inbound("c1"))
	if err != nil {
		t.Fatal(err)
	}

	resolved, err := f.engine.ResolveOutcome(context.Background(), suggestion.ID, &model.OutcomeRequest{
		Outcome:      model.OutcomeEdited,
		EditedReply:  "Уточнённый ответ",
		MessageCount: 12,
	})
	if err != nil {
		t.Fatal(err)
	}

	if resolved.Status != model.StatusEdited {
		t.Errorf("status = %s, want edited", resolved.Status)
	}
	if resolved.SuggestedReply != "Уточнённый ответ" {
		t.Errorf("edited reply not applied: %q", resolved.SuggestedReply)
	}

	item := f.learning.items["c1"]
	if item == nil {
		t.Fatal("expected a learning-queue item")
	}
	// EDITED(2) + LOW_SIMILARITY(2) + LONG_CONVERSATION(1)
	if item.LearningScore != 5 {
		t.Errorf("learningScore = %d, want 5 (reasons %v)", item.LearningScore, item.Reasons)
	}

	last := f.broadcaster.events[len(f.broadcaster.events)-1]
	if last.msgType != "suggestion_resolved" {
		t.Errorf("expected suggestion_resolved broadcast, got %v", f.broadcaster.events)
	}
}

func TestEngine_ResolveUnknownSuggestion(t *testing.T) {
	f := newEngineFixture()

	_, err := f.engine.ResolveOutcome(context.Background(), "missing", &model.OutcomeRequest{Outcome: model.OutcomeApproved})
	if err != mongo.ErrNoDocuments {
		t.Errorf("err = %v, want mongo.ErrNoDocuments", err)
	}
}
