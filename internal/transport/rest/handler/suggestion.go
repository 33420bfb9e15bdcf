package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fradegh/ai-sales-sub002/internal/model"
	"github.com/fradegh/ai-sales-sub002/internal/repository"
	"github.com/fradegh/ai-sales-sub002/internal/service"
)

// SuggestionHandler handles inbound-message evaluation and operator
// outcomes
type SuggestionHandler struct {
	engine *service.Engine
	repo   repository.SuggestionRepo
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(engine *service.Engine, repo repository.SuggestionRepo) *SuggestionHandler {
	return &SuggestionHandler{
		engine: engine,
		repo:   repo,
	}
}

// Webhook handles POST /v1/webhooks/messages — one evaluation per
// inbound customer message
func (h *SuggestionHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req model.InboundMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TenantID == "" || req.ConversationID == "" || req.MessageID == "" {
		writeError(w, http.StatusBadRequest, "tenantId, conversationId and messageId are required")
		return
	}

	suggestion, err := h.engine.Evaluate(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, suggestion)
}

// GetPending handles GET /v1/conversations/{id}/suggestion
func (h *SuggestionHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	suggestion, err := h.repo.GetPendingByConversation(r.Context(), conversationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if suggestion == nil {
		writeError(w, http.StatusNotFound, "no pending suggestion for this conversation")
		return
	}

	writeJSON(w, http.StatusOK, suggestion)
}

// Outcome handles POST /v1/suggestions/{id}/outcome
func (h *SuggestionHandler) Outcome(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req model.OutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, ok := req.Outcome.StatusFor(); !ok {
		writeError(w, http.StatusBadRequest, "outcome must be APPROVED, EDITED or REJECTED")
		return
	}

	suggestion, err := h.engine.ResolveOutcome(r.Context(), id, &req)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "no pending suggestion with this id")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, suggestion)
}
