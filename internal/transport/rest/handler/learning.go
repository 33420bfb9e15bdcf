package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fradegh/ai-sales-sub002/internal/repository"
	"github.com/fradegh/ai-sales-sub002/internal/transport/rest/middleware"
)

// LearningHandler exposes the retraining review queue
type LearningHandler struct {
	repo repository.LearningRepo
}

// NewLearningHandler creates a new learning handler
func NewLearningHandler(repo repository.LearningRepo) *LearningHandler {
	return &LearningHandler{repo: repo}
}

// List handles GET /v1/learning-queue — highest-priority items first
func (h *LearningHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	items, err := h.repo.ListPending(r.Context(), tenantID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// MarkReviewed handles POST /v1/learning-queue/{conversationId}/reviewed
func (h *LearningHandler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]

	if err := h.repo.MarkReviewed(r.Context(), conversationID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reviewed"})
}
