package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fradegh/ai-sales-sub002/internal/cache"
	"github.com/fradegh/ai-sales-sub002/internal/model"
	"github.com/fradegh/ai-sales-sub002/internal/repository"
	"github.com/fradegh/ai-sales-sub002/internal/transport/rest/middleware"
)

// SettingsHandler handles tenant decision-settings endpoints
type SettingsHandler struct {
	repo          repository.SettingsRepo
	settingsCache cache.SettingsCache
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(repo repository.SettingsRepo, settingsCache cache.SettingsCache) *SettingsHandler {
	return &SettingsHandler{
		repo:          repo,
		settingsCache: settingsCache,
	}
}

// Get handles GET /v1/tenants/{tenantId}/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantId"]
	if middleware.GetTenantID(r.Context()) != tenantID {
		writeError(w, http.StatusForbidden, "token not valid for this tenant")
		return
	}

	settings, err := h.repo.Get(r.Context(), tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// Update handles PUT /v1/tenants/{tenantId}/settings. The threshold
// invariant and the autosend readiness gate are enforced here, on the
// write path; the engine never re-validates.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantId"]
	if middleware.GetTenantID(r.Context()) != tenantID {
		writeError(w, http.StatusForbidden, "token not valid for this tenant")
		return
	}

	var settings model.DecisionSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	settings.TenantID = tenantID

	err := h.repo.Update(r.Context(), &settings)
	if err == repository.ErrAutosendNotReady {
		writeError(w, http.StatusConflict, "tenant is not ready for autosend yet")
		return
	}
	if err != nil {
		if vErr := settings.Validate(); vErr != nil {
			writeError(w, http.StatusUnprocessableEntity, vErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Drop the cached copy so the engine picks up the change on the
	// next evaluation; on failure the TTL catches up
	_ = h.settingsCache.Invalidate(r.Context(), tenantID)

	writeJSON(w, http.StatusOK, &settings)
}
