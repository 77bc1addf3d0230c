package handlers

import (
	"net/http"

	"recall-backend/application/services"
	"recall-backend/domain/graph"
	"recall-backend/pkg/auth"
	"recall-backend/pkg/common"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ScopeHandler handles view scope state transitions
type ScopeHandler struct {
	controller *services.ViewScopeController
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewScopeHandler creates a new scope handler
func NewScopeHandler(controller *services.ViewScopeController, logger *zap.Logger) *ScopeHandler {
	return &ScopeHandler{
		controller: controller,
		validate:   validator.New(),
		logger:     logger,
	}
}

// UpdateScopeRequest is the PUT /view-scope payload
type UpdateScopeRequest struct {
	Combined bool   `json:"combined"`
	Mode     string `json:"mode" validate:"required,oneof=student parent job"`
}

// GetScope handles GET /view-scope
func (h *ScopeHandler) GetScope(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	common.RespondJSON(w, http.StatusOK, h.controller.Current(userCtx.UserID))
}

// UpdateScope handles PUT /view-scope: one transition, one pipeline run
func (h *ScopeHandler) UpdateScope(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req UpdateScopeRequest
	if err := common.ParseJSONBody(r, &req, 1<<16); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	snapshot, err := h.controller.SetScope(r.Context(), userCtx.UserID, graph.NewViewScope(req.Combined, req.Mode))
	if err != nil {
		h.logger.Error("scope transition failed",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to apply scope change")
		return
	}

	common.RespondJSON(w, http.StatusOK, snapshotSummary(snapshot))
}

// Refresh handles POST /view-scope/refresh
func (h *ScopeHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	snapshot, err := h.controller.Refresh(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("refresh failed",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to refresh")
		return
	}

	common.RespondJSON(w, http.StatusOK, snapshotSummary(snapshot))
}

func snapshotSummary(s *services.ScopeSnapshot) map[string]any {
	return map[string]any{
		"scope":       s.Scope,
		"stats":       graph.ComputeStats(s.Graph),
		"synthesized": s.Synthesized,
		"unavailable": s.Unavailable,
		"generation":  s.Generation,
		"computed_at": s.ComputedAt,
	}
}
