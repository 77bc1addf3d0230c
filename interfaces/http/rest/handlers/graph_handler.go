package handlers

import (
	"net/http"
	"strconv"

	"recall-backend/application/queries"
	querybus "recall-backend/application/queries/bus"
	"recall-backend/application/services"
	"recall-backend/domain/graph"
	"recall-backend/pkg/auth"
	"recall-backend/pkg/common"
	apperrors "recall-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultViewportWidth  = 800
	defaultViewportHeight = 600
)

// GraphHandler handles graph-related HTTP requests
type GraphHandler struct {
	queryBus   *querybus.QueryBus
	controller *services.ViewScopeController
	logger     *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(queryBus *querybus.QueryBus, controller *services.ViewScopeController, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		queryBus:   queryBus,
		controller: controller,
		logger:     logger,
	}
}

// GetGraphView handles GET /graph: the renderGraph entry point
func (h *GraphHandler) GetGraphView(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	query := queries.GetGraphViewQuery{
		UserID:   userCtx.UserID,
		Scope:    h.scopeFromRequest(r, userCtx.UserID),
		Viewport: viewportFromRequest(r),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.respondQueryError(w, r, err, "Failed to get graph view")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetAdaptedDocuments handles GET /graph/documents: the external
// visualization component's input shape
func (h *GraphHandler) GetAdaptedDocuments(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	query := queries.GetAdaptedDocumentsQuery{
		UserID: userCtx.UserID,
		Scope:  h.scopeFromRequest(r, userCtx.UserID),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		if apperrors.IsNoData(err) {
			// "No memories yet", not "something went wrong".
			common.RespondJSON(w, http.StatusOK, map[string]any{
				"documents": []graph.AdaptedDocument{},
				"no_data":   true,
				"message":   "no memories yet",
			})
			return
		}
		if apperrors.IsGraphUnavailable(err) {
			common.RespondJSON(w, http.StatusOK, map[string]any{
				"documents":   []graph.AdaptedDocument{},
				"unavailable": true,
			})
			return
		}
		h.respondQueryError(w, r, err, "Failed to adapt graph")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetNode handles GET /graph/nodes/{nodeID}: the selection detail hook
func (h *GraphHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Node ID is required")
		return
	}

	query := queries.GetNodeQuery{
		UserID: userCtx.UserID,
		Scope:  h.scopeFromRequest(r, userCtx.UserID),
		NodeID: nodeID,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.respondQueryError(w, r, err, "Failed to get node")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// scopeFromRequest builds the view scope from query parameters, falling back
// to the controller's current scope for the user when none are given.
func (h *GraphHandler) scopeFromRequest(r *http.Request, userID string) graph.ViewScope {
	q := r.URL.Query()
	mode := q.Get("mode")
	combinedParam := q.Get("combined")

	if mode == "" && combinedParam == "" {
		return h.controller.Current(userID)
	}

	current := h.controller.Current(userID)
	combined := current.Combined
	if combinedParam != "" {
		combined = combinedParam == "true" || combinedParam == "1"
	}
	if mode == "" {
		mode = current.ActiveCategory
	}
	return graph.NewViewScope(combined, mode)
}

func viewportFromRequest(r *http.Request) graph.Viewport {
	width, _ := strconv.ParseFloat(r.URL.Query().Get("width"), 64)
	height, _ := strconv.ParseFloat(r.URL.Query().Get("height"), 64)
	if width <= 0 {
		width = defaultViewportWidth
	}
	if height <= 0 {
		height = defaultViewportHeight
	}
	return graph.Viewport{Width: width, Height: height}
}

func (h *GraphHandler) respondQueryError(w http.ResponseWriter, r *http.Request, err error, message string) {
	h.logger.Error(message,
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	if appErr := apperrors.GetAppError(err); appErr != nil {
		common.RespondErrorInfo(w, appErr.HTTPStatus, &common.ErrorInfo{
			Code:      string(appErr.Type),
			Message:   appErr.Message,
			Retryable: appErr.Retryable,
		})
		return
	}
	common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
