package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sqlscribe/sqlscribe/pkg/models"
	"github.com/sqlscribe/sqlscribe/pkg/services"
)

// QueryHandler handles the query endpoint.
type QueryHandler struct {
	queryService services.QueryService
	logger       *zap.Logger
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(queryService services.QueryService, logger *zap.Logger) *QueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// RegisterRoutes registers the query handler's routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/query", h.Query)
}

// Query handles POST /v1/query. Success returns the generated SQL, the
// rendered table, the record list, and token usage. Every failure becomes a
// 400 carrying the underlying message; validation rejections carry the
// fixed "not safe to execute" phrase.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "Error: invalid request body")
		return
	}

	resp, err := h.queryService.Query(r.Context(), &req)
	if err != nil {
		h.logger.Error("query pipeline failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadRequest, "Error: "+err.Error())
		return
	}

	_ = WriteJSON(w, http.StatusOK, resp)
}
