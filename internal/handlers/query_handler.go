package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/lecternlabs/lectern/internal/models"
	"github.com/ternarybob/arbor"
)

// QueryHandler handles question-answering HTTP requests
type QueryHandler struct {
	ragService     interfaces.RAGService
	sessionService interfaces.SessionService
	validate       *validator.Validate
	logger         arbor.ILogger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(
	ragService interfaces.RAGService,
	sessionService interfaces.SessionService,
	logger arbor.ILogger,
) *QueryHandler {
	return &QueryHandler{
		ragService:     ragService,
		sessionService: sessionService,
		validate:       validator.New(),
		logger:         logger,
	}
}

// QueryRequest is the POST /api/query request body
type QueryRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionID string `json:"session_id"`
}

// QueryResponse is the POST /api/query response body
type QueryResponse struct {
	Answer    string          `json:"answer"`
	Sources   []models.Source `json:"sources"`
	SessionID string          `json:"session_id"`
}

// QueryHandler handles POST /api/query requests
func (h *QueryHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode query request")
		WriteDetailError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteDetailError(w, http.StatusBadRequest, "Query field is required")
		return
	}

	ctx := r.Context()

	sessionID := req.SessionID
	if sessionID == "" {
		id, err := h.sessionService.CreateSession(ctx)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to create session")
			WriteDetailError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sessionID = id
	}

	h.logger.Info().
		Str("session_id", sessionID).
		Int("query_length", len(req.Query)).
		Msg("Processing query request")

	answer, sources, err := h.ragService.Query(ctx, req.Query, sessionID)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Query failed")
		WriteDetailError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if sources == nil {
		sources = []models.Source{}
	}

	WriteJSON(w, http.StatusOK, QueryResponse{
		Answer:    answer,
		Sources:   sources,
		SessionID: sessionID,
	})
}
