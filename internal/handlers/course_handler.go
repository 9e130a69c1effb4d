package handlers

import (
	"net/http"

	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// CourseHandler handles course catalog HTTP requests
type CourseHandler struct {
	ragService interfaces.RAGService
	logger     arbor.ILogger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(ragService interfaces.RAGService, logger arbor.ILogger) *CourseHandler {
	return &CourseHandler{
		ragService: ragService,
		logger:     logger,
	}
}

// CourseStatsHandler handles GET /api/courses requests
func (h *CourseHandler) CourseStatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	analytics, err := h.ragService.CourseAnalytics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load course analytics")
		WriteDetailError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if analytics.CourseTitles == nil {
		analytics.CourseTitles = []string{}
	}

	WriteJSON(w, http.StatusOK, analytics)
}
