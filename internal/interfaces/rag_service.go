package interfaces

import (
	"context"

	"github.com/lecternlabs/lectern/internal/models"
)

// RAGService answers natural-language questions about course materials by
// orchestrating retrieval tools and the model client.
type RAGService interface {
	// Query answers a question, optionally using the conversation history of
	// the given session.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - question: The user's natural-language question
	//   - sessionID: Optional session ID for conversation history ("" for none)
	//
	// Returns:
	//   - string: The synthesized answer
	//   - []models.Source: Sources consulted while answering (may be empty)
	//   - error: nil on success, error with details on failure
	Query(ctx context.Context, question, sessionID string) (string, []models.Source, error)

	// CourseAnalytics returns catalog statistics for the courses API.
	CourseAnalytics(ctx context.Context) (*models.CourseAnalytics, error)
}
