package rag

import (
	"context"
	"fmt"
	"sync"

	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/lecternlabs/lectern/internal/models"
	"github.com/lecternlabs/lectern/internal/services/generation"
	"github.com/ternarybob/arbor"
)

// answerGenerator is the slice of the generation service the pipeline needs.
// Satisfied by *generation.Generator.
type answerGenerator interface {
	Generate(ctx context.Context, query, history string, tools []models.ToolDefinition, runner generation.ToolRunner) (string, error)
}

// toolProvider is the slice of the tool registry the pipeline needs.
// Satisfied by *tools.Registry.
type toolProvider interface {
	generation.ToolRunner
	Definitions() []models.ToolDefinition
	LastSources() []models.Source
	ResetSources()
}

// Service is the query pipeline: it resolves session history, frames the
// question, runs the generator with the registered tools and collects the
// source provenance of the answer.
type Service struct {
	store     interfaces.VectorStore
	sessions  interfaces.SessionService
	generator answerGenerator
	tools     toolProvider
	logger    arbor.ILogger

	// Serializes generate -> read sources -> reset so concurrent queries
	// cannot interleave their provenance.
	mu sync.Mutex
}

var _ interfaces.RAGService = (*Service)(nil)

// NewService creates a new RAG query service
func NewService(store interfaces.VectorStore, sessions interfaces.SessionService, generator answerGenerator, tools toolProvider, logger arbor.ILogger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("vector store is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if tools == nil {
		return nil, fmt.Errorf("tool registry is required")
	}

	return &Service{
		store:     store,
		sessions:  sessions,
		generator: generator,
		tools:     tools,
		logger:    logger,
	}, nil
}

// Query answers a question about course materials. When sessionID is set the
// session's history is included in the prompt and the exchange is recorded
// after a successful answer. On generation failure the tool source buffers
// are left untouched.
func (s *Service) Query(ctx context.Context, question, sessionID string) (string, []models.Source, error) {
	history := ""
	if sessionID != "" && s.sessions != nil {
		h, err := s.sessions.ConversationHistory(ctx, sessionID)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load conversation history: %w", err)
		}
		history = h
	}

	prompt := fmt.Sprintf("Answer this question about course materials: %s", question)

	s.logger.Debug().
		Str("session_id", sessionID).
		Int("question_length", len(question)).
		Msg("Processing query")

	s.mu.Lock()
	answer, err := s.generator.Generate(ctx, prompt, history, s.tools.Definitions(), s.tools)
	if err != nil {
		s.mu.Unlock()
		return "", nil, err
	}
	sources := s.tools.LastSources()
	s.tools.ResetSources()
	s.mu.Unlock()

	if sessionID != "" && s.sessions != nil {
		if err := s.sessions.AddExchange(ctx, sessionID, question, answer); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to record exchange")
		}
	}

	return answer, sources, nil
}

// CourseAnalytics returns catalog statistics for the courses API
func (s *Service) CourseAnalytics(ctx context.Context) (*models.CourseAnalytics, error) {
	count, err := s.store.CourseCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}

	titles, err := s.store.CourseTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list course titles: %w", err)
	}

	return &models.CourseAnalytics{
		TotalCourses: count,
		CourseTitles: titles,
	}, nil
}
