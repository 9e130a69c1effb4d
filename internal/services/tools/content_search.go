package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/lecternlabs/lectern/internal/models"
	"github.com/ternarybob/arbor"
)

// ContentSearchTool searches course materials through the vector store and
// tracks the sources of every passage it returns.
type ContentSearchTool struct {
	store  interfaces.VectorStore
	logger arbor.ILogger

	mu      sync.Mutex
	sources []models.Source
}

var _ interfaces.Tool = (*ContentSearchTool)(nil)

// NewContentSearchTool creates a new content search tool
func NewContentSearchTool(store interfaces.VectorStore, logger arbor.ILogger) *ContentSearchTool {
	return &ContentSearchTool{
		store:  store,
		logger: logger,
	}
}

type contentSearchInput struct {
	Query        string `json:"query"`
	CourseName   string `json:"course_name"`
	LessonNumber *int   `json:"lesson_number"`
}

// Definition returns the provider-facing tool description and schema
func (t *ContentSearchTool) Definition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: models.InputSchema{
			Type: "object",
			Properties: map[string]models.Property{
				"query": {
					Type:        "string",
					Description: "What to search for in course content",
				},
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": {
					Type:        "integer",
					Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// Execute runs the search and formats results for the model. Retrieval-level
// failures come back as result strings; store failures as errors.
func (t *ContentSearchTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var in contentSearchInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("invalid search input: %w", err)
	}

	results, err := t.store.Search(ctx, in.Query, in.CourseName, in.LessonNumber)
	if err != nil {
		return "", err
	}

	if results.Error != "" {
		return results.Error, nil
	}

	if results.IsEmpty() {
		return t.emptyMessage(in), nil
	}

	return t.formatResults(ctx, results), nil
}

// emptyMessage builds the "no content" message including any active filters
func (t *ContentSearchTool) emptyMessage(in contentSearchInput) string {
	msg := "No relevant content found"
	if in.CourseName != "" {
		msg += fmt.Sprintf(" in course '%s'", in.CourseName)
	}
	if in.LessonNumber != nil {
		msg += fmt.Sprintf(" in lesson %d", *in.LessonNumber)
	}
	return msg
}

// formatResults renders result blocks and replaces the source buffer with
// the deduplicated provenance of this search.
func (t *ContentSearchTool) formatResults(ctx context.Context, results *models.SearchResults) string {
	formatted := make([]string, 0, len(results.Documents))
	sources := make([]models.Source, 0, len(results.Documents))
	seen := make(map[string]bool)

	for i, doc := range results.Documents {
		meta := results.Metadata[i]

		header := fmt.Sprintf("[%s]", meta.CourseTitle)
		display := meta.CourseTitle
		if meta.LessonNumber != nil {
			header = fmt.Sprintf("[%s - Lesson %d]", meta.CourseTitle, *meta.LessonNumber)
			display = fmt.Sprintf("%s - Lesson %d", meta.CourseTitle, *meta.LessonNumber)
		}
		formatted = append(formatted, header+"\n"+doc)

		key := meta.CourseTitle
		if meta.LessonNumber != nil {
			key = fmt.Sprintf("%s|%d", meta.CourseTitle, *meta.LessonNumber)
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		sources = append(sources, models.NewSource(display, t.resolveLink(ctx, meta)))
	}

	t.mu.Lock()
	t.sources = sources
	t.mu.Unlock()

	return strings.Join(formatted, "\n\n")
}

// resolveLink finds the best link for a passage: lesson link first, course
// link as fallback. Link lookup failures degrade to no link.
func (t *ContentSearchTool) resolveLink(ctx context.Context, meta models.ChunkMetadata) string {
	if meta.LessonNumber != nil {
		link, err := t.store.GetLessonLink(ctx, meta.CourseTitle, *meta.LessonNumber)
		if err != nil {
			t.logger.Warn().Err(err).Str("course", meta.CourseTitle).Msg("Failed to look up lesson link")
		} else if link != "" {
			return link
		}
	}

	link, err := t.store.GetCourseLink(ctx, meta.CourseTitle)
	if err != nil {
		t.logger.Warn().Err(err).Str("course", meta.CourseTitle).Msg("Failed to look up course link")
		return ""
	}
	return link
}

// LastSources returns the sources captured by the most recent search
func (t *ContentSearchTool) LastSources() []models.Source {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sources
}

// ResetSources clears the source buffer
func (t *ContentSearchTool) ResetSources() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sources = nil
}
