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

// OutlineTool returns the structure of a course: its title and the full
// lesson list in catalog order.
type OutlineTool struct {
	store  interfaces.VectorStore
	logger arbor.ILogger

	mu      sync.Mutex
	sources []models.Source
}

var _ interfaces.Tool = (*OutlineTool)(nil)

// NewOutlineTool creates a new course outline tool
func NewOutlineTool(store interfaces.VectorStore, logger arbor.ILogger) *OutlineTool {
	return &OutlineTool{
		store:  store,
		logger: logger,
	}
}

type outlineInput struct {
	CourseName string `json:"course_name"`
}

// Definition returns the provider-facing tool description and schema
func (t *OutlineTool) Definition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        "get_course_outline",
		Description: "Get the outline of a course including its title and complete lesson list",
		InputSchema: models.InputSchema{
			Type: "object",
			Properties: map[string]models.Property{
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
			},
			Required: []string{"course_name"},
		},
	}
}

// Execute resolves the course name and renders the outline. An unresolvable
// course name is a result string, not an error.
func (t *OutlineTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var in outlineInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("invalid outline input: %w", err)
	}

	title, err := t.store.ResolveCourseName(ctx, in.CourseName)
	if err != nil {
		return "", err
	}
	if title == "" {
		return fmt.Sprintf("No course found matching '%s'", in.CourseName), nil
	}

	course, err := t.store.GetCourseMetadata(ctx, title)
	if err != nil {
		return "", err
	}
	if course == nil {
		return fmt.Sprintf("No course found matching '%s'", in.CourseName), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Course: %s\n", course.Title)
	for _, lesson := range course.Lessons {
		fmt.Fprintf(&sb, "Lesson %d: %s\n", lesson.Number, lesson.Title)
	}

	t.mu.Lock()
	t.sources = []models.Source{models.NewSource(course.Title, course.Link)}
	t.mu.Unlock()

	return sb.String(), nil
}

// LastSources returns the sources captured by the most recent lookup
func (t *OutlineTool) LastSources() []models.Source {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sources
}

// ResetSources clears the source buffer
func (t *OutlineTool) ResetSources() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sources = nil
}
