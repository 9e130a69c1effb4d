package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/lecternlabs/lectern/internal/models"
	"github.com/ternarybob/arbor"
)

// stubTool implements interfaces.Tool for registry tests
type stubTool struct {
	name        string
	executeFunc func(ctx context.Context, input json.RawMessage) (string, error)
	sources     []models.Source
	resetCalled bool
}

var _ interfaces.Tool = (*stubTool)(nil)

func (s *stubTool) Definition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        s.name,
		Description: "stub",
		InputSchema: models.InputSchema{Type: "object"},
	}
}

func (s *stubTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	if s.executeFunc != nil {
		return s.executeFunc(ctx, input)
	}
	return "", nil
}

func (s *stubTool) LastSources() []models.Source {
	return s.sources
}

func (s *stubTool) ResetSources() {
	s.resetCalled = true
	s.sources = nil
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewRegistry(arbor.NewLogger())

	var gotInput json.RawMessage
	registry.Register(&stubTool{
		name: "search_course_content",
		executeFunc: func(ctx context.Context, input json.RawMessage) (string, error) {
			gotInput = input
			return "search result", nil
		},
	})

	result, err := registry.Execute(context.Background(), "search_course_content", json.RawMessage(`{"query":"test"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result != "search result" {
		t.Errorf("Expected 'search result', got %q", result)
	}
	if string(gotInput) != `{"query":"test"}` {
		t.Errorf("Input not forwarded, got %s", gotInput)
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	registry := NewRegistry(arbor.NewLogger())
	registry.Register(&stubTool{name: "search_course_content"})

	result, err := registry.Execute(context.Background(), "nonexistent_tool", nil)
	if err != nil {
		t.Fatalf("Unknown tool must not return an error, got %v", err)
	}
	if result != "Tool 'nonexistent_tool' not found" {
		t.Errorf("Unexpected unknown-tool message: %q", result)
	}
}

func TestRegistryToolErrorPropagates(t *testing.T) {
	registry := NewRegistry(arbor.NewLogger())
	toolErr := errors.New("tool blew up")
	registry.Register(&stubTool{
		name: "search_course_content",
		executeFunc: func(ctx context.Context, input json.RawMessage) (string, error) {
			return "", toolErr
		},
	})

	_, err := registry.Execute(context.Background(), "search_course_content", nil)
	if !errors.Is(err, toolErr) {
		t.Errorf("Expected tool error to propagate, got %v", err)
	}
}

func TestRegistryDefinitionsOrder(t *testing.T) {
	registry := NewRegistry(arbor.NewLogger())
	registry.Register(&stubTool{name: "search_course_content"})
	registry.Register(&stubTool{name: "get_course_outline"})

	defs := registry.Definitions()
	if len(defs) != 2 {
		t.Fatalf("Expected 2 definitions, got %d", len(defs))
	}
	if defs[0].Name != "search_course_content" || defs[1].Name != "get_course_outline" {
		t.Errorf("Definitions out of registration order: %v", defs)
	}
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	registry := NewRegistry(arbor.NewLogger())
	registry.Register(&stubTool{name: "search_course_content", executeFunc: func(ctx context.Context, input json.RawMessage) (string, error) {
		return "first", nil
	}})
	registry.Register(&stubTool{name: "search_course_content", executeFunc: func(ctx context.Context, input json.RawMessage) (string, error) {
		return "second", nil
	}})

	result, err := registry.Execute(context.Background(), "search_course_content", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result != "second" {
		t.Errorf("Expected last registration to win, got %q", result)
	}
	if len(registry.Definitions()) != 1 {
		t.Error("Duplicate registration should not add a second definition")
	}
}

func TestRegistrySourceAggregationAndReset(t *testing.T) {
	registry := NewRegistry(arbor.NewLogger())

	search := &stubTool{
		name:    "search_course_content",
		sources: []models.Source{models.NewSource("AI Course - Lesson 1", "https://example.com/l1")},
	}
	outline := &stubTool{
		name:    "get_course_outline",
		sources: []models.Source{models.NewSource("AI Course", "https://example.com/ai")},
	}
	registry.Register(search)
	registry.Register(outline)

	sources := registry.LastSources()
	if len(sources) != 2 {
		t.Fatalf("Expected 2 aggregated sources, got %d", len(sources))
	}
	if sources[0].Text != "AI Course - Lesson 1" || sources[1].Text != "AI Course" {
		t.Errorf("Sources not in registration order: %+v", sources)
	}

	registry.ResetSources()
	if !search.resetCalled || !outline.resetCalled {
		t.Error("ResetSources must clear every registered tool")
	}
	if len(registry.LastSources()) != 0 {
		t.Error("Expected no sources after reset")
	}
}
