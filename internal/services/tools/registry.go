package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/lecternlabs/lectern/internal/models"
	"github.com/ternarybob/arbor"
)

// Registry holds the tools available to the model, dispatches executions by
// name, and aggregates source provenance across tools. Registration order is
// preserved for definitions and source aggregation.
type Registry struct {
	mu     sync.Mutex
	names  []string
	tools  map[string]interfaces.Tool
	logger arbor.ILogger
}

// NewRegistry creates a new empty tool registry
func NewRegistry(logger arbor.ILogger) *Registry {
	return &Registry{
		tools:  make(map[string]interfaces.Tool),
		logger: logger,
	}
}

// Register adds a tool under its definition name. Registering a second tool
// with the same name replaces the first.
func (r *Registry) Register(tool interfaces.Tool) {
	name := tool.Definition().Name

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		r.names = append(r.names, name)
	}
	r.tools[name] = tool

	r.logger.Debug().Str("tool", name).Msg("Tool registered")
}

// Definitions returns the definitions of all registered tools in
// registration order
func (r *Registry) Definitions() []models.ToolDefinition {
	r.mu.Lock()
	defer r.mu.Unlock()

	defs := make([]models.ToolDefinition, 0, len(r.names))
	for _, name := range r.names {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute dispatches a tool call by name. An unknown tool name returns a
// descriptive string with a nil error so the generation loop can hand it
// back to the model as a tool result.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (string, error) {
	r.mu.Lock()
	tool, ok := r.tools[name]
	r.mu.Unlock()

	if !ok {
		r.logger.Warn().Str("tool", name).Msg("Model requested unknown tool")
		return fmt.Sprintf("Tool '%s' not found", name), nil
	}

	return tool.Execute(ctx, input)
}

// LastSources concatenates the source buffers of all tools in registration
// order, without cross-tool deduplication.
func (r *Registry) LastSources() []models.Source {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sources []models.Source
	for _, name := range r.names {
		sources = append(sources, r.tools[name].LastSources()...)
	}
	return sources
}

// ResetSources clears the source buffer of every registered tool
func (r *Registry) ResetSources() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.names {
		r.tools[name].ResetSources()
	}
}
