package interfaces

import (
	"context"
	"encoding/json"

	"github.com/lecternlabs/lectern/internal/models"
)

// Tool is a capability the model can invoke during generation. Tools decode
// their own JSON input; argument validation against the schema is the
// model provider's responsibility.
//
// Tool instances are shared across concurrent queries, so implementations
// must guard their source buffer with a mutex.
type Tool interface {
	// Definition returns the provider-facing tool description and schema.
	Definition() models.ToolDefinition

	// Execute runs the tool with the given JSON input and returns a string
	// result for the model. Domain-level failures (no results, unresolvable
	// course) are returned as result strings with a nil error; a non-nil
	// error aborts the whole query.
	Execute(ctx context.Context, input json.RawMessage) (string, error)

	// LastSources returns the sources captured by the most recent successful
	// Execute. The buffer is overwritten, never appended to.
	LastSources() []models.Source

	// ResetSources clears the source buffer.
	ResetSources()
}
