package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/lecternlabs/lectern/internal/models"
)

// ErrSessionNotFound is returned by session storage when no session exists
// for the given ID.
var ErrSessionNotFound = errors.New("session not found")

// SessionService manages conversation sessions and their history.
type SessionService interface {
	// CreateSession creates a new empty session and returns its ID.
	CreateSession(ctx context.Context) (string, error)

	// ConversationHistory returns the session's history formatted for
	// inclusion in a model prompt. Unknown or empty sessions return "".
	ConversationHistory(ctx context.Context, sessionID string) (string, error)

	// AddExchange records a completed question/answer round, truncating the
	// stored history to the configured maximum exchange count.
	AddExchange(ctx context.Context, sessionID, question, answer string) error
}

// SessionStorage persists session records.
type SessionStorage interface {
	// GetSession retrieves a session by ID. Returns ErrSessionNotFound when
	// the session does not exist.
	GetSession(ctx context.Context, id string) (*models.Session, error)

	// SaveSession inserts or updates a session record.
	SaveSession(ctx context.Context, session *models.Session) error

	// DeleteSessionsBefore removes sessions last updated before the cutoff.
	// Returns the number of sessions deleted.
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int, error)
}
