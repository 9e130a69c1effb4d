package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/lecternlabs/lectern/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// SessionStorage implements the SessionStorage interface for Badger
type SessionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSessionStorage creates a new SessionStorage instance
func NewSessionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SessionStorage {
	return &SessionStorage{
		db:     db,
		logger: logger,
	}
}

// GetSession retrieves a session by ID
func (s *SessionStorage) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := s.db.Store().Get(id, &session)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// SaveSession inserts or updates a session record
func (s *SessionStorage) SaveSession(ctx context.Context, session *models.Session) error {
	if err := s.db.Store().Upsert(session.ID, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// DeleteSessionsBefore removes sessions last updated before the cutoff
func (s *SessionStorage) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	var expired []models.Session
	err := s.db.Store().Find(&expired, badgerhold.Where("UpdatedAt").Lt(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to list expired sessions: %w", err)
	}

	deleted := 0
	for _, session := range expired {
		if err := s.db.Store().Delete(session.ID, &models.Session{}); err != nil {
			s.logger.Warn().Str("session_id", session.ID).Err(err).Msg("Failed to delete expired session")
			continue
		}
		deleted++
	}

	return deleted, nil
}
