package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lecternlabs/lectern/internal/common"
	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/lecternlabs/lectern/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Service manages conversation sessions: creation, prompt-ready history and
// exchange recording. Expired sessions are pruned on a cron schedule.
type Service struct {
	storage    interfaces.SessionStorage
	logger     arbor.ILogger
	maxHistory int
	ttl        time.Duration
	cron       *cron.Cron
}

var _ interfaces.SessionService = (*Service)(nil)

// NewService creates a new session service and starts the pruning schedule.
//
// Parameters:
//   - cfg: Session configuration (max history, TTL, prune schedule)
//   - storage: Session storage backend
//   - logger: Structured logger for service operations
//
// Returns:
//   - *Service: Initialized service ready for use
//   - error: nil on success, error with details on failure
func NewService(cfg *common.SessionsConfig, storage interfaces.SessionStorage, logger arbor.ILogger) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("session storage is required")
	}

	ttl, err := time.ParseDuration(cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL '%s': %w", cfg.TTL, err)
	}

	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 2
	}

	s := &Service{
		storage:    storage,
		logger:     logger,
		maxHistory: maxHistory,
		ttl:        ttl,
	}

	if cfg.PruneSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.PruneSchedule, s.pruneExpired); err != nil {
			return nil, fmt.Errorf("invalid prune schedule '%s': %w", cfg.PruneSchedule, err)
		}
		c.Start()
		s.cron = c
	}

	logger.Debug().
		Int("max_history", maxHistory).
		Dur("ttl", ttl).
		Str("prune_schedule", cfg.PruneSchedule).
		Msg("Session service initialized")

	return s, nil
}

// CreateSession creates a new empty session and returns its ID
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	now := time.Now()
	session := &models.Session{
		ID:        common.NewSessionID(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Debug().Str("session_id", session.ID).Msg("Session created")
	return session.ID, nil
}

// ConversationHistory returns the session history formatted for a model
// prompt. Unknown or empty sessions yield "".
func (s *Service) ConversationHistory(ctx context.Context, sessionID string) (string, error) {
	session, err := s.storage.GetSession(ctx, sessionID)
	if errors.Is(err, interfaces.ErrSessionNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	if len(session.Exchanges) == 0 {
		return "", nil
	}

	lines := make([]string, 0, len(session.Exchanges))
	for _, exchange := range session.Exchanges {
		lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", exchange.Question, exchange.Answer))
	}
	return strings.Join(lines, "\n"), nil
}

// AddExchange records a completed question/answer round. Unknown sessions
// are created implicitly so history survives server restarts mid-session.
func (s *Service) AddExchange(ctx context.Context, sessionID, question, answer string) error {
	now := time.Now()

	session, err := s.storage.GetSession(ctx, sessionID)
	if errors.Is(err, interfaces.ErrSessionNotFound) {
		session = &models.Session{ID: sessionID, CreatedAt: now}
	} else if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	session.Exchanges = append(session.Exchanges, models.Exchange{
		Question: question,
		Answer:   answer,
	})
	if len(session.Exchanges) > s.maxHistory {
		session.Exchanges = session.Exchanges[len(session.Exchanges)-s.maxHistory:]
	}
	session.UpdatedAt = now

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

// pruneExpired removes sessions idle past the TTL
func (s *Service) pruneExpired() {
	cutoff := time.Now().Add(-s.ttl)
	deleted, err := s.storage.DeleteSessionsBefore(context.Background(), cutoff)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Session pruning failed")
		return
	}
	if deleted > 0 {
		s.logger.Info().Int("count", deleted).Msg("Pruned expired sessions")
	}
}

// Stop halts the pruning schedule
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
