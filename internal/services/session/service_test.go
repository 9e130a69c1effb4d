package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lecternlabs/lectern/internal/common"
	"github.com/lecternlabs/lectern/internal/interfaces"
	"github.com/lecternlabs/lectern/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

// memorySessionStorage is an in-memory SessionStorage for tests
type memorySessionStorage struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newMemorySessionStorage() *memorySessionStorage {
	return &memorySessionStorage{sessions: make(map[string]*models.Session)}
}

func (m *memorySessionStorage) GetSession(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, interfaces.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (m *memorySessionStorage) SaveSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *session
	m.sessions[session.ID] = &clone
	return nil
}

func (m *memorySessionStorage) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for id, session := range m.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func newTestService(t *testing.T) (*Service, *memorySessionStorage) {
	t.Helper()
	storage := newMemorySessionStorage()
	svc, err := NewService(&common.SessionsConfig{
		MaxHistory: 2,
		TTL:        "24h",
	}, storage, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(svc.Stop)
	return svc, storage
}

func TestCreateSession(t *testing.T) {
	svc, storage := newTestService(t)

	id, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "session_"))

	_, err = storage.GetSession(context.Background(), id)
	assert.NoError(t, err)
}

func TestConversationHistoryFormatting(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.AddExchange(ctx, id, "What is RAG?", "Retrieval-augmented generation."))
	require.NoError(t, svc.AddExchange(ctx, id, "And MCP?", "A tool protocol."))

	history, err := svc.ConversationHistory(ctx, id)
	require.NoError(t, err)
	expected := "User: What is RAG?\nAssistant: Retrieval-augmented generation.\nUser: And MCP?\nAssistant: A tool protocol."
	assert.Equal(t, expected, history)
}

func TestConversationHistoryUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)

	history, err := svc.ConversationHistory(context.Background(), "session_missing")
	require.NoError(t, err)
	assert.Equal(t, "", history)
}

func TestAddExchangeTruncation(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.AddExchange(ctx, id, "q1", "a1"))
	require.NoError(t, svc.AddExchange(ctx, id, "q2", "a2"))
	require.NoError(t, svc.AddExchange(ctx, id, "q3", "a3"))

	session, err := storage.GetSession(ctx, id)
	require.NoError(t, err)
	require.Len(t, session.Exchanges, 2)
	assert.Equal(t, "q2", session.Exchanges[0].Question)
	assert.Equal(t, "q3", session.Exchanges[1].Question)
}

func TestAddExchangeCreatesMissingSession(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddExchange(ctx, "session_restored", "q", "a"))

	session, err := storage.GetSession(ctx, "session_restored")
	require.NoError(t, err)
	assert.Len(t, session.Exchanges, 1)
}

func TestPruneExpired(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()

	stale := &models.Session{
		ID:        "session_stale",
		UpdatedAt: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, storage.SaveSession(ctx, stale))

	fresh, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	svc.pruneExpired()

	_, err = storage.GetSession(ctx, "session_stale")
	assert.ErrorIs(t, err, interfaces.ErrSessionNotFound)
	_, err = storage.GetSession(ctx, fresh)
	assert.NoError(t, err)
}
