package repository

import (
	"context"
	"sync"
	"time"

	"oscar/internal/models"

	"github.com/google/uuid"
)

// MemorySessionRepository keeps sessions in process memory. It backs the
// STORAGE_DRIVER=memory mode and tests.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]models.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[uuid.UUID]models.Session)}
}

func (r *MemorySessionRepository) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

func (r *MemorySessionRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (r *MemorySessionRepository) Touch(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	session.LastSeen = at
	r.sessions[id] = session
	return nil
}

// MemoryMessageRepository keeps each session's messages in insertion order.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages map[uuid.UUID][]models.Message
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{messages: make(map[uuid.UUID][]models.Message)}
}

func (r *MemoryMessageRepository) Create(_ context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.SessionID] = append(r.messages[msg.SessionID], *msg)
	return nil
}

func (r *MemoryMessageRepository) ListBySession(_ context.Context, sessionID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.messages[sessionID]
	out := make([]*models.Message, 0)
	if offset < 0 || offset >= len(stored) || limit <= 0 {
		return out, nil
	}
	end := min(offset+limit, len(stored))
	for i := offset; i < end; i++ {
		msg := stored[i]
		out = append(out, &msg)
	}
	return out, nil
}
