package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/session"
)

type memorySession struct {
	state   session.State
	savedAt time.Time
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository - keeps sessions in process memory. Entries older than ttl are treated as missing.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessions{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (that *memorySessions) Save(_ context.Context, id string, state session.State) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[id] = memorySession{state: copyState(state), savedAt: that.now()}

	return nil
}

func (that *memorySessions) GetByID(_ context.Context, id string) (session.State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.sessions[id]
	if !ok {
		return session.State{}, apperror.ErrSessionNotFound
	}

	if that.expired(stored) {
		delete(that.sessions, id)
		return session.State{}, apperror.ErrSessionNotFound
	}

	return copyState(stored.state), nil
}

func (that *memorySessions) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.sessions[id]
	if !ok || that.expired(stored) {
		delete(that.sessions, id)
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

func (that *memorySessions) expired(stored memorySession) bool {
	return that.ttl > 0 && that.now().Sub(stored.savedAt) >= that.ttl
}

func copyState(state session.State) session.State {
	state.History = entity.CloneHistory(state.History)
	return state
}
