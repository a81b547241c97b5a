// sessions.go — менеджер серверных сеансов дашборда.
// Каждый сеанс — независимое состояние списка, адресуемое UUID.
package dashboard

import (
	"sync"

	"github.com/google/uuid"

	"github.com/bigkaa/mcpmarket/review-module/internal/repository"
	"github.com/bigkaa/mcpmarket/review-module/internal/service"
)

// SessionManager — реестр активных сеансов дашборда.
type SessionManager struct {
	store      *repository.SubmissionStore
	moderation *service.ModerationService
	pageSize   int

	mu       sync.RWMutex
	sessions map[string]*Dashboard
}

// NewSessionManager создаёт менеджер сеансов.
// pageSize — размер страницы новых сеансов.
func NewSessionManager(store *repository.SubmissionStore, moderation *service.ModerationService, pageSize int) (*SessionManager, error) {
	if !service.ValidPageSize(pageSize) {
		return nil, service.ErrValidation
	}
	return &SessionManager{
		store:      store,
		moderation: moderation,
		pageSize:   pageSize,
		sessions:   make(map[string]*Dashboard),
	}, nil
}

// Create заводит новый сеанс и возвращает его идентификатор.
func (m *SessionManager) Create() (string, *Dashboard, error) {
	d, err := New(m.store, m.moderation, m.pageSize)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = d
	m.mu.Unlock()
	return id, d, nil
}

// Get возвращает сеанс по идентификатору.
func (m *SessionManager) Get(id string) (*Dashboard, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.sessions[id]
	return d, ok
}

// Delete удаляет сеанс. Удаление несуществующего сеанса — no-op.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
