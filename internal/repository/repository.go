// Пакет repository — слой доступа к данным Review Module.
// Хранилище заявок in-memory: мок-данные засеиваются один раз при старте
// и подменяют будущий удалённый источник. Порядок вставки сохраняется,
// все операции потокобезопасны, чтение отдаёт snapshot-копии.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
)

// Ошибки слоя репозитория.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — конфликт уникальности (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — запись уже существует")
	// ErrInvariant — нарушение инварианта пары reviewed/status.
	ErrInvariant = errors.New("статус недопустим для раздела заявки")
)

// SeedRecord — заявка с карточкой и начальной историей для засеивания.
type SeedRecord struct {
	Submission model.Submission
	Details    model.Details
	// History — начальная история, свежие события первыми
	History []model.ReviewEvent
}

// SubmissionStore — in-memory хранилище заявок.
type SubmissionStore struct {
	mu      sync.RWMutex
	order   []string
	subs    map[string]model.Submission
	details map[string]model.Details
	history map[string][]model.ReviewEvent
}

// NewSubmissionStore создаёт пустое хранилище.
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{
		subs:    make(map[string]model.Submission),
		details: make(map[string]model.Details),
		history: make(map[string][]model.ReviewEvent),
	}
}

// Seed засеивает хранилище начальным набором заявок.
// Проверяет уникальность ID и инвариант reviewed/status каждой записи.
func (s *SubmissionStore) Seed(records []SeedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		sub := rec.Submission
		if _, exists := s.subs[sub.ID]; exists {
			return fmt.Errorf("заявка %s: %w", sub.ID, ErrConflict)
		}
		if !model.ValidStatus(sub.Status) {
			return fmt.Errorf("заявка %s: недопустимый статус %q", sub.ID, sub.Status)
		}
		if !model.StatusAllowed(sub.Reviewed, sub.Status) {
			return fmt.Errorf("заявка %s (reviewed=%t, status=%q): %w",
				sub.ID, sub.Reviewed, sub.Status, ErrInvariant)
		}
		if !model.ValidProvider(sub.Provider) {
			return fmt.Errorf("заявка %s: недопустимый провайдер %q", sub.ID, sub.Provider)
		}

		s.order = append(s.order, sub.ID)
		s.subs[sub.ID] = sub
		s.details[sub.ID] = cloneDetails(rec.Details)
		s.history[sub.ID] = cloneHistory(rec.History)
	}
	return nil
}

// CheckReady сообщает готовность хранилища для readiness probe.
// Пустое хранилище означает, что засеивание не выполнено.
func (s *SubmissionStore) CheckReady() (status, message string) {
	s.mu.RLock()
	n := len(s.order)
	s.mu.RUnlock()

	if n == 0 {
		return "fail", "хранилище не засеяно"
	}
	return "ok", fmt.Sprintf("заявок: %d", n)
}

// List возвращает snapshot всех заявок в порядке вставки.
func (s *SubmissionStore) List(_ context.Context) []model.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.Submission, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.subs[id])
	}
	return items
}

// Get возвращает заявку по ID.
func (s *SubmissionStore) Get(_ context.Context, id string) (model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return model.Submission{}, ErrNotFound
	}
	return sub, nil
}

// GetDetails возвращает детальную карточку заявки.
func (s *SubmissionStore) GetDetails(_ context.Context, id string) (model.Details, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	det, ok := s.details[id]
	if !ok {
		return model.Details{}, ErrNotFound
	}
	return cloneDetails(det), nil
}

// History возвращает историю модерации заявки, свежие события первыми.
func (s *SubmissionStore) History(_ context.Context, id string) ([]model.ReviewEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.subs[id]; !ok {
		return nil, ErrNotFound
	}
	return cloneHistory(s.history[id]), nil
}

// SetStatus переводит заявку в новый статус.
// Инвариант reviewed/status проверяется до записи.
func (s *SubmissionStore) SetStatus(_ context.Context, id string, status model.Status, reviewed bool) (model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return model.Submission{}, ErrNotFound
	}
	if !model.StatusAllowed(reviewed, status) {
		return model.Submission{}, fmt.Errorf("заявка %s (reviewed=%t, status=%q): %w",
			id, reviewed, status, ErrInvariant)
	}

	sub.Status = status
	sub.Reviewed = reviewed
	s.subs[id] = sub
	return sub, nil
}

// UpdateFields фиксирует новые значения редактируемых полей карточки.
func (s *SubmissionStore) UpdateFields(_ context.Context, id string, fields model.EditableFields) (model.Details, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	det, ok := s.details[id]
	if !ok {
		return model.Details{}, ErrNotFound
	}
	det.Fields = fields
	s.details[id] = det
	return cloneDetails(det), nil
}

// AppendEvent добавляет событие в начало истории заявки (свежие первыми).
func (s *SubmissionStore) AppendEvent(_ context.Context, id string, ev model.ReviewEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[id]; !ok {
		return ErrNotFound
	}
	s.history[id] = append([]model.ReviewEvent{ev}, s.history[id]...)
	return nil
}

// SetDocument заменяет markdown-документ карточки (nil удаляет документ).
func (s *SubmissionStore) SetDocument(_ context.Context, id string, doc *model.MarkdownDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	det, ok := s.details[id]
	if !ok {
		return ErrNotFound
	}
	if doc != nil {
		d := *doc
		det.Document = &d
	} else {
		det.Document = nil
	}
	s.details[id] = det
	return nil
}

// SetVideo заменяет видео карточки (nil удаляет видео).
// Возвращает предыдущий ресурс, чтобы вызывающий мог его освободить.
func (s *SubmissionStore) SetVideo(_ context.Context, id string, video *model.VideoAsset) (*model.VideoAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	det, ok := s.details[id]
	if !ok {
		return nil, ErrNotFound
	}
	prev := det.Video
	if video != nil {
		v := *video
		det.Video = &v
	} else {
		det.Video = nil
	}
	s.details[id] = det
	return prev, nil
}

// --- Копирование ---

// cloneDetails делает глубокую копию карточки.
func cloneDetails(det model.Details) model.Details {
	out := det
	out.Screenshots = append([]string(nil), det.Screenshots...)
	out.Packages = append([]model.InstallationPackage(nil), det.Packages...)
	out.Files = append([]model.AttachedFile(nil), det.Files...)
	if det.Document != nil {
		doc := *det.Document
		out.Document = &doc
	}
	if det.Video != nil {
		v := *det.Video
		out.Video = &v
	}
	return out
}

// cloneHistory копирует срез событий (сами события неизменяемы).
func cloneHistory(events []model.ReviewEvent) []model.ReviewEvent {
	return append([]model.ReviewEvent(nil), events...)
}
