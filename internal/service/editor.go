// editor.go — редактор детальной карточки заявки.
// Черновик заводится при входе в режим редактирования, Save фиксирует
// его в хранилище, Cancel отбрасывает. Производный статус длины
// описания — только подсказка и сохранение не блокирует.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/repository"
)

// Рекомендуемые границы длины описания в символах.
const (
	DescriptionMin = 50
	DescriptionMax = 100
)

// Виды статуса длины описания.
const (
	DescriptionShort = "short"
	DescriptionGood  = "good"
	DescriptionLong  = "long"
)

// DescriptionStatus — производный статус длины описания.
type DescriptionStatus struct {
	// Kind — short, good или long
	Kind string
	// Count — длина описания в символах
	Count int
	// Message — человекочитаемая подсказка
	Message string
}

// DescribeDescription вычисляет статус длины описания:
// <50 символов — short, 50-100 — good, >100 — long.
func DescribeDescription(description string) DescriptionStatus {
	count := utf8.RuneCountInString(description)
	switch {
	case count < DescriptionMin:
		return DescriptionStatus{
			Kind:    DescriptionShort,
			Count:   count,
			Message: fmt.Sprintf("%d more characters needed", DescriptionMin-count),
		}
	case count <= DescriptionMax:
		return DescriptionStatus{
			Kind:    DescriptionGood,
			Count:   count,
			Message: fmt.Sprintf("%d characters remaining", DescriptionMax-count),
		}
	default:
		return DescriptionStatus{
			Kind:    DescriptionLong,
			Count:   count,
			Message: fmt.Sprintf("%d characters over limit", count-DescriptionMax),
		}
	}
}

// FieldsPatch — частичное обновление редактируемых полей.
// nil-поле остаётся без изменений.
type FieldsPatch struct {
	ServiceName      *string
	ServiceProvider  *string
	Category         *string
	UseCases         *string
	Description      *string
	ServiceType      *string
	ServiceURL       *string
	PrivacyPolicyURL *string
}

// EditorService — редактор карточек с черновиками per-заявка.
type EditorService struct {
	store  *repository.SubmissionStore
	logger *slog.Logger

	mu     sync.Mutex
	drafts map[string]model.EditableFields
}

// NewEditorService создаёт EditorService.
func NewEditorService(store *repository.SubmissionStore, logger *slog.Logger) *EditorService {
	return &EditorService{
		store:  store,
		logger: logger.With(slog.String("component", "service.editor")),
		drafts: make(map[string]model.EditableFields),
	}
}

// BeginEdit заводит черновик из текущих зафиксированных значений
// и возвращает его. Повторный вход в режим редактирования
// пересеивает черновик заново.
func (s *EditorService) BeginEdit(ctx context.Context, id string) (model.EditableFields, error) {
	det, err := s.store.GetDetails(ctx, id)
	if err != nil {
		return model.EditableFields{}, mapStoreErr(err)
	}

	s.mu.Lock()
	s.drafts[id] = det.Fields
	s.mu.Unlock()
	return det.Fields, nil
}

// IsEditing сообщает, открыт ли черновик заявки.
func (s *EditorService) IsEditing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.drafts[id]
	return ok
}

// UpdateDraft применяет патч к черновику. Заявка должна находиться
// в режиме редактирования.
func (s *EditorService) UpdateDraft(_ context.Context, id string, patch FieldsPatch) (model.EditableFields, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok {
		return model.EditableFields{}, ErrInvalidState
	}

	updated, err := applyPatch(draft, patch)
	if err != nil {
		return model.EditableFields{}, err
	}
	s.drafts[id] = updated
	return updated, nil
}

// Save фиксирует черновик как новые отображаемые значения карточки
// и выходит из режима редактирования. Статус длины описания — только
// подсказка: сохранение не блокируется.
func (s *EditorService) Save(ctx context.Context, id string) (model.Details, DescriptionStatus, error) {
	s.mu.Lock()
	draft, ok := s.drafts[id]
	s.mu.Unlock()
	if !ok {
		return model.Details{}, DescriptionStatus{}, ErrInvalidState
	}

	det, err := s.store.UpdateFields(ctx, id, draft)
	if err != nil {
		return model.Details{}, DescriptionStatus{}, mapStoreErr(err)
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()

	return det, DescribeDescription(det.Fields.Description), nil
}

// Cancel отбрасывает черновик и выходит из режима редактирования.
// Зафиксированные значения не меняются. Отмена без открытого
// черновика — no-op.
func (s *EditorService) Cancel(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
}

// ApplyPatch — редактирование одним шагом: черновик, патч, фиксация.
// Используется PATCH-обработчиком API.
func (s *EditorService) ApplyPatch(ctx context.Context, id string, patch FieldsPatch) (model.Details, DescriptionStatus, error) {
	if _, err := s.BeginEdit(ctx, id); err != nil {
		return model.Details{}, DescriptionStatus{}, err
	}
	if _, err := s.UpdateDraft(ctx, id, patch); err != nil {
		s.Cancel(ctx, id)
		return model.Details{}, DescriptionStatus{}, err
	}
	return s.Save(ctx, id)
}

// applyPatch накладывает патч на поля, валидируя тип подключения.
func applyPatch(fields model.EditableFields, patch FieldsPatch) (model.EditableFields, error) {
	if patch.ServiceName != nil {
		fields.ServiceName = *patch.ServiceName
	}
	if patch.ServiceProvider != nil {
		fields.ServiceProvider = *patch.ServiceProvider
	}
	if patch.Category != nil {
		fields.Category = *patch.Category
	}
	if patch.UseCases != nil {
		fields.UseCases = *patch.UseCases
	}
	if patch.Description != nil {
		fields.Description = *patch.Description
	}
	if patch.ServiceType != nil {
		ct := model.ConnectionType(*patch.ServiceType)
		if !model.ValidConnectionType(ct) {
			return model.EditableFields{}, fmt.Errorf("тип подключения %q: %w", *patch.ServiceType, ErrValidation)
		}
		fields.ServiceType = ct
	}
	if patch.ServiceURL != nil {
		fields.ServiceURL = *patch.ServiceURL
	}
	if patch.PrivacyPolicyURL != nil {
		fields.PrivacyPolicyURL = *patch.PrivacyPolicyURL
	}
	return fields, nil
}
