// moderation.go — workflow модерации заявок.
// Переходы: Pending → {Published, Rejected} (поштучно или батчем),
// Published → Delisted (только поштучно). Reject и Delist требуют
// непустой причины. Каждое решение пишет событие Manual Review
// в начало истории заявки.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/repository"
)

// Оценки ручного ревью, фиксируемые при решении модератора.
var (
	// ApproveScores — оценки при одобрении.
	ApproveScores = model.ReviewScores{
		ContentQuality: 92.00,
		Compliance:     91.00,
		SafetyCheck:    95.00,
		Overall:        92.70,
	}
	// RejectScores — оценки при отклонении.
	RejectScores = model.ReviewScores{
		ContentQuality: 85.00,
		Compliance:     82.00,
		SafetyCheck:    88.00,
		Overall:        85.00,
	}
)

// BatchAction — батчевое действие модерации.
type BatchAction string

// Допустимые батчевые действия. Delist батчем не выполняется.
const (
	BatchApprove BatchAction = "approve"
	BatchReject  BatchAction = "reject"
)

// BatchFailure — неуспех применения действия к одной заявке батча.
type BatchFailure struct {
	// ID — идентификатор заявки
	ID string
	// Code — машиночитаемый код причины (not_found, invalid_state)
	Code string
}

// BatchResult — пер-заявочный отчёт о батчевом действии.
// Неуспех одной заявки не отменяет применение к остальным.
type BatchResult struct {
	// Applied — заявки, к которым действие применено
	Applied []string
	// Failed — заявки, к которым действие применить не удалось
	Failed []BatchFailure
}

// ModerationService — сервис решений модератора.
type ModerationService struct {
	store    *repository.SubmissionStore
	operator string
	now      func() time.Time
	logger   *slog.Logger
}

// NewModerationService создаёт ModerationService.
// operator — имя оператора, записываемое в события Manual Review.
func NewModerationService(store *repository.SubmissionStore, operator string, logger *slog.Logger) *ModerationService {
	return &ModerationService{
		store:    store,
		operator: operator,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "service.moderation")),
	}
}

// Approve одобряет заявку из очереди модерации: статус Published,
// раздел reviewed, событие Manual Review с оценками одобрения.
func (s *ModerationService) Approve(ctx context.Context, id string) (model.Submission, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Submission{}, mapStoreErr(err)
	}
	if sub.Reviewed {
		return model.Submission{}, ErrInvalidState
	}

	updated, err := s.store.SetStatus(ctx, id, model.StatusPublished, true)
	if err != nil {
		return model.Submission{}, mapStoreErr(err)
	}

	scores := ApproveScores
	s.appendEvent(ctx, id, model.StatusPublished, "", &scores)
	s.logger.Info("Заявка одобрена", slog.String("submission_id", id))
	return updated, nil
}

// Reject отклоняет заявку из очереди модерации. Причина обязательна.
func (s *ModerationService) Reject(ctx context.Context, id, reason string) (model.Submission, error) {
	if strings.TrimSpace(reason) == "" {
		return model.Submission{}, ErrEmptyReason
	}

	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Submission{}, mapStoreErr(err)
	}
	if sub.Reviewed {
		return model.Submission{}, ErrInvalidState
	}

	updated, err := s.store.SetStatus(ctx, id, model.StatusRejected, true)
	if err != nil {
		return model.Submission{}, mapStoreErr(err)
	}

	scores := RejectScores
	s.appendEvent(ctx, id, model.StatusRejected, reason, &scores)
	s.logger.Info("Заявка отклонена",
		slog.String("submission_id", id),
		slog.String("reason", reason),
	)
	return updated, nil
}

// Delist снимает опубликованную заявку с публикации. Причина обязательна,
// история заявки сохраняется.
func (s *ModerationService) Delist(ctx context.Context, id, reason string) (model.Submission, error) {
	if strings.TrimSpace(reason) == "" {
		return model.Submission{}, ErrEmptyReason
	}

	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Submission{}, mapStoreErr(err)
	}
	if sub.Status != model.StatusPublished {
		return model.Submission{}, ErrInvalidState
	}

	updated, err := s.store.SetStatus(ctx, id, model.StatusDelisted, true)
	if err != nil {
		return model.Submission{}, mapStoreErr(err)
	}

	s.appendEvent(ctx, id, model.StatusDelisted, reason, nil)
	s.logger.Info("Заявка снята с публикации",
		slog.String("submission_id", id),
		slog.String("reason", reason),
	)
	return updated, nil
}

// Batch применяет approve или reject к каждой заявке списка и
// возвращает пер-заявочный отчёт. Неуспех одной заявки (не найдена,
// неподходящий раздел) не прерывает обработку остальных.
func (s *ModerationService) Batch(ctx context.Context, action BatchAction, ids []string, reason string) (BatchResult, error) {
	switch action {
	case BatchApprove:
	case BatchReject:
		if strings.TrimSpace(reason) == "" {
			return BatchResult{}, ErrEmptyReason
		}
	default:
		return BatchResult{}, ErrValidation
	}
	if len(ids) == 0 {
		return BatchResult{}, ErrValidation
	}

	var result BatchResult
	for _, id := range ids {
		var err error
		if action == BatchApprove {
			_, err = s.Approve(ctx, id)
		} else {
			_, err = s.Reject(ctx, id, reason)
		}

		switch {
		case err == nil:
			result.Applied = append(result.Applied, id)
		case errors.Is(err, ErrNotFound):
			result.Failed = append(result.Failed, BatchFailure{ID: id, Code: "not_found"})
		case errors.Is(err, ErrInvalidState):
			result.Failed = append(result.Failed, BatchFailure{ID: id, Code: "invalid_state"})
		default:
			result.Failed = append(result.Failed, BatchFailure{ID: id, Code: "internal"})
		}
	}

	s.logger.Info("Батчевое действие выполнено",
		slog.String("action", string(action)),
		slog.Int("applied", len(result.Applied)),
		slog.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// appendEvent пишет событие Manual Review в начало истории заявки.
func (s *ModerationService) appendEvent(ctx context.Context, id string, status model.Status, reason string, scores *model.ReviewScores) {
	ev := model.ReviewEvent{
		ID:        uuid.NewString(),
		Timestamp: s.now(),
		Status:    status,
		Type:      model.ReviewTypeManual,
		Operator:  s.operator,
		Reason:    reason,
		Scores:    scores,
	}
	if err := s.store.AppendEvent(ctx, id, ev); err != nil {
		// Заявка только что прочитана; сюда можно попасть лишь при гонке
		// с несуществующим ID.
		s.logger.Error("Не удалось записать событие истории",
			slog.String("submission_id", id),
			slog.String("error", err.Error()),
		)
	}
}

// mapStoreErr переводит ошибки репозитория в ошибки сервисного слоя.
func mapStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
