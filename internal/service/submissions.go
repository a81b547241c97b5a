// submissions.go — чтение списка и детальной карточки заявок.
// Список пересчитывается с нуля от snapshot хранилища: фильтр,
// затем пагинация. Кэширования нет — объёмы данных малы.
package service

import (
	"context"
	"log/slog"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/repository"
)

// SubmissionService — запросы списка и карточки заявок.
type SubmissionService struct {
	store  *repository.SubmissionStore
	logger *slog.Logger
}

// NewSubmissionService создаёт SubmissionService.
func NewSubmissionService(store *repository.SubmissionStore, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{
		store:  store,
		logger: logger.With(slog.String("component", "service.submissions")),
	}
}

// List возвращает видимую страницу заявок вкладки tab по критериям c.
func (s *SubmissionService) List(ctx context.Context, tab model.Tab, c model.FilterCriteria, page, size int) ([]model.Submission, Page, error) {
	filtered := ApplyFilter(s.store.List(ctx), tab, c)
	return PaginateSubmissions(filtered, page, size)
}

// Get возвращает заявку, её детальную карточку и историю модерации.
func (s *SubmissionService) Get(ctx context.Context, id string) (model.Submission, model.Details, []model.ReviewEvent, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Submission{}, model.Details{}, nil, mapStoreErr(err)
	}
	det, err := s.store.GetDetails(ctx, id)
	if err != nil {
		return model.Submission{}, model.Details{}, nil, mapStoreErr(err)
	}
	history, err := s.store.History(ctx, id)
	if err != nil {
		return model.Submission{}, model.Details{}, nil, mapStoreErr(err)
	}
	return sub, det, history, nil
}

// History возвращает историю модерации заявки, свежие события первыми.
func (s *SubmissionService) History(ctx context.Context, id string) ([]model.ReviewEvent, error) {
	history, err := s.store.History(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return history, nil
}
