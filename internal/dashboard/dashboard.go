// Пакет dashboard — контроллер списка заявок: явная структура
// состояния (вкладка, критерии, страница, выбор, ожидающее действие)
// и переходы над ней. Видимый список пересчитывается от snapshot
// хранилища на каждом переходе; компонент владеет своим состоянием
// монопольно и мутирует чужое только через контракты сервисов.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/repository"
	"github.com/bigkaa/mcpmarket/review-module/internal/service"
)

// ActionKind — вид действия модерации, ожидающего подтверждения.
type ActionKind string

// Виды действий. Approve/Reject — для очереди модерации (поштучно
// или батчем), Delist — только для опубликованной заявки.
const (
	ActionApprove ActionKind = "approve"
	ActionReject  ActionKind = "reject"
	ActionDelist  ActionKind = "delist"
)

// StagedAction — действие, ожидающее подтверждения в модальном окне.
// Причина вводится на шаге подтверждения.
type StagedAction struct {
	// Kind — вид действия
	Kind ActionKind
	// IDs — целевые заявки
	IDs []string
}

// View — видимое состояние дашборда после перехода.
type View struct {
	// Tab — активная вкладка
	Tab model.Tab
	// Criteria — текущие критерии фильтрации
	Criteria model.FilterCriteria
	// Items — заявки видимой страницы
	Items []model.Submission
	// Page — метаданные пагинации
	Page service.Page
	// Selected — выбранные заявки
	Selected []string
	// Staged — действие, ожидающее подтверждения (nil, если нет)
	Staged *StagedAction
}

// Outcome — результат подтверждённого действия.
type Outcome struct {
	// Applied — заявки, к которым действие применено
	Applied []string
	// Failed — заявки, к которым действие применить не удалось
	Failed []service.BatchFailure
}

// Dashboard — состояние одного сеанса работы модератора со списком.
type Dashboard struct {
	store      *repository.SubmissionStore
	moderation *service.ModerationService

	mu        sync.Mutex
	tab       model.Tab
	criteria  model.FilterCriteria
	page      int
	pageSize  int
	selection *Selection
	staged    *StagedAction
}

// New создаёт дашборд с вкладкой "Pending Review", первой страницей
// и указанным размером страницы.
func New(store *repository.SubmissionStore, moderation *service.ModerationService, pageSize int) (*Dashboard, error) {
	if !service.ValidPageSize(pageSize) {
		return nil, fmt.Errorf("размер страницы %d: %w", pageSize, service.ErrValidation)
	}
	return &Dashboard{
		store:      store,
		moderation: moderation,
		tab:        model.TabPending,
		page:       1,
		pageSize:   pageSize,
		selection:  NewSelection(),
	}, nil
}

// View возвращает текущее видимое состояние без переходов.
func (d *Dashboard) View(ctx context.Context) View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view(ctx)
}

// SwitchTab переключает активную вкладку. Страница и выбор
// сбрасываются, ожидающее действие отменяется.
func (d *Dashboard) SwitchTab(ctx context.Context, tab model.Tab) (View, error) {
	if !model.ValidTab(tab) {
		return View{}, fmt.Errorf("вкладка %q: %w", tab, service.ErrValidation)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.tab = tab
	d.resetContext()
	return d.view(ctx), nil
}

// SetCriteria заменяет критерии фильтрации. Страница и выбор
// сбрасываются.
func (d *Dashboard) SetCriteria(ctx context.Context, c model.FilterCriteria) View {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.criteria = c
	d.resetContext()
	return d.view(ctx)
}

// SetPage переходит на страницу n. Номер вне диапазона [1, totalPages]
// игнорируется (no-op, не ошибка). Смена страницы сбрасывает выбор.
func (d *Dashboard) SetPage(ctx context.Context, n int) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n >= 1 && n <= d.totalPages(ctx) && n != d.page {
		d.page = n
		d.selection.Clear()
	}
	return d.view(ctx)
}

// NextPage переходит на следующую страницу (no-op на последней).
func (d *Dashboard) NextPage(ctx context.Context) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.page < d.totalPages(ctx) {
		d.page++
		d.selection.Clear()
	}
	return d.view(ctx)
}

// PrevPage переходит на предыдущую страницу (no-op на первой).
func (d *Dashboard) PrevPage(ctx context.Context) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.page > 1 {
		d.page--
		d.selection.Clear()
	}
	return d.view(ctx)
}

// SetPageSize меняет размер страницы на один из допустимых.
// Текущая страница всегда сбрасывается на первую, выбор очищается.
func (d *Dashboard) SetPageSize(ctx context.Context, size int) (View, error) {
	if !service.ValidPageSize(size) {
		return View{}, fmt.Errorf("размер страницы %d: %w", size, service.ErrValidation)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pageSize = size
	d.page = 1
	d.selection.Clear()
	return d.view(ctx), nil
}

// JumpToPage разбирает ввод "перейти к странице". Нечисловой или
// выходящий за диапазон ввод игнорируется без ошибки.
func (d *Dashboard) JumpToPage(ctx context.Context, input string) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n, ok := service.ParseJumpTarget(input, d.totalPages(ctx)); ok && n != d.page {
		d.page = n
		d.selection.Clear()
	}
	return d.view(ctx)
}

// ToggleSelect переключает выбор заявки. Заявки вне видимой страницы
// игнорируются — выбор никогда не выходит за её пределы.
func (d *Dashboard) ToggleSelect(ctx context.Context, id string) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, sub := range d.visible(ctx) {
		if sub.ID == id {
			d.selection.Toggle(id)
			break
		}
	}
	return d.view(ctx)
}

// SelectAllVisible при selected=true выбирает ровно заявки видимой
// страницы, при selected=false очищает выбор.
func (d *Dashboard) SelectAllVisible(ctx context.Context, selected bool) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	if selected {
		visible := d.visible(ctx)
		ids := make([]string, 0, len(visible))
		for _, sub := range visible {
			ids = append(ids, sub.ID)
		}
		d.selection.SelectAll(ids)
	} else {
		d.selection.Clear()
	}
	return d.view(ctx)
}

// StageAction ставит действие на подтверждение. Для approve/reject
// пустой список целей означает текущий выбор; delist принимает ровно
// одну заявку. Состояние заявок не меняется до подтверждения.
func (d *Dashboard) StageAction(ctx context.Context, kind ActionKind, ids []string) (View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch kind {
	case ActionApprove, ActionReject:
		if len(ids) == 0 {
			ids = d.selection.IDs()
		}
		if len(ids) == 0 {
			return View{}, fmt.Errorf("нет целевых заявок: %w", service.ErrValidation)
		}
	case ActionDelist:
		if len(ids) != 1 {
			return View{}, fmt.Errorf("delist применяется к одной заявке: %w", service.ErrValidation)
		}
	default:
		return View{}, fmt.Errorf("действие %q: %w", kind, service.ErrValidation)
	}

	d.staged = &StagedAction{Kind: kind, IDs: append([]string(nil), ids...)}
	return d.view(ctx), nil
}

// CanConfirm сообщает, доступна ли кнопка подтверждения: для
// reject/delist причина обязана быть непустой (не только пробелы).
func (d *Dashboard) CanConfirm(reason string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.staged == nil {
		return false
	}
	if d.staged.Kind == ActionApprove {
		return true
	}
	return strings.TrimSpace(reason) != ""
}

// ConfirmAction подтверждает ожидающее действие: применяет его ко всем
// целевым заявкам, очищает выбор и закрывает модальное окно.
// Пустая причина для reject/delist — ошибка, состояние не меняется.
func (d *Dashboard) ConfirmAction(ctx context.Context, reason string) (View, Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.staged == nil {
		return View{}, Outcome{}, service.ErrInvalidState
	}

	var outcome Outcome
	switch d.staged.Kind {
	case ActionApprove, ActionReject:
		action := service.BatchApprove
		if d.staged.Kind == ActionReject {
			action = service.BatchReject
		}
		result, err := d.moderation.Batch(ctx, action, d.staged.IDs, reason)
		if err != nil {
			return View{}, Outcome{}, err
		}
		outcome = Outcome{Applied: result.Applied, Failed: result.Failed}
	case ActionDelist:
		id := d.staged.IDs[0]
		if _, err := d.moderation.Delist(ctx, id, reason); err != nil {
			return View{}, Outcome{}, err
		}
		outcome = Outcome{Applied: []string{id}}
	}

	d.staged = nil
	d.selection.Clear()
	return d.view(ctx), outcome, nil
}

// CancelAction закрывает модальное окно без применения действия.
// Всё остальное состояние остаётся прежним.
func (d *Dashboard) CancelAction(ctx context.Context) View {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.staged = nil
	return d.view(ctx)
}

// --- Внутреннее (вызывается под mu) ---

// resetContext — смена контекста: первая страница, пустой выбор,
// отмена ожидающего действия.
func (d *Dashboard) resetContext() {
	d.page = 1
	d.selection.Clear()
	d.staged = nil
}

// filtered возвращает отфильтрованный список вкладки.
func (d *Dashboard) filtered(ctx context.Context) []model.Submission {
	return service.ApplyFilter(d.store.List(ctx), d.tab, d.criteria)
}

// totalPages вычисляет количество страниц текущего списка.
func (d *Dashboard) totalPages(ctx context.Context) int {
	p, err := service.Paginate(len(d.filtered(ctx)), d.page, d.pageSize)
	if err != nil {
		return 1
	}
	return p.TotalPages
}

// visible возвращает заявки видимой страницы.
func (d *Dashboard) visible(ctx context.Context) []model.Submission {
	items, _, err := service.PaginateSubmissions(d.filtered(ctx), d.page, d.pageSize)
	if err != nil {
		return nil
	}
	return items
}

// view пересчитывает видимое состояние. Номер страницы приводится
// к границам после любой мутации, изменившей размер списка; выбор
// подрезается до видимых заявок.
func (d *Dashboard) view(ctx context.Context) View {
	items, page, err := service.PaginateSubmissions(d.filtered(ctx), d.page, d.pageSize)
	if err != nil {
		// Размер страницы валидируется на входе; сюда не попадаем.
		items, page = nil, service.Page{Current: 1, Size: d.pageSize, TotalPages: 1}
	}
	d.page = page.Current

	visibleIDs := make([]string, 0, len(items))
	for _, sub := range items {
		visibleIDs = append(visibleIDs, sub.ID)
	}
	d.selection.Prune(visibleIDs)

	var staged *StagedAction
	if d.staged != nil {
		st := StagedAction{Kind: d.staged.Kind, IDs: append([]string(nil), d.staged.IDs...)}
		staged = &st
	}

	return View{
		Tab:      d.tab,
		Criteria: d.criteria,
		Items:    items,
		Page:     page,
		Selected: d.selection.IDs(),
		Staged:   staged,
	}
}
