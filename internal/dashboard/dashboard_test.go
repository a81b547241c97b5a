package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/repository"
	"github.com/bigkaa/mcpmarket/review-module/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newDashboard возвращает дашборд над засеянным хранилищем:
// 6 заявок в очереди модерации, 4 в разделе Reviewed.
func newDashboard(t *testing.T, pageSize int) (*Dashboard, *repository.SubmissionStore) {
	t.Helper()
	store := repository.NewSubmissionStore()
	if err := store.Seed(repository.SeedData()); err != nil {
		t.Fatalf("Seed() вернул ошибку: %v", err)
	}
	moderation := service.NewModerationService(store, "John Smith", testLogger())
	d, err := New(store, moderation, pageSize)
	if err != nil {
		t.Fatalf("New() вернул ошибку: %v", err)
	}
	return d, store
}

func TestNew_InvalidPageSize(t *testing.T) {
	store := repository.NewSubmissionStore()
	moderation := service.NewModerationService(store, "John Smith", testLogger())

	if _, err := New(store, moderation, 15); !errors.Is(err, service.ErrValidation) {
		t.Errorf("New(15) вернул %v, ожидается ErrValidation", err)
	}
}

func TestView_InitialState(t *testing.T) {
	d, _ := newDashboard(t, 10)
	v := d.View(context.Background())

	if v.Tab != model.TabPending {
		t.Errorf("начальная вкладка %q, ожидается Pending Review", v.Tab)
	}
	if len(v.Items) != 6 {
		t.Errorf("видно %d заявок, ожидается 6", len(v.Items))
	}
	if v.Page.Current != 1 || v.Page.TotalPages != 1 {
		t.Errorf("страница %d/%d, ожидается 1/1", v.Page.Current, v.Page.TotalPages)
	}
	if len(v.Selected) != 0 || v.Staged != nil {
		t.Error("начальное состояние содержит выбор или ожидающее действие")
	}
}

func TestSwitchTab_ResetsContext(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	d.SelectAllVisible(ctx, true)
	if _, err := d.StageAction(ctx, ActionApprove, nil); err != nil {
		t.Fatalf("StageAction() вернул ошибку: %v", err)
	}

	v, err := d.SwitchTab(ctx, model.TabReviewed)
	if err != nil {
		t.Fatalf("SwitchTab() вернул ошибку: %v", err)
	}
	if v.Tab != model.TabReviewed {
		t.Errorf("вкладка %q, ожидается Reviewed", v.Tab)
	}
	if len(v.Items) != 4 {
		t.Errorf("видно %d заявок, ожидается 4", len(v.Items))
	}
	if len(v.Selected) != 0 {
		t.Errorf("выбор пережил смену вкладки: %v", v.Selected)
	}
	if v.Staged != nil {
		t.Error("ожидающее действие пережило смену вкладки")
	}
}

func TestSwitchTab_InvalidTab(t *testing.T) {
	d, _ := newDashboard(t, 10)

	if _, err := d.SwitchTab(context.Background(), "Archive"); !errors.Is(err, service.ErrValidation) {
		t.Errorf("SwitchTab(Archive) вернул %v, ожидается ErrValidation", err)
	}
}

func TestSetCriteria_ResetsPageAndSelection(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	d.ToggleSelect(ctx, "mcp-123456789")

	v := d.SetCriteria(ctx, model.FilterCriteria{Search: "database"})
	if len(v.Items) != 1 || v.Items[0].ID != "mcp-234567890" {
		t.Errorf("после фильтра видно %v", len(v.Items))
	}
	if v.Page.Current != 1 {
		t.Errorf("страница %d, ожидается 1", v.Page.Current)
	}
	if len(v.Selected) != 0 {
		t.Errorf("выбор пережил смену критериев: %v", v.Selected)
	}
}

func TestSetPage_OutOfRangeIgnored(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	// 6 заявок при размере 10 — одна страница
	v := d.SetPage(ctx, 5)
	if v.Page.Current != 1 {
		t.Errorf("переход на страницу 5 изменил текущую: %d", v.Page.Current)
	}
	v = d.SetPage(ctx, 0)
	if v.Page.Current != 1 {
		t.Errorf("переход на страницу 0 изменил текущую: %d", v.Page.Current)
	}
}

func TestJumpToPage_InvalidInputIgnored(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	d.ToggleSelect(ctx, "mcp-123456789")

	for _, input := range []string{"abc", "", "99", "0"} {
		v := d.JumpToPage(ctx, input)
		if v.Page.Current != 1 {
			t.Errorf("JumpToPage(%q) изменил страницу: %d", input, v.Page.Current)
		}
		// Игнорируемый переход не трогает выбор
		if len(v.Selected) != 1 {
			t.Errorf("JumpToPage(%q) изменил выбор: %v", input, v.Selected)
		}
	}
}

func TestSetPageSize_ResetsToFirstPage(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	v, err := d.SetPageSize(ctx, 20)
	if err != nil {
		t.Fatalf("SetPageSize() вернул ошибку: %v", err)
	}
	if v.Page.Size != 20 || v.Page.Current != 1 {
		t.Errorf("после смены размера: size=%d current=%d", v.Page.Size, v.Page.Current)
	}

	if _, err := d.SetPageSize(ctx, 25); !errors.Is(err, service.ErrValidation) {
		t.Errorf("SetPageSize(25) вернул %v, ожидается ErrValidation", err)
	}
}

func TestToggleSelect(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	v := d.ToggleSelect(ctx, "mcp-123456789")
	if len(v.Selected) != 1 || v.Selected[0] != "mcp-123456789" {
		t.Errorf("Selected = %v, ожидается [mcp-123456789]", v.Selected)
	}

	// Повторный toggle снимает выбор
	v = d.ToggleSelect(ctx, "mcp-123456789")
	if len(v.Selected) != 0 {
		t.Errorf("повторный toggle не снял выбор: %v", v.Selected)
	}

	// Заявка другой вкладки не выбирается
	v = d.ToggleSelect(ctx, "mcp-789012345")
	if len(v.Selected) != 0 {
		t.Errorf("выбрана заявка вне видимой страницы: %v", v.Selected)
	}
}

func TestSelectAllVisible(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	v := d.SelectAllVisible(ctx, true)
	if len(v.Selected) != 6 {
		t.Errorf("выбрано %d заявок, ожидается 6 (видимая страница)", len(v.Selected))
	}

	v = d.SelectAllVisible(ctx, false)
	if len(v.Selected) != 0 {
		t.Errorf("снятие выбора оставило %v", v.Selected)
	}
}

func TestStageAction(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	// Пустой список целей approve берёт текущий выбор
	d.ToggleSelect(ctx, "mcp-123456789")
	d.ToggleSelect(ctx, "mcp-234567890")
	v, err := d.StageAction(ctx, ActionApprove, nil)
	if err != nil {
		t.Fatalf("StageAction() вернул ошибку: %v", err)
	}
	if v.Staged == nil || v.Staged.Kind != ActionApprove || len(v.Staged.IDs) != 2 {
		t.Errorf("Staged = %+v, ожидается approve с 2 заявками", v.Staged)
	}

	// До подтверждения заявки не изменены
	for _, sub := range v.Items {
		if sub.ID == "mcp-123456789" && sub.Status != model.StatusAutoApproved {
			t.Errorf("staging изменил статус заявки: %q", sub.Status)
		}
	}
}

func TestStageAction_Validation(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	// approve без выбора и без целей
	if _, err := d.StageAction(ctx, ActionApprove, nil); !errors.Is(err, service.ErrValidation) {
		t.Errorf("StageAction(approve) без целей вернул %v, ожидается ErrValidation", err)
	}

	// delist требует ровно одну цель
	if _, err := d.StageAction(ctx, ActionDelist, []string{"a", "b"}); !errors.Is(err, service.ErrValidation) {
		t.Errorf("StageAction(delist, 2 цели) вернул %v, ожидается ErrValidation", err)
	}
	if _, err := d.StageAction(ctx, ActionDelist, nil); !errors.Is(err, service.ErrValidation) {
		t.Errorf("StageAction(delist, 0 целей) вернул %v, ожидается ErrValidation", err)
	}

	// неизвестное действие
	if _, err := d.StageAction(ctx, "publish", []string{"a"}); !errors.Is(err, service.ErrValidation) {
		t.Errorf("StageAction(publish) вернул %v, ожидается ErrValidation", err)
	}
}

func TestCanConfirm(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	if d.CanConfirm("any") {
		t.Error("CanConfirm() = true без ожидающего действия")
	}

	d.ToggleSelect(ctx, "mcp-123456789")
	if _, err := d.StageAction(ctx, ActionApprove, nil); err != nil {
		t.Fatalf("StageAction() вернул ошибку: %v", err)
	}
	if !d.CanConfirm("") {
		t.Error("CanConfirm() = false для approve без причины")
	}

	d.CancelAction(ctx)
	if _, err := d.StageAction(ctx, ActionReject, []string{"mcp-123456789"}); err != nil {
		t.Fatalf("StageAction() вернул ошибку: %v", err)
	}
	if d.CanConfirm("   ") {
		t.Error("CanConfirm() = true для reject с причиной из пробелов")
	}
	if !d.CanConfirm("Policy violation") {
		t.Error("CanConfirm() = false для reject с непустой причиной")
	}
}

func TestConfirmAction_RequiresStaged(t *testing.T) {
	d, _ := newDashboard(t, 10)

	_, _, err := d.ConfirmAction(context.Background(), "reason")
	if !errors.Is(err, service.ErrInvalidState) {
		t.Errorf("ConfirmAction() без ожидающего действия вернул %v, ожидается ErrInvalidState", err)
	}
}

func TestConfirmAction_RejectEmptyReasonKeepsState(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	if _, err := d.StageAction(ctx, ActionReject, []string{"mcp-123456789"}); err != nil {
		t.Fatalf("StageAction() вернул ошибку: %v", err)
	}

	_, _, err := d.ConfirmAction(ctx, "")
	if !errors.Is(err, service.ErrEmptyReason) {
		t.Fatalf("ConfirmAction(reject, \"\") вернул %v, ожидается ErrEmptyReason", err)
	}

	// Действие осталось на подтверждении, заявка не изменена
	v := d.View(ctx)
	if v.Staged == nil {
		t.Error("неуспешное подтверждение закрыло модальное окно")
	}
	if len(v.Items) != 6 {
		t.Errorf("неуспешное подтверждение изменило список: %d заявок", len(v.Items))
	}
}

func TestCancelAction_KeepsSelection(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	d.ToggleSelect(ctx, "mcp-123456789")
	if _, err := d.StageAction(ctx, ActionApprove, nil); err != nil {
		t.Fatalf("StageAction() вернул ошибку: %v", err)
	}

	v := d.CancelAction(ctx)
	if v.Staged != nil {
		t.Error("CancelAction() не закрыл модальное окно")
	}
	if len(v.Selected) != 1 {
		t.Errorf("CancelAction() изменил выбор: %v", v.Selected)
	}
}

// Полный сценарий: выбрать всю очередь модерации, батчем одобрить,
// очередь пустеет, раздел Reviewed вырастает до 10.
func TestBatchApprove_EndToEnd(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	v := d.SelectAllVisible(ctx, true)
	if len(v.Selected) != 6 {
		t.Fatalf("выбрано %d заявок, ожидается 6", len(v.Selected))
	}

	if _, err := d.StageAction(ctx, ActionApprove, nil); err != nil {
		t.Fatalf("StageAction() вернул ошибку: %v", err)
	}

	v, outcome, err := d.ConfirmAction(ctx, "")
	if err != nil {
		t.Fatalf("ConfirmAction() вернул ошибку: %v", err)
	}
	if len(outcome.Applied) != 6 || len(outcome.Failed) != 0 {
		t.Errorf("результат %d applied / %d failed, ожидается 6/0", len(outcome.Applied), len(outcome.Failed))
	}

	// Очередь модерации опустела, выбор и модальное окно закрыты
	if len(v.Items) != 0 {
		t.Errorf("в очереди осталось %d заявок, ожидается 0", len(v.Items))
	}
	if v.Page.TotalPages != 1 || v.Page.Current != 1 {
		t.Errorf("пустой список: страница %d/%d, ожидается 1/1", v.Page.Current, v.Page.TotalPages)
	}
	if len(v.Selected) != 0 || v.Staged != nil {
		t.Error("после подтверждения остался выбор или ожидающее действие")
	}

	// Все заявки теперь в разделе Reviewed
	v, err = d.SwitchTab(ctx, model.TabReviewed)
	if err != nil {
		t.Fatalf("SwitchTab() вернул ошибку: %v", err)
	}
	if len(v.Items) != 10 {
		t.Errorf("в разделе Reviewed %d заявок, ожидается 10", len(v.Items))
	}
}

// Снятие с публикации через модальное окно.
func TestDelist_EndToEnd(t *testing.T) {
	d, _ := newDashboard(t, 10)
	ctx := context.Background()

	if _, err := d.SwitchTab(ctx, model.TabReviewed); err != nil {
		t.Fatalf("SwitchTab() вернул ошибку: %v", err)
	}
	if _, err := d.StageAction(ctx, ActionDelist, []string{"mcp-789012345"}); err != nil {
		t.Fatalf("StageAction() вернул ошибку: %v", err)
	}

	v, outcome, err := d.ConfirmAction(ctx, "Outdated service")
	if err != nil {
		t.Fatalf("ConfirmAction() вернул ошибку: %v", err)
	}
	if len(outcome.Applied) != 1 || outcome.Applied[0] != "mcp-789012345" {
		t.Errorf("Applied = %v, ожидается [mcp-789012345]", outcome.Applied)
	}

	// Заявка осталась в разделе Reviewed со статусом Delisted
	found := false
	for _, sub := range v.Items {
		if sub.ID == "mcp-789012345" {
			found = true
			if sub.Status != model.StatusDelisted {
				t.Errorf("статус %q, ожидается Delisted", sub.Status)
			}
		}
	}
	if !found {
		t.Error("снятая с публикации заявка пропала из раздела Reviewed")
	}
}

func TestSessionManager(t *testing.T) {
	store := repository.NewSubmissionStore()
	if err := store.Seed(repository.SeedData()); err != nil {
		t.Fatalf("Seed() вернул ошибку: %v", err)
	}
	moderation := service.NewModerationService(store, "John Smith", testLogger())

	m, err := NewSessionManager(store, moderation, 10)
	if err != nil {
		t.Fatalf("NewSessionManager() вернул ошибку: %v", err)
	}

	sid, d, err := m.Create()
	if err != nil {
		t.Fatalf("Create() вернул ошибку: %v", err)
	}
	if sid == "" || d == nil {
		t.Fatal("Create() вернул пустой сеанс")
	}

	got, ok := m.Get(sid)
	if !ok || got != d {
		t.Error("Get() не вернул созданный сеанс")
	}

	// Сеансы независимы
	sid2, d2, _ := m.Create()
	if sid2 == sid || d2 == d {
		t.Error("Create() вернул тот же сеанс повторно")
	}

	m.Delete(sid)
	if _, ok := m.Get(sid); ok {
		t.Error("Get() вернул удалённый сеанс")
	}
}
