// dashboard.go — обработчики сеансов дашборда модератора.
// Каждый переход состояния (вкладка, фильтры, страница, выбор,
// подготовка и подтверждение действия) — отдельный endpoint,
// возвращающий видимое состояние после перехода.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/mcpmarket/review-module/internal/api/errors"
	"github.com/bigkaa/mcpmarket/review-module/internal/dashboard"
	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
)

// criteriaDTO — критерии фильтрации в API-представлении.
type criteriaDTO struct {
	Statuses   []string `json:"statuses,omitempty"`
	Providers  []string `json:"providers,omitempty"`
	DateFrom   string   `json:"date_from,omitempty"`
	DateTo     string   `json:"date_to,omitempty"`
	Search     string   `json:"search,omitempty"`
	ServerIDs  []string `json:"server_ids,omitempty"`
	Developers []string `json:"developers,omitempty"`
}

// stagedActionDTO — действие, ожидающее подтверждения.
type stagedActionDTO struct {
	Kind string   `json:"kind"`
	IDs  []string `json:"ids"`
}

// viewDTO — видимое состояние дашборда.
type viewDTO struct {
	Tab      string           `json:"tab"`
	Criteria criteriaDTO      `json:"criteria"`
	Items    []submissionDTO  `json:"items"`
	Page     pageDTO          `json:"page"`
	Selected []string         `json:"selected"`
	Staged   *stagedActionDTO `json:"staged,omitempty"`
}

// sessionResponse — ответ POST /api/v1/dashboard.
type sessionResponse struct {
	SessionID string  `json:"session_id"`
	View      viewDTO `json:"view"`
}

// viewResponse — ответ на переход состояния дашборда.
type viewResponse struct {
	View viewDTO `json:"view"`
}

// outcomeResponse — ответ на подтверждение действия.
type outcomeResponse struct {
	View    viewDTO           `json:"view"`
	Applied []string          `json:"applied"`
	Failed  []batchFailureDTO `json:"failed"`
}

func criteriaToDTO(c model.FilterCriteria) criteriaDTO {
	dto := criteriaDTO{
		Search:     c.Search,
		ServerIDs:  c.ServerIDs,
		Developers: c.Developers,
	}
	for _, s := range c.Statuses {
		dto.Statuses = append(dto.Statuses, string(s))
	}
	for _, p := range c.Providers {
		dto.Providers = append(dto.Providers, string(p))
	}
	if c.DateFrom != nil {
		dto.DateFrom = c.DateFrom.UTC().Format(timestampLayout)
	}
	if c.DateTo != nil {
		dto.DateTo = c.DateTo.UTC().Format(timestampLayout)
	}
	return dto
}

func viewToDTO(v dashboard.View) viewDTO {
	dto := viewDTO{
		Tab:      string(v.Tab),
		Criteria: criteriaToDTO(v.Criteria),
		Items:    submissionsToDTO(v.Items),
		Page:     pageToDTO(v.Page),
		Selected: v.Selected,
	}
	if dto.Selected == nil {
		dto.Selected = []string{}
	}
	if v.Staged != nil {
		dto.Staged = &stagedActionDTO{
			Kind: string(v.Staged.Kind),
			IDs:  v.Staged.IDs,
		}
	}
	return dto
}

// session извлекает сеанс дашборда из path-параметра sid.
// Отсутствующий сеанс — 404.
func (h *APIHandler) session(w http.ResponseWriter, r *http.Request) (*dashboard.Dashboard, bool) {
	sid := chi.URLParam(r, "sid")
	d, ok := h.sessions.Get(sid)
	if !ok {
		apierrors.NotFound(w, "Сеанс дашборда не найден")
		return nil, false
	}
	return d, true
}

// CreateSession — POST /api/v1/dashboard.
// Создаёт сеанс дашборда с начальным состоянием.
func (h *APIHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sid, d, err := h.sessions.Create()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sid,
		View:      viewToDTO(d.View(r.Context())),
	})
}

// GetSession — GET /api/v1/dashboard/{sid}.
func (h *APIHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{View: viewToDTO(d.View(r.Context()))})
}

// DeleteSession — DELETE /api/v1/dashboard/{sid}.
func (h *APIHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	h.sessions.Delete(sid)
	w.WriteHeader(http.StatusNoContent)
}

// SwitchTab — POST /api/v1/dashboard/{sid}/tab.
// Переключение вкладки сбрасывает страницу, выбор и ожидающее действие.
func (h *APIHandler) SwitchTab(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	view, err := d.SwitchTab(r.Context(), model.Tab(req.Tab))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{View: viewToDTO(view)})
}

// SetCriteria — POST /api/v1/dashboard/{sid}/criteria.
// Смена критериев фильтрации сбрасывает страницу и выбор.
func (h *APIHandler) SetCriteria(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Status    string `json:"status"`
		Provider  string `json:"provider"`
		DateFrom  string `json:"date_from"`
		DateTo    string `json:"date_to"`
		Search    string `json:"search"`
		ServerID  string `json:"server_id"`
		Developer string `json:"developer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	criteria, err := parseCriteria(req.Status, req.Provider,
		req.DateFrom, req.DateTo, req.Search, req.ServerID, req.Developer)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{View: viewToDTO(d.SetCriteria(r.Context(), criteria))})
}

// SetPage — POST /api/v1/dashboard/{sid}/page.
// Переход на страницу вне диапазона игнорируется.
func (h *APIHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{View: viewToDTO(d.SetPage(r.Context(), req.Page))})
}

// SetPageSize — POST /api/v1/dashboard/{sid}/page-size.
// Смена размера страницы возвращает на первую страницу.
func (h *APIHandler) SetPageSize(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Size int `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	view, err := d.SetPageSize(r.Context(), req.Size)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{View: viewToDTO(view)})
}

// JumpToPage — POST /api/v1/dashboard/{sid}/jump.
// Свободный ввод номера страницы; нечисловой или внедиапазонный
// ввод игнорируется.
func (h *APIHandler) JumpToPage(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{View: viewToDTO(d.JumpToPage(r.Context(), req.Input))})
}

// ToggleSelect — POST /api/v1/dashboard/{sid}/select.
// Переключает выбор заявки видимой страницы.
func (h *APIHandler) ToggleSelect(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{View: viewToDTO(d.ToggleSelect(r.Context(), req.ID))})
}

// SelectAll — POST /api/v1/dashboard/{sid}/select-all.
// Выбирает или снимает выбор со всех заявок видимой страницы.
func (h *APIHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Selected bool `json:"selected"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{View: viewToDTO(d.SelectAllVisible(r.Context(), req.Selected))})
}

// StageAction — POST /api/v1/dashboard/{sid}/stage.
// Подготавливает действие к подтверждению в модальном окне.
// Для approve/reject пустой список ids берёт текущий выбор.
func (h *APIHandler) StageAction(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Action string   `json:"action"`
		IDs    []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	view, err := d.StageAction(r.Context(), dashboard.ActionKind(req.Action), req.IDs)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{View: viewToDTO(view)})
}

// ConfirmAction — POST /api/v1/dashboard/{sid}/confirm.
// Подтверждает подготовленное действие. Для reject и delist
// причина обязательна.
func (h *APIHandler) ConfirmAction(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	view, outcome, err := d.ConfirmAction(r.Context(), req.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := outcomeResponse{
		View:    viewToDTO(view),
		Applied: outcome.Applied,
		Failed:  make([]batchFailureDTO, 0, len(outcome.Failed)),
	}
	if resp.Applied == nil {
		resp.Applied = []string{}
	}
	for _, f := range outcome.Failed {
		resp.Failed = append(resp.Failed, batchFailureDTO{ID: f.ID, Code: f.Code})
	}

	writeJSON(w, http.StatusOK, resp)
}

// CancelAction — POST /api/v1/dashboard/{sid}/cancel.
// Отменяет подготовленное действие без изменения заявок.
func (h *APIHandler) CancelAction(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{View: viewToDTO(d.CancelAction(r.Context()))})
}
