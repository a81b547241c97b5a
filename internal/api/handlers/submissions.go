// submissions.go — обработчики списка и детальной карточки заявок.
// GET /api/v1/submissions, GET/PATCH /api/v1/submissions/{id},
// GET /api/v1/submissions/{id}/history.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/mcpmarket/review-module/internal/api/errors"
	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/service"
)

// listResponse — ответ GET /api/v1/submissions.
type listResponse struct {
	Items []submissionDTO `json:"items"`
	Page  pageDTO         `json:"page"`
}

// submissionResponse — ответ GET /api/v1/submissions/{id}.
type submissionResponse struct {
	Submission        submissionDTO        `json:"submission"`
	Details           detailsDTO           `json:"details"`
	DescriptionStatus descriptionStatusDTO `json:"description_status"`
	History           []reviewEventDTO     `json:"history"`
}

// patchRequest — тело PATCH /api/v1/submissions/{id}.
// Отсутствующее поле остаётся без изменений.
type patchRequest struct {
	ServiceName      *string `json:"service_name"`
	ServiceProvider  *string `json:"service_provider"`
	Category         *string `json:"category"`
	UseCases         *string `json:"use_cases"`
	Description      *string `json:"description"`
	ServiceType      *string `json:"service_type"`
	ServiceURL       *string `json:"service_url"`
	PrivacyPolicyURL *string `json:"privacy_policy_url"`
}

// patchResponse — ответ PATCH /api/v1/submissions/{id}.
type patchResponse struct {
	Details           detailsDTO           `json:"details"`
	DescriptionStatus descriptionStatusDTO `json:"description_status"`
}

// historyResponse — ответ GET /api/v1/submissions/{id}/history.
type historyResponse struct {
	Events []reviewEventDTO `json:"events"`
}

// ListSubmissions — GET /api/v1/submissions.
// Фильтры: tab, status, provider, date_from, date_to, search,
// server_id, developer. Пагинация: page, page_size.
func (h *APIHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Активная вкладка (по умолчанию — очередь модерации)
	tab := model.TabPending
	if v := q.Get("tab"); v != "" {
		tab = model.Tab(v)
		if !model.ValidTab(tab) {
			apierrors.ValidationError(w, fmt.Sprintf("Недопустимая вкладка: %s", v))
			return
		}
	}

	criteria, err := parseCriteria(q.Get("status"), q.Get("provider"),
		q.Get("date_from"), q.Get("date_to"),
		q.Get("search"), q.Get("server_id"), q.Get("developer"))
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	page := 1
	if v := q.Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil {
			apierrors.ValidationError(w, "Параметр page должен быть числом")
			return
		}
	}

	size := service.DefaultPageSize
	if v := q.Get("page_size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil || !service.ValidPageSize(size) {
			apierrors.ValidationError(w, "Параметр page_size должен быть одним из: 10, 20, 30, 50")
			return
		}
	}

	items, pageMeta, err := h.submissions.List(r.Context(), tab, criteria, page, size)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items: submissionsToDTO(items),
		Page:  pageToDTO(pageMeta),
	})
}

// GetSubmission — GET /api/v1/submissions/{id}.
// Возвращает заявку, детальную карточку, статус длины описания и историю.
func (h *APIHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, det, history, err := h.submissions.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissionResponse{
		Submission:        submissionToDTO(sub),
		Details:           detailsToDTO(det),
		DescriptionStatus: descriptionStatusToDTO(service.DescribeDescription(det.Fields.Description)),
		History:           historyToDTO(history),
	})
}

// PatchSubmission — PATCH /api/v1/submissions/{id}.
// Частичное обновление редактируемых полей детальной карточки.
func (h *APIHandler) PatchSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	patch := service.FieldsPatch{
		ServiceName:      req.ServiceName,
		ServiceProvider:  req.ServiceProvider,
		Category:         req.Category,
		UseCases:         req.UseCases,
		Description:      req.Description,
		ServiceType:      req.ServiceType,
		ServiceURL:       req.ServiceURL,
		PrivacyPolicyURL: req.PrivacyPolicyURL,
	}

	det, status, err := h.editor.ApplyPatch(r.Context(), id, patch)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, patchResponse{
		Details:           detailsToDTO(det),
		DescriptionStatus: descriptionStatusToDTO(status),
	})
}

// GetHistory — GET /api/v1/submissions/{id}/history.
// История модерации заявки, свежие события первыми.
func (h *APIHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	events, err := h.submissions.History(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Events: historyToDTO(events)})
}

// parseCriteria строит критерии фильтрации из query-параметров.
// Multi-select параметры передаются как значения через запятую.
func parseCriteria(status, provider, dateFrom, dateTo, search, serverID, developer string) (model.FilterCriteria, error) {
	var c model.FilterCriteria

	for _, v := range splitCSV(status) {
		s := model.Status(v)
		if !model.ValidStatus(s) {
			return model.FilterCriteria{}, fmt.Errorf("недопустимый статус: %s", v)
		}
		c.Statuses = append(c.Statuses, s)
	}

	for _, v := range splitCSV(provider) {
		p := model.Provider(v)
		if !model.ValidProvider(p) {
			return model.FilterCriteria{}, fmt.Errorf("недопустимый поставщик: %s", v)
		}
		c.Providers = append(c.Providers, p)
	}

	if dateFrom != "" {
		t, _, err := parseDate(dateFrom)
		if err != nil {
			return model.FilterCriteria{}, fmt.Errorf("недопустимая дата date_from: %s", dateFrom)
		}
		c.DateFrom = &t
	}
	if dateTo != "" {
		t, dateOnly, err := parseDate(dateTo)
		if err != nil {
			return model.FilterCriteria{}, fmt.Errorf("недопустимая дата date_to: %s", dateTo)
		}
		// Дата без времени означает весь день включительно
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		c.DateTo = &t
	}

	c.Search = search
	c.ServerIDs = splitCSV(serverID)
	c.Developers = splitCSV(developer)

	return c, nil
}
