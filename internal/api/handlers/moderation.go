// moderation.go — обработчики решений модератора.
// POST /api/v1/submissions/{id}/approve|reject|delist,
// POST /api/v1/submissions/batch.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/mcpmarket/review-module/internal/api/errors"
	"github.com/bigkaa/mcpmarket/review-module/internal/service"
)

// reasonRequest — тело запроса с причиной решения.
type reasonRequest struct {
	Reason string `json:"reason"`
}

// decisionResponse — ответ на единичное решение модератора.
type decisionResponse struct {
	Submission submissionDTO `json:"submission"`
}

// batchRequest — тело POST /api/v1/submissions/batch.
type batchRequest struct {
	Action string   `json:"action"`
	IDs    []string `json:"ids"`
	Reason string   `json:"reason"`
}

// batchFailureDTO — неуспех одной заявки батча.
type batchFailureDTO struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// batchResponse — пер-заявочный отчёт батчевого действия.
type batchResponse struct {
	Applied []string          `json:"applied"`
	Failed  []batchFailureDTO `json:"failed"`
}

// ApproveSubmission — POST /api/v1/submissions/{id}/approve.
// Переводит заявку из очереди модерации в Published.
func (h *APIHandler) ApproveSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := h.moderation.Approve(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, decisionResponse{Submission: submissionToDTO(sub)})
}

// RejectSubmission — POST /api/v1/submissions/{id}/reject.
// Причина обязательна.
func (h *APIHandler) RejectSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	sub, err := h.moderation.Reject(r.Context(), id, req.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, decisionResponse{Submission: submissionToDTO(sub)})
}

// DelistSubmission — POST /api/v1/submissions/{id}/delist.
// Снимает опубликованную заявку с публикации. Причина обязательна.
func (h *APIHandler) DelistSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	sub, err := h.moderation.Delist(r.Context(), id, req.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, decisionResponse{Submission: submissionToDTO(sub)})
}

// BatchModerate — POST /api/v1/submissions/batch.
// Применяет approve или reject к набору заявок. Неуспех одной заявки
// не отменяет применение к остальным: ответ содержит отчёт по каждой.
func (h *APIHandler) BatchModerate(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	action := service.BatchAction(req.Action)
	if action != service.BatchApprove && action != service.BatchReject {
		apierrors.ValidationError(w, "Параметр action должен быть approve или reject")
		return
	}
	if len(req.IDs) == 0 {
		apierrors.ValidationError(w, "Список ids не может быть пустым")
		return
	}

	result, err := h.moderation.Batch(r.Context(), action, req.IDs, req.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, batchResultToDTO(result))
}

func batchResultToDTO(result service.BatchResult) batchResponse {
	resp := batchResponse{
		Applied: result.Applied,
		Failed:  make([]batchFailureDTO, 0, len(result.Failed)),
	}
	if resp.Applied == nil {
		resp.Applied = []string{}
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, batchFailureDTO{ID: f.ID, Code: f.Code})
	}
	return resp
}
