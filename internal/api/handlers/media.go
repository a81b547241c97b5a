// media.go — обработчики медиа-вложений детальной карточки.
// PUT/DELETE /api/v1/submissions/{id}/document,
// PUT/DELETE /api/v1/submissions/{id}/video.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/mcpmarket/review-module/internal/api/errors"
)

// documentRequest — тело PUT /api/v1/submissions/{id}/document.
type documentRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// videoRequest — тело PUT /api/v1/submissions/{id}/video.
type videoRequest struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

// AttachDocument — PUT /api/v1/submissions/{id}/document.
// Принимается только markdown (*.md). Повторная загрузка заменяет документ.
func (h *APIHandler) AttachDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	doc, err := h.media.AttachMarkdown(r.Context(), id, req.Filename, req.Content)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentDTO{
		Filename:   doc.Filename,
		Content:    doc.Content,
		UploadedAt: doc.UploadedAt.UTC().Format(timestampLayout),
	})
}

// RemoveDocument — DELETE /api/v1/submissions/{id}/document.
func (h *APIHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.media.RemoveMarkdown(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AttachVideo — PUT /api/v1/submissions/{id}/video.
// Принимается только mp4. Замена освобождает ресурс предыдущего видео.
func (h *APIHandler) AttachVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req videoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	video, err := h.media.AttachVideo(r.Context(), id, req.Filename, req.SizeBytes)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, videoDTO{
		ID:         video.ID,
		Filename:   video.Filename,
		SizeBytes:  video.SizeBytes,
		UploadedAt: video.UploadedAt.UTC().Format(timestampLayout),
	})
}

// RemoveVideo — DELETE /api/v1/submissions/{id}/video.
// Освобождает ресурс удаляемого видео.
func (h *APIHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.media.RemoveVideo(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
