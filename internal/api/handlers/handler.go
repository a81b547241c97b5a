// handler.go — основной обработчик API Review Module.
// Объединяет обработчики заявок, модерации, медиа и сеансов дашборда,
// содержит DTO ответов и конвертеры из domain-моделей.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/bigkaa/mcpmarket/review-module/internal/api/errors"
	"github.com/bigkaa/mcpmarket/review-module/internal/dashboard"
	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/service"
)

// APIHandler — основной обработчик API Review Module.
// Делегирует запросы в сервисный слой и менеджер сеансов дашборда.
type APIHandler struct {
	submissions *service.SubmissionService
	moderation  *service.ModerationService
	editor      *service.EditorService
	media       *service.MediaService
	sessions    *dashboard.SessionManager
	logger      *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	submissions *service.SubmissionService,
	moderation *service.ModerationService,
	editor *service.EditorService,
	media *service.MediaService,
	sessions *dashboard.SessionManager,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		submissions: submissions,
		moderation:  moderation,
		editor:      editor,
		media:       media,
		sessions:    sessions,
		logger:      logger.With(slog.String("component", "api_handler")),
	}
}

// timestampLayout — формат временных меток в API-ответах.
const timestampLayout = time.RFC3339

// --- DTO ответов ---

// submissionDTO — заявка в API-представлении.
type submissionDTO struct {
	ID          string  `json:"id"`
	ServerID    string  `json:"server_id"`
	Name        string  `json:"name"`
	Developer   string  `json:"developer"`
	Provider    string  `json:"provider"`
	Version     string  `json:"version"`
	SubmittedAt string  `json:"submitted_at"`
	Status      string  `json:"status"`
	AIReview    *string `json:"ai_review,omitempty"`
	Reviewed    bool    `json:"reviewed"`
}

// pageDTO — метаданные пагинации.
type pageDTO struct {
	Current    int `json:"current"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// scoresDTO — оценки ревью.
type scoresDTO struct {
	ContentQuality float64 `json:"content_quality"`
	Compliance     float64 `json:"compliance"`
	SafetyCheck    float64 `json:"safety_check"`
	Overall        float64 `json:"overall"`
}

// reviewEventDTO — событие истории модерации.
type reviewEventDTO struct {
	ID        string     `json:"id"`
	Timestamp string     `json:"timestamp"`
	Status    string     `json:"status"`
	Type      string     `json:"type"`
	Operator  string     `json:"operator,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Scores    *scoresDTO `json:"scores,omitempty"`
}

// fieldsDTO — редактируемые поля детальной карточки.
type fieldsDTO struct {
	ServiceName      string `json:"service_name"`
	ServiceProvider  string `json:"service_provider"`
	Category         string `json:"category"`
	UseCases         string `json:"use_cases"`
	Description      string `json:"description"`
	ServiceType      string `json:"service_type"`
	ServiceURL       string `json:"service_url"`
	PrivacyPolicyURL string `json:"privacy_policy_url"`
}

// documentDTO — markdown-документ заявки.
type documentDTO struct {
	Filename   string `json:"filename"`
	Content    string `json:"content"`
	UploadedAt string `json:"uploaded_at"`
}

// videoDTO — демонстрационное видео заявки.
type videoDTO struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	SizeBytes  int64  `json:"size_bytes"`
	UploadedAt string `json:"uploaded_at"`
}

// packageDTO — установочный пакет (только чтение).
type packageDTO struct {
	FileName              string `json:"file_name"`
	FileType              string `json:"file_type"`
	FileSize              string `json:"file_size"`
	UploadedAt            string `json:"uploaded_at"`
	PlatformType          string `json:"platform_type"`
	FileHash              string `json:"file_hash"`
	VirusScan             string `json:"virus_scan"`
	MinPlatformVersion    string `json:"min_platform_version"`
	TargetPlatformVersion string `json:"target_platform_version,omitempty"`
}

// attachedFileDTO — приложенный файл (только чтение).
type attachedFileDTO struct {
	Name string `json:"name"`
	Size string `json:"size"`
	Type string `json:"type"`
}

// detailsDTO — детальная карточка заявки.
type detailsDTO struct {
	Fields      fieldsDTO         `json:"fields"`
	Screenshots []string          `json:"screenshots"`
	Document    *documentDTO      `json:"document,omitempty"`
	Video       *videoDTO         `json:"video,omitempty"`
	Packages    []packageDTO      `json:"packages"`
	Files       []attachedFileDTO `json:"files"`
}

// descriptionStatusDTO — производный статус длины описания.
type descriptionStatusDTO struct {
	Kind    string `json:"kind"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// --- Конвертеры domain → DTO ---

func submissionToDTO(s model.Submission) submissionDTO {
	dto := submissionDTO{
		ID:          s.ID,
		ServerID:    s.ServerID,
		Name:        s.Name,
		Developer:   s.Developer,
		Provider:    string(s.Provider),
		Version:     s.Version,
		SubmittedAt: s.SubmittedAt.UTC().Format(timestampLayout),
		Status:      string(s.Status),
		Reviewed:    s.Reviewed,
	}
	if s.AIReview != "" {
		v := string(s.AIReview)
		dto.AIReview = &v
	}
	return dto
}

func submissionsToDTO(subs []model.Submission) []submissionDTO {
	out := make([]submissionDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, submissionToDTO(s))
	}
	return out
}

func pageToDTO(p service.Page) pageDTO {
	return pageDTO{
		Current:    p.Current,
		Size:       p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}

func eventToDTO(ev model.ReviewEvent) reviewEventDTO {
	dto := reviewEventDTO{
		ID:        ev.ID,
		Timestamp: ev.Timestamp.UTC().Format(timestampLayout),
		Status:    string(ev.Status),
		Type:      string(ev.Type),
		Operator:  ev.Operator,
		Reason:    ev.Reason,
	}
	if ev.Scores != nil {
		dto.Scores = &scoresDTO{
			ContentQuality: ev.Scores.ContentQuality,
			Compliance:     ev.Scores.Compliance,
			SafetyCheck:    ev.Scores.SafetyCheck,
			Overall:        ev.Scores.Overall,
		}
	}
	return dto
}

func historyToDTO(events []model.ReviewEvent) []reviewEventDTO {
	out := make([]reviewEventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, eventToDTO(ev))
	}
	return out
}

func detailsToDTO(det model.Details) detailsDTO {
	dto := detailsDTO{
		Fields: fieldsDTO{
			ServiceName:      det.Fields.ServiceName,
			ServiceProvider:  det.Fields.ServiceProvider,
			Category:         det.Fields.Category,
			UseCases:         det.Fields.UseCases,
			Description:      det.Fields.Description,
			ServiceType:      string(det.Fields.ServiceType),
			ServiceURL:       det.Fields.ServiceURL,
			PrivacyPolicyURL: det.Fields.PrivacyPolicyURL,
		},
		Screenshots: det.Screenshots,
	}
	if det.Document != nil {
		dto.Document = &documentDTO{
			Filename:   det.Document.Filename,
			Content:    det.Document.Content,
			UploadedAt: det.Document.UploadedAt.UTC().Format(timestampLayout),
		}
	}
	if det.Video != nil {
		dto.Video = &videoDTO{
			ID:         det.Video.ID,
			Filename:   det.Video.Filename,
			SizeBytes:  det.Video.SizeBytes,
			UploadedAt: det.Video.UploadedAt.UTC().Format(timestampLayout),
		}
	}
	dto.Packages = make([]packageDTO, 0, len(det.Packages))
	for _, p := range det.Packages {
		dto.Packages = append(dto.Packages, packageDTO{
			FileName:              p.FileName,
			FileType:              p.FileType,
			FileSize:              p.FileSize,
			UploadedAt:            p.UploadedAt,
			PlatformType:          p.PlatformType,
			FileHash:              p.FileHash,
			VirusScan:             string(p.VirusScan),
			MinPlatformVersion:    p.MinPlatformVersion,
			TargetPlatformVersion: p.TargetPlatformVersion,
		})
	}
	dto.Files = make([]attachedFileDTO, 0, len(det.Files))
	for _, f := range det.Files {
		dto.Files = append(dto.Files, attachedFileDTO{
			Name: f.Name,
			Size: f.Size,
			Type: f.Type,
		})
	}
	return dto
}

func descriptionStatusToDTO(st service.DescriptionStatus) descriptionStatusDTO {
	return descriptionStatusDTO{
		Kind:    st.Kind,
		Count:   st.Count,
		Message: st.Message,
	}
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError транслирует ошибку сервисного слоя в HTTP-ответ.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Заявка не найдена")
	case errors.Is(err, service.ErrEmptyReason):
		apierrors.ValidationError(w, "Причина решения обязательна")
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		apierrors.InvalidState(w, "Действие недопустимо в текущем статусе заявки")
	case errors.Is(err, service.ErrUnsupportedFile):
		apierrors.UnsupportedFile(w, "Неподдерживаемый тип файла")
	default:
		h.logger.Error("Внутренняя ошибка обработки запроса",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
	}
}

// splitCSV разбивает значение multi-select параметра по запятым,
// отбрасывая пустые токены.
func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseDate разбирает дату фильтра: RFC3339 или YYYY-MM-DD.
// dateOnly=true для формата без времени — верхняя граница диапазона
// при таком значении расширяется до конца суток.
func parseDate(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", value)
	return t, err == nil, err
}
