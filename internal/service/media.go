// media.go — документация и медиа детальной карточки.
// Markdown принимается только *.md, видео — только *.mp4; файл
// неподходящего типа отбрасывается без частичного состояния.
// Видео держит клиентский ресурс: при замене и удалении ресурс
// освобождается ровно один раз.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/repository"
)

// VideoReleaser освобождает ресурс, удерживаемый видео-ассетом.
type VideoReleaser func(asset model.VideoAsset)

// MediaService — загрузка и удаление документации и видео.
type MediaService struct {
	store   *repository.SubmissionStore
	release VideoReleaser
	now     func() time.Time
	logger  *slog.Logger
}

// NewMediaService создаёт MediaService.
// release может быть nil — тогда освобождение ресурса no-op.
func NewMediaService(store *repository.SubmissionStore, release VideoReleaser, logger *slog.Logger) *MediaService {
	if release == nil {
		release = func(model.VideoAsset) {}
	}
	return &MediaService{
		store:   store,
		release: release,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "service.media")),
	}
}

// AttachMarkdown загружает markdown-документ, заменяя предыдущий.
func (s *MediaService) AttachMarkdown(ctx context.Context, id, filename, content string) (model.MarkdownDoc, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".md") {
		return model.MarkdownDoc{}, ErrUnsupportedFile
	}

	doc := model.MarkdownDoc{
		Filename:   filename,
		Content:    content,
		UploadedAt: s.now(),
	}
	if err := s.store.SetDocument(ctx, id, &doc); err != nil {
		return model.MarkdownDoc{}, mapStoreErr(err)
	}

	s.logger.Info("Документ загружен",
		slog.String("submission_id", id),
		slog.String("filename", filename),
	)
	return doc, nil
}

// RemoveMarkdown удаляет markdown-документ карточки.
func (s *MediaService) RemoveMarkdown(ctx context.Context, id string) error {
	if err := s.store.SetDocument(ctx, id, nil); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// AttachVideo загружает демонстрационное видео, заменяя предыдущее.
// Ресурс вытесненного видео освобождается.
func (s *MediaService) AttachVideo(ctx context.Context, id, filename string, sizeBytes int64) (model.VideoAsset, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".mp4") {
		return model.VideoAsset{}, ErrUnsupportedFile
	}

	asset := model.VideoAsset{
		ID:         uuid.NewString(),
		Filename:   filename,
		SizeBytes:  sizeBytes,
		UploadedAt: s.now(),
	}
	prev, err := s.store.SetVideo(ctx, id, &asset)
	if err != nil {
		return model.VideoAsset{}, mapStoreErr(err)
	}
	if prev != nil {
		s.release(*prev)
	}

	s.logger.Info("Видео загружено",
		slog.String("submission_id", id),
		slog.String("filename", filename),
	)
	return asset, nil
}

// RemoveVideo удаляет видео карточки и освобождает его ресурс.
func (s *MediaService) RemoveVideo(ctx context.Context, id string) error {
	prev, err := s.store.SetVideo(ctx, id, nil)
	if err != nil {
		return mapStoreErr(err)
	}
	if prev != nil {
		s.release(*prev)
	}
	return nil
}
