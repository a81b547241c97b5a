package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/repository"
)

// mediaFixture возвращает хранилище, сервис и счётчик освобождений
// видео-ресурсов по ID ассета.
func mediaFixture(t *testing.T) (*repository.SubmissionStore, *MediaService, map[string]int) {
	t.Helper()
	store := repository.NewSubmissionStore()
	if err := store.Seed(repository.SeedData()); err != nil {
		t.Fatalf("Seed() вернул ошибку: %v", err)
	}

	released := make(map[string]int)
	svc := NewMediaService(store, func(asset model.VideoAsset) {
		released[asset.ID]++
	}, testLogger())
	return store, svc, released
}

func TestAttachMarkdown(t *testing.T) {
	store, svc, _ := mediaFixture(t)
	ctx := context.Background()
	const id = "mcp-123456789"

	doc, err := svc.AttachMarkdown(ctx, id, "README.md", "# Server docs")
	if err != nil {
		t.Fatalf("AttachMarkdown() вернул ошибку: %v", err)
	}
	if doc.Filename != "README.md" || doc.Content != "# Server docs" {
		t.Errorf("документ %+v, ожидается README.md", doc)
	}

	det, _ := store.GetDetails(ctx, id)
	if det.Document == nil || det.Document.Filename != "README.md" {
		t.Errorf("документ не зафиксирован в карточке: %+v", det.Document)
	}

	// Повторная загрузка заменяет документ
	if _, err := svc.AttachMarkdown(ctx, id, "guide.md", "updated"); err != nil {
		t.Fatalf("повторный AttachMarkdown() вернул ошибку: %v", err)
	}
	det, _ = store.GetDetails(ctx, id)
	if det.Document.Filename != "guide.md" {
		t.Errorf("замена документа не произошла: %q", det.Document.Filename)
	}
}

func TestAttachMarkdown_UnsupportedFile(t *testing.T) {
	store, svc, _ := mediaFixture(t)
	ctx := context.Background()
	const id = "mcp-123456789"

	for _, filename := range []string{"doc.txt", "doc.pdf", "doc", "doc.md.exe"} {
		t.Run(filename, func(t *testing.T) {
			_, err := svc.AttachMarkdown(ctx, id, filename, "content")
			if !errors.Is(err, ErrUnsupportedFile) {
				t.Errorf("AttachMarkdown(%q) вернул %v, ожидается ErrUnsupportedFile", filename, err)
			}
		})
	}

	// Отброшенный файл не оставил частичного состояния
	det, _ := store.GetDetails(ctx, id)
	if det.Document != nil {
		t.Errorf("отброшенный файл оставил документ: %+v", det.Document)
	}
}

func TestRemoveMarkdown(t *testing.T) {
	store, svc, _ := mediaFixture(t)
	ctx := context.Background()
	const id = "mcp-123456789"

	if _, err := svc.AttachMarkdown(ctx, id, "README.md", "docs"); err != nil {
		t.Fatalf("AttachMarkdown() вернул ошибку: %v", err)
	}
	if err := svc.RemoveMarkdown(ctx, id); err != nil {
		t.Fatalf("RemoveMarkdown() вернул ошибку: %v", err)
	}

	det, _ := store.GetDetails(ctx, id)
	if det.Document != nil {
		t.Errorf("документ не удалён: %+v", det.Document)
	}
}

func TestAttachVideo_ReleasesReplacedExactlyOnce(t *testing.T) {
	_, svc, released := mediaFixture(t)
	ctx := context.Background()
	const id = "mcp-123456789"

	first, err := svc.AttachVideo(ctx, id, "demo.mp4", 1024)
	if err != nil {
		t.Fatalf("AttachVideo() вернул ошибку: %v", err)
	}
	if len(released) != 0 {
		t.Errorf("первая загрузка освободила ресурсы: %v", released)
	}

	// Замена освобождает вытесненное видео ровно один раз
	if _, err := svc.AttachVideo(ctx, id, "demo2.mp4", 2048); err != nil {
		t.Fatalf("повторный AttachVideo() вернул ошибку: %v", err)
	}
	if released[first.ID] != 1 {
		t.Errorf("вытесненное видео освобождено %d раз, ожидается 1", released[first.ID])
	}
}

func TestRemoveVideo_ReleasesExactlyOnce(t *testing.T) {
	_, svc, released := mediaFixture(t)
	ctx := context.Background()
	const id = "mcp-123456789"

	asset, err := svc.AttachVideo(ctx, id, "demo.mp4", 1024)
	if err != nil {
		t.Fatalf("AttachVideo() вернул ошибку: %v", err)
	}

	if err := svc.RemoveVideo(ctx, id); err != nil {
		t.Fatalf("RemoveVideo() вернул ошибку: %v", err)
	}
	if released[asset.ID] != 1 {
		t.Errorf("удалённое видео освобождено %d раз, ожидается 1", released[asset.ID])
	}

	// Повторное удаление без видео ничего не освобождает
	if err := svc.RemoveVideo(ctx, id); err != nil {
		t.Fatalf("повторный RemoveVideo() вернул ошибку: %v", err)
	}
	if released[asset.ID] != 1 {
		t.Errorf("повторное удаление освободило ресурс ещё раз: %d", released[asset.ID])
	}
}

func TestAttachVideo_UnsupportedFile(t *testing.T) {
	_, svc, released := mediaFixture(t)

	_, err := svc.AttachVideo(context.Background(), "mcp-123456789", "demo.avi", 1024)
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("AttachVideo(demo.avi) вернул %v, ожидается ErrUnsupportedFile", err)
	}
	if len(released) != 0 {
		t.Errorf("отброшенный файл освободил ресурсы: %v", released)
	}
}

func TestMedia_NotFound(t *testing.T) {
	_, svc, _ := mediaFixture(t)
	ctx := context.Background()

	if _, err := svc.AttachMarkdown(ctx, "mcp-999999999", "a.md", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AttachMarkdown() несуществующей заявки вернул %v, ожидается ErrNotFound", err)
	}
	if _, err := svc.AttachVideo(ctx, "mcp-999999999", "a.mp4", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("AttachVideo() несуществующей заявки вернул %v, ожидается ErrNotFound", err)
	}
}
