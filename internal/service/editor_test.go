package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/repository"
)

// editorFixture возвращает засеянное хранилище и редактор.
func editorFixture(t *testing.T) (*repository.SubmissionStore, *EditorService) {
	t.Helper()
	store := repository.NewSubmissionStore()
	if err := store.Seed(repository.SeedData()); err != nil {
		t.Fatalf("Seed() вернул ошибку: %v", err)
	}
	return store, NewEditorService(store, testLogger())
}

func strptr(s string) *string { return &s }

func TestDescribeDescription(t *testing.T) {
	tests := []struct {
		name        string
		length      int
		wantKind    string
		wantMessage string
	}{
		{"пустое описание", 0, DescriptionShort, "50 more characters needed"},
		{"на один короче минимума", 49, DescriptionShort, "1 more characters needed"},
		{"ровно минимум", 50, DescriptionGood, "50 characters remaining"},
		{"внутри диапазона", 75, DescriptionGood, "25 characters remaining"},
		{"ровно максимум", 100, DescriptionGood, "0 characters remaining"},
		{"на один длиннее максимума", 101, DescriptionLong, "1 characters over limit"},
		{"сильно длиннее", 150, DescriptionLong, "50 characters over limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := DescribeDescription(strings.Repeat("a", tt.length))
			if st.Kind != tt.wantKind {
				t.Errorf("Kind = %q, ожидается %q", st.Kind, tt.wantKind)
			}
			if st.Count != tt.length {
				t.Errorf("Count = %d, ожидается %d", st.Count, tt.length)
			}
			if st.Message != tt.wantMessage {
				t.Errorf("Message = %q, ожидается %q", st.Message, tt.wantMessage)
			}
		})
	}
}

// Длина считается в символах, не в байтах.
func TestDescribeDescription_Runes(t *testing.T) {
	st := DescribeDescription(strings.Repeat("я", 60))
	if st.Kind != DescriptionGood || st.Count != 60 {
		t.Errorf("кириллическое описание: kind=%q count=%d, ожидается good/60", st.Kind, st.Count)
	}
}

func TestEditor_DraftLifecycle(t *testing.T) {
	store, svc := editorFixture(t)
	ctx := context.Background()
	const id = "mcp-123456789"

	fields, err := svc.BeginEdit(ctx, id)
	if err != nil {
		t.Fatalf("BeginEdit() вернул ошибку: %v", err)
	}
	if !svc.IsEditing(id) {
		t.Error("IsEditing() = false после BeginEdit")
	}

	// Правка черновика не видна в зафиксированных значениях
	if _, err := svc.UpdateDraft(ctx, id, FieldsPatch{ServiceName: strptr("Renamed Service")}); err != nil {
		t.Fatalf("UpdateDraft() вернул ошибку: %v", err)
	}
	det, _ := store.GetDetails(ctx, id)
	if det.Fields.ServiceName != fields.ServiceName {
		t.Errorf("черновик протёк в зафиксированные значения: %q", det.Fields.ServiceName)
	}

	// Save фиксирует черновик и закрывает режим редактирования
	saved, _, err := svc.Save(ctx, id)
	if err != nil {
		t.Fatalf("Save() вернул ошибку: %v", err)
	}
	if saved.Fields.ServiceName != "Renamed Service" {
		t.Errorf("после Save ServiceName = %q, ожидается Renamed Service", saved.Fields.ServiceName)
	}
	if svc.IsEditing(id) {
		t.Error("IsEditing() = true после Save")
	}
}

func TestEditor_CancelDiscardsDraft(t *testing.T) {
	store, svc := editorFixture(t)
	ctx := context.Background()
	const id = "mcp-123456789"

	before, _ := store.GetDetails(ctx, id)

	if _, err := svc.BeginEdit(ctx, id); err != nil {
		t.Fatalf("BeginEdit() вернул ошибку: %v", err)
	}
	if _, err := svc.UpdateDraft(ctx, id, FieldsPatch{Description: strptr("draft only")}); err != nil {
		t.Fatalf("UpdateDraft() вернул ошибку: %v", err)
	}
	svc.Cancel(ctx, id)

	after, _ := store.GetDetails(ctx, id)
	if after.Fields.Description != before.Fields.Description {
		t.Errorf("Cancel изменил зафиксированные значения: %q", after.Fields.Description)
	}
	if svc.IsEditing(id) {
		t.Error("IsEditing() = true после Cancel")
	}

	// Повторная отмена без черновика — no-op
	svc.Cancel(ctx, id)
}

func TestEditor_UpdateDraftWithoutBegin(t *testing.T) {
	_, svc := editorFixture(t)

	_, err := svc.UpdateDraft(context.Background(), "mcp-123456789", FieldsPatch{})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("UpdateDraft() без черновика вернул %v, ожидается ErrInvalidState", err)
	}
}

func TestEditor_SaveShortDescriptionSucceeds(t *testing.T) {
	// Валидация длины — только подсказка, сохранение не блокируется
	_, svc := editorFixture(t)

	_, status, err := svc.ApplyPatch(context.Background(), "mcp-123456789",
		FieldsPatch{Description: strptr("too short")})
	if err != nil {
		t.Fatalf("ApplyPatch() с коротким описанием вернул ошибку: %v", err)
	}
	if status.Kind != DescriptionShort {
		t.Errorf("Kind = %q, ожидается short", status.Kind)
	}
}

func TestEditor_InvalidConnectionType(t *testing.T) {
	store, svc := editorFixture(t)
	ctx := context.Background()
	const id = "mcp-123456789"

	before, _ := store.GetDetails(ctx, id)

	_, _, err := svc.ApplyPatch(ctx, id, FieldsPatch{ServiceType: strptr("websocket")})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ApplyPatch() с недопустимым типом подключения вернул %v, ожидается ErrValidation", err)
	}

	// Неуспешный патч не оставляет ни изменений, ни открытого черновика
	after, _ := store.GetDetails(ctx, id)
	if after.Fields != before.Fields {
		t.Error("неуспешный патч изменил зафиксированные значения")
	}
	if svc.IsEditing(id) {
		t.Error("IsEditing() = true после неуспешного патча")
	}
}

func TestEditor_ApplyPatchValidConnectionTypes(t *testing.T) {
	for _, ct := range []string{"sse", "stdio", "http"} {
		t.Run(ct, func(t *testing.T) {
			_, svc := editorFixture(t)
			det, _, err := svc.ApplyPatch(context.Background(), "mcp-123456789",
				FieldsPatch{ServiceType: strptr(ct)})
			if err != nil {
				t.Fatalf("ApplyPatch(%s) вернул ошибку: %v", ct, err)
			}
			if det.Fields.ServiceType != model.ConnectionType(ct) {
				t.Errorf("ServiceType = %q, ожидается %q", det.Fields.ServiceType, ct)
			}
		})
	}
}

func TestEditor_NotFound(t *testing.T) {
	_, svc := editorFixture(t)

	_, err := svc.BeginEdit(context.Background(), "mcp-999999999")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("BeginEdit() несуществующей заявки вернул %v, ожидается ErrNotFound", err)
	}
}
