// filter.go — движок фильтрации списка заявок.
// Чистые функции над snapshot хранилища: стабильный фильтр без
// пересортировки, пустые поля критериев ограничений не накладывают,
// заданные объединяются по И. Движок никогда не возвращает ошибку.
package service

import (
	"strings"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
)

// ApplyFilter возвращает подмножество заявок активной вкладки,
// удовлетворяющее всем заданным критериям. Исходный относительный
// порядок сохраняется, вход не модифицируется.
func ApplyFilter(records []model.Submission, tab model.Tab, c model.FilterCriteria) []model.Submission {
	out := make([]model.Submission, 0, len(records))
	for _, sub := range records {
		if !MatchTab(sub, tab) {
			continue
		}
		if !Match(sub, c) {
			continue
		}
		out = append(out, sub)
	}
	return out
}

// MatchTab проверяет неявное ограничение вкладки по полю Reviewed.
func MatchTab(sub model.Submission, tab model.Tab) bool {
	if tab == model.TabReviewed {
		return sub.Reviewed
	}
	return !sub.Reviewed
}

// Match проверяет заявку по всем явным критериям.
func Match(sub model.Submission, c model.FilterCriteria) bool {
	if len(c.Statuses) > 0 && !containsStatus(c.Statuses, sub.Status) {
		return false
	}
	if len(c.Providers) > 0 && !containsProvider(c.Providers, sub.Provider) {
		return false
	}

	// Границы дат включительные; заявка с нулевым временем подачи
	// исключается любым заданным ограничением по дате.
	if c.DateFrom != nil || c.DateTo != nil {
		if sub.SubmittedAt.IsZero() {
			return false
		}
		if c.DateFrom != nil && sub.SubmittedAt.Before(*c.DateFrom) {
			return false
		}
		if c.DateTo != nil && sub.SubmittedAt.After(*c.DateTo) {
			return false
		}
	}

	if c.Search != "" &&
		!strings.Contains(strings.ToLower(sub.Name), strings.ToLower(c.Search)) {
		return false
	}

	if len(c.ServerIDs) > 0 && !anyTokenSubstring(c.ServerIDs, sub.ServerID) {
		return false
	}
	if len(c.Developers) > 0 && !anyTokenSubstring(c.Developers, sub.Developer) {
		return false
	}

	return true
}

// anyTokenSubstring сообщает, является ли хоть один непустой токен
// подстрокой значения поля.
func anyTokenSubstring(tokens []string, value string) bool {
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.Contains(value, tok) {
			return true
		}
	}
	return false
}

func containsStatus(set []model.Status, s model.Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsProvider(set []model.Provider, p model.Provider) bool {
	for _, v := range set {
		if v == p {
			return true
		}
	}
	return false
}
