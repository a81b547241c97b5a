// pagination.go — движок клиентской пагинации отфильтрованного списка.
// Страницы нумеруются с 1; пустой список отображается как одна пустая
// страница, а не ошибка.
package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
)

// PageSizes — допустимые размеры страницы.
var PageSizes = []int{10, 20, 30, 50}

// DefaultPageSize — размер страницы по умолчанию.
const DefaultPageSize = 10

// ValidPageSize сообщает, входит ли размер в допустимое множество.
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Page — метаданные видимой страницы.
type Page struct {
	// Current — номер страницы после clamp в [1, TotalPages]
	Current int
	// Size — размер страницы
	Size int
	// Start — индекс первого видимого элемента (включительно)
	Start int
	// End — индекс за последним видимым элементом
	End int
	// TotalItems — размер отфильтрованного списка
	TotalItems int
	// TotalPages — количество страниц, минимум 1
	TotalPages int
}

// Paginate вычисляет окно страницы page размера size для списка из
// totalItems элементов. Номер страницы вне диапазона приводится
// к ближайшей границе. Недопустимый размер — ошибка валидации.
func Paginate(totalItems, page, size int) (Page, error) {
	if !ValidPageSize(size) {
		return Page{}, fmt.Errorf("размер страницы %d не входит в %v: %w", size, PageSizes, ErrValidation)
	}
	if totalItems < 0 {
		totalItems = 0
	}

	totalPages := (totalItems + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	if start > totalItems {
		start = totalItems
	}
	end := start + size
	if end > totalItems {
		end = totalItems
	}

	return Page{
		Current:    page,
		Size:       size,
		Start:      start,
		End:        end,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// PaginateSubmissions возвращает видимый срез заявок и метаданные страницы.
func PaginateSubmissions(records []model.Submission, page, size int) ([]model.Submission, Page, error) {
	p, err := Paginate(len(records), page, size)
	if err != nil {
		return nil, Page{}, err
	}
	return records[p.Start:p.End], p, nil
}

// ParseJumpTarget разбирает ввод "перейти к странице".
// Нечисловой или выходящий за [1, totalPages] ввод игнорируется:
// возвращается ok=false без ошибки.
func ParseJumpTarget(input string, totalPages int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, false
	}
	if n < 1 || n > totalPages {
		return 0, false
	}
	return n, true
}
