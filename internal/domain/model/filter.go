package model

import "time"

// Tab — активная вкладка списка заявок: очередь модерации или архив решений.
type Tab string

// Вкладки списка. Вкладка задаёт неявное ограничение по полю Reviewed.
const (
	TabPending  Tab = "pending"
	TabReviewed Tab = "reviewed"
)

// ValidTab сообщает, допустимо ли значение вкладки.
func ValidTab(t Tab) bool {
	return t == TabPending || t == TabReviewed
}

// FilterCriteria — критерии фильтрации списка заявок.
// Пустое поле означает отсутствие ограничения; все заданные
// ограничения объединяются по И.
//
// Multi-select поля (Statuses, Providers, ServerIDs, Developers) —
// настоящие множества строк. Склейка через запятую, как в форменных
// биндингах, разбирается на границе HTTP и сюда не попадает.
type FilterCriteria struct {
	// Statuses — заявка проходит, если её статус входит в множество
	Statuses []Status
	// Providers — аналогично по категории поставщика
	Providers []Provider
	// DateFrom — нижняя граница даты подачи (включительно)
	DateFrom *time.Time
	// DateTo — верхняя граница даты подачи (включительно)
	DateTo *time.Time
	// Search — подстрока имени сервера без учёта регистра
	Search string
	// ServerIDs — токены, любой из которых — подстрока ServerID заявки
	ServerIDs []string
	// Developers — токены, любой из которых — подстрока Developer заявки
	Developers []string
}

// Empty сообщает, заданы ли какие-либо ограничения.
func (c FilterCriteria) Empty() bool {
	return len(c.Statuses) == 0 &&
		len(c.Providers) == 0 &&
		c.DateFrom == nil &&
		c.DateTo == nil &&
		c.Search == "" &&
		len(c.ServerIDs) == 0 &&
		len(c.Developers) == 0
}
