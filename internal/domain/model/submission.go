// Пакет model — доменные типы Review Module: заявки MCP-серверов,
// статусы жизненного цикла, критерии фильтрации, история модерации.
package model

import "time"

// Status — статус жизненного цикла заявки.
type Status string

// Статусы заявки. Первые два присваиваются автоматическим ревью
// (раздел "Pending Review"), остальные — результат решения модератора
// (раздел "Reviewed").
const (
	StatusAutoApproved Status = "Auto Approved"
	StatusAutoRejected Status = "Auto Rejected"
	StatusPublished    Status = "Published"
	StatusRejected     Status = "Rejected"
	StatusDelisted     Status = "Delisted"
	StatusUnlisted     Status = "Unlisted"
)

// Provider — категория поставщика заявки.
type Provider string

// Допустимые категории поставщика.
const (
	ProviderIndividual Provider = "Individual"
	ProviderITEM       Provider = "ITEM"
)

// AIReview — результат автоматического ревью заявки.
type AIReview string

// Возможные результаты автоматического ревью.
const (
	AIReviewPass        AIReview = "Pass"
	AIReviewFail        AIReview = "Fail"
	AIReviewNeedsReview AIReview = "Needs Review"
)

// Submission — заявка на публикацию MCP-сервера в маркетплейсе.
type Submission struct {
	// ID — уникальный идентификатор заявки (mcp-#########)
	ID string
	// ServerID — человекочитаемый идентификатор сервера (slug)
	ServerID string
	// Name — отображаемое имя сервера
	Name string
	// Developer — контакт разработчика (email)
	Developer string
	// Provider — категория поставщика (Individual, ITEM)
	Provider Provider
	// Version — версия в свободном формате
	Version string
	// SubmittedAt — время подачи заявки
	SubmittedAt time.Time
	// Status — текущий статус жизненного цикла
	Status Status
	// AIReview — результат автоматического ревью (может быть пустым)
	AIReview AIReview
	// Reviewed — прошла ли заявка ручную модерацию
	Reviewed bool
}

// ValidStatus сообщает, входит ли статус в закрытое множество статусов.
func ValidStatus(s Status) bool {
	switch s {
	case StatusAutoApproved, StatusAutoRejected,
		StatusPublished, StatusRejected, StatusDelisted, StatusUnlisted:
		return true
	}
	return false
}

// ValidProvider сообщает, входит ли категория в закрытое множество.
func ValidProvider(p Provider) bool {
	return p == ProviderIndividual || p == ProviderITEM
}

// StatusAllowed проверяет инвариант пары reviewed/status:
// непроверенные заявки несут только Auto Approved / Auto Rejected,
// проверенные — только Published / Rejected / Delisted / Unlisted.
func StatusAllowed(reviewed bool, s Status) bool {
	switch s {
	case StatusAutoApproved, StatusAutoRejected:
		return !reviewed
	case StatusPublished, StatusRejected, StatusDelisted, StatusUnlisted:
		return reviewed
	}
	return false
}
