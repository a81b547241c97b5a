package model

import "time"

// ReviewType — тип события в истории модерации.
type ReviewType string

// Типы событий истории.
const (
	ReviewTypeSubmission ReviewType = "Submission"
	ReviewTypeAuto       ReviewType = "Auto Review"
	ReviewTypeManual     ReviewType = "Manual Review"
)

// StatusSubmitted — псевдостатус события подачи заявки.
// Встречается только в истории модерации, в жизненном цикле
// заявки не участвует (ValidStatus его не признаёт).
const StatusSubmitted Status = "Submitted"

// ReviewScores — оценки ревью в процентах.
type ReviewScores struct {
	// ContentQuality — качество контента
	ContentQuality float64
	// Compliance — соответствие требованиям
	Compliance float64
	// SafetyCheck — проверка безопасности
	SafetyCheck float64
	// Overall — итоговая оценка
	Overall float64
}

// ReviewEvent — событие истории модерации заявки.
// История append-only: события добавляются в начало (свежие первыми)
// и никогда не изменяются и не удаляются.
type ReviewEvent struct {
	// ID — UUID события
	ID string
	// Timestamp — время события
	Timestamp time.Time
	// Status — статус, в который перешла заявка
	Status Status
	// Type — тип события (Submission, Auto Review, Manual Review)
	Type ReviewType
	// Operator — имя оператора (пусто для автоматических событий)
	Operator string
	// Reason — причина решения (для Rejected/Delisted)
	Reason string
	// Scores — оценки ревью (nil, если событие без оценок)
	Scores *ReviewScores
}
