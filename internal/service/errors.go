// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — заявка не найдена.
	ErrNotFound = errors.New("заявка не найдена")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrInvalidState — действие недопустимо в текущем статусе заявки.
	ErrInvalidState = errors.New("действие недопустимо в текущем статусе заявки")
	// ErrEmptyReason — причина решения обязательна и не может быть пустой.
	ErrEmptyReason = errors.New("причина решения не может быть пустой")
	// ErrUnsupportedFile — неподдерживаемый тип загружаемого файла.
	ErrUnsupportedFile = errors.New("неподдерживаемый тип файла")
)
