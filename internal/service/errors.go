package service

import (
	"errors"
	"fmt"
	"strings"
)

// Классы ошибок бизнес-логики. Обработчики HTTP сопоставляют их с кодами ответа.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ErrAlreadySigned возвращается при попытке повторно подписать инцидент
var ErrAlreadySigned = fmt.Errorf("%w: incident already signed", ErrConflict)

// ValidationError описывает некорректные или отсутствующие поля запроса
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// IsDomainError сообщает, что ошибка относится к ожидаемым (не к сбоям хранилища)
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthenticated)
}
