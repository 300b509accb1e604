package models

import (
	"errors"
	"fmt"
)

// Ошибки хранилища. Репозитории возвращают их обёрнутыми, сервисы переводят в Error.
var (
	ErrNoRecord   = errors.New("models: no matching record found")
	ErrDuplicate  = errors.New("models: duplicate record")
	ErrInUse      = errors.New("models: record is referenced by other records")
	ErrStaleState = errors.New("models: state changed concurrently")
)

// ErrorKind классифицирует ошибки бизнес-логики
type ErrorKind int

const (
	// KindValidation - некорректные или противоречивые входные данные
	KindValidation ErrorKind = iota + 1
	// KindPermissionDenied - пользователь не может выполнить операцию над сущностью
	KindPermissionDenied
	// KindStateConflict - переход недопустим из текущего состояния
	KindStateConflict
	// KindNotFound - связанная сущность отсутствует
	KindNotFound
	// KindConflict - нарушение уникальности или ссылочной целостности
	KindConflict
)

// String возвращает код ошибки для ответа API
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindPermissionDenied:
		return "permission_denied"
	case KindStateConflict:
		return "state_conflict"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error - типизированная ошибка, возвращаемая сервисами
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewValidationError создает ошибку валидации
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewPermissionDenied создает ошибку доступа
func NewPermissionDenied(message string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: message}
}

// NewStateConflict создает ошибку недопустимого перехода
func NewStateConflict(message string) *Error {
	return &Error{Kind: KindStateConflict, Message: message}
}

// NewNotFound создает ошибку отсутствующей сущности
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewConflict создает ошибку конфликта уникальности
func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf возвращает вид ошибки или 0, если это не *Error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind проверяет вид ошибки по цепочке обёрток
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// NotFoundOr переводит ErrNoRecord в KindNotFound, остальные ошибки оборачивает как есть
func NotFoundOr(err error, message string) error {
	if errors.Is(err, ErrNoRecord) {
		return &Error{Kind: KindNotFound, Message: message, Cause: err}
	}
	return fmt.Errorf("%s: %w", message, err)
}
