// Package apperr описывает типизированные ошибки ядра бронирования.
// Вызывающий код проверяет Kind, а не текст сообщения.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind — категория ошибки.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindNotAvailable
	KindUnauthorized
	KindForbidden
	KindAlreadyExists
	KindInvalidCredentials
	KindConnectivity
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindNotAvailable:
		return "not_available"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindAlreadyExists:
		return "already_exists"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindConnectivity:
		return "connectivity"
	default:
		return "unexpected"
	}
}

// Error — ошибка с категорией. Fields заполняется только для KindValidation.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is позволяет сравнивать с шаблонами вида &Error{Kind: KindNotFound}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error { return New(KindNotFound, format, args...) }

func NotAvailable(format string, args ...any) *Error {
	return New(KindNotAvailable, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error { return New(KindForbidden, format, args...) }

func AlreadyExists(format string, args ...any) *Error {
	return New(KindAlreadyExists, format, args...)
}

func InvalidCredentials(format string, args ...any) *Error {
	return New(KindInvalidCredentials, format, args...)
}

// Connectivity оборачивает сбой хранилища или сети. Только такие ошибки можно повторять.
func Connectivity(err error, op string) *Error {
	return &Error{Kind: KindConnectivity, Message: op, Err: err}
}

// ValidationError собирает ошибки по полям.
type ValidationError struct {
	fields map[string]string
}

func NewValidation() *ValidationError { return &ValidationError{} }

func (v *ValidationError) Add(field, message string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; exists {
		return
	}
	v.fields[field] = message
}

func (v *ValidationError) HasErrors() bool { return v != nil && len(v.fields) > 0 }

// Err возвращает nil, если ошибок нет.
func (v *ValidationError) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: v.fields}
}

// KindOf возвращает категорию ошибки err или KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is сообщает, относится ли err к категории kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// Retryable: повторять как есть можно только сбои связи.
func Retryable(err error) bool { return KindOf(err) == KindConnectivity }

// FieldsOf возвращает ошибки по полям для KindValidation.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
