// pkg/spot/errors.go
package spot

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput - некорректные входные данные (отрицательные суммы, масштабы и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidAmount - некорректная сумма для конвертации; является ErrInvalidInput
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
)

// InputError описывает, какое поле не прошло проверку
type InputError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: %s=%q: %s", e.Err, e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func invalidInput(field, value, reason string) error {
	return &InputError{Field: field, Value: value, Reason: reason, Err: ErrInvalidInput}
}

func invalidAmount(field, value, reason string) error {
	return &InputError{Field: field, Value: value, Reason: reason, Err: ErrInvalidAmount}
}

// IsInvalidInput определяет, является ли ошибка ошибкой входных данных
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
