package entity

import (
	"errors"
	"fmt"
)

// ErrEmptyScoreVector бэкенд вернул пустой вектор оценок.
var ErrEmptyScoreVector = errors.New("empty score vector")

// PreprocessError входное изображение непригодно для анализа.
type PreprocessError struct {
	Reason string
	Err    error
}

func (e *PreprocessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("preprocess: %s: %v", e.Reason, e.Err)
	}
	return "preprocess: " + e.Reason
}

func (e *PreprocessError) Unwrap() error { return e.Err }

// BackendUnavailableError бэкенд не инициализирован или уже закрыт.
type BackendUnavailableError struct {
	Reason string
}

func (e *BackendUnavailableError) Error() string {
	return "classification backend unavailable: " + e.Reason
}

// InferenceError бэкенд упал во время классификации. Сообщение бэкенда сохраняется.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// ContractViolationError бэкенд нарушил контракт (длина, диапазон, NaN).
// Это дефект конфигурации, а не штатная ошибка.
type ContractViolationError struct {
	Detail string
	Err    error
}

func (e *ContractViolationError) Error() string {
	return "backend contract violation: " + e.Detail
}

func (e *ContractViolationError) Unwrap() error { return e.Err }

// IsDefect сообщает, что ошибка указывает на дефект, а не на штатный сбой.
func IsDefect(err error) bool {
	var cv *ContractViolationError
	return errors.As(err, &cv) || errors.Is(err, ErrEmptyScoreVector)
}
