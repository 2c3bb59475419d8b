package logging

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// OperationError привязывает ошибку инфраструктуры к операции и её объекту:
// ключу кэша, file_id Telegram, id записи истории.
type OperationError struct {
	Operation string
	Subject   string
	Err       error
}

func (e *OperationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Operation, e.Subject, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// NewOperationError оборачивает err; nil остаётся nil, чтобы можно было
// оборачивать результат вызова целиком.
func NewOperationError(operation, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, Subject: subject, Err: err}
}

// ErrorFields раскладывает ошибку в поля лога. Для OperationError в цепочке
// операция и объект выносятся в отдельные поля.
func ErrorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		return fields
	}
	fields = append(fields, zap.String("failed_operation", opErr.Operation))
	if opErr.Subject != "" {
		fields = append(fields, zap.String("subject", opErr.Subject))
	}
	return fields
}
