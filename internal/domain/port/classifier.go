package port

import (
	"context"

	"nutrition-bot/internal/domain/entity"
)

// ClassificationBackend внешняя модель классификации изображений
type ClassificationBackend interface {
	// Classify возвращает оценки по классам, по одной на класс таксономии.
	// Вызов атомарный: прерывание во время инференса не поддерживается.
	Classify(ctx context.Context, tensor entity.ImageTensor) (entity.ScoreVector, error)

	// Close освобождает ресурсы модели
	Close() error
}

// ClassCounter реализуют бэкенды, знающие размер своего выхода
type ClassCounter interface {
	NumClasses() int
}
