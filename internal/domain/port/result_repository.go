package port

import (
	"context"

	"nutrition-bot/internal/domain/entity"
)

// ResultRepository хранилище истории оценок
type ResultRepository interface {
	// Append сохраняет запись
	Append(ctx context.Context, record entity.AssessmentRecord) error

	// Recent возвращает последние записи пользователя, новые первыми
	Recent(ctx context.Context, userID int64, limit int) ([]entity.AssessmentRecord, error)
}

// ResultCache кэш результатов по отпечатку изображения
type ResultCache interface {
	// Get возвращает результат; ok=false при промахе
	Get(ctx context.Context, key string) (result entity.AnalysisResult, ok bool, err error)

	// Set сохраняет успешный результат
	Set(ctx context.Context, key string, result entity.AnalysisResult) error
}
