package port

import (
	"context"

	"nutrition-bot/internal/domain/entity"
)

// UserRepository хранит состояние диалога. Возвращает копии:
// изменения видны другим только после Save.
type UserRepository interface {
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error

	// BeginProcessing атомарно переводит пользователя в processing.
	// ok=false, если анализ уже идёт и не завис.
	BeginProcessing(ctx context.Context, userID, chatID int64) (user *entity.User, ok bool, err error)
}
