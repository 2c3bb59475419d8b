package storage

import (
	"context"
	"slices"
	"sync"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/domain/port"
)

// DefaultHistoryCap сколько записей на пользователя держит память.
const DefaultHistoryCap = 50

// MemoryResultRepository хранит историю оценок в памяти процесса.
// Используется, когда база данных не настроена.
type MemoryResultRepository struct {
	mu      sync.RWMutex
	perUser int
	records map[int64][]entity.AssessmentRecord // по возрастанию времени
}

// NewMemoryResultRepository создаёт хранилище; capPerUser<=0 означает DefaultHistoryCap.
func NewMemoryResultRepository(capPerUser int) *MemoryResultRepository {
	if capPerUser <= 0 {
		capPerUser = DefaultHistoryCap
	}
	return &MemoryResultRepository{
		perUser: capPerUser,
		records: make(map[int64][]entity.AssessmentRecord),
	}
}

// Append добавляет запись, вытесняя самые старые сверх лимита.
func (r *MemoryResultRepository) Append(ctx context.Context, record entity.AssessmentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := append(r.records[record.UserID], record)
	if len(list) > r.perUser {
		list = slices.Clone(list[len(list)-r.perUser:])
	}
	r.records[record.UserID] = list
	return nil
}

// Recent возвращает до limit последних записей пользователя, новые первыми.
func (r *MemoryResultRepository) Recent(ctx context.Context, userID int64, limit int) ([]entity.AssessmentRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.records[userID]
	n := min(limit, len(list))
	out := make([]entity.AssessmentRecord, 0, n)
	for i := len(list) - 1; i >= len(list)-n; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

var _ port.ResultRepository = (*MemoryResultRepository)(nil)
