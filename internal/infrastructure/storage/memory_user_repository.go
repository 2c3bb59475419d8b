package storage

import (
	"context"
	"sync"
	"time"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/domain/port"
)

// DefaultProcessingTimeout: после него зависший анализ перестаёт блокировать пользователя.
const DefaultProcessingTimeout = 5 * time.Minute

// MemoryUserOption настраивает MemoryUserRepository.
type MemoryUserOption func(*MemoryUserRepository)

// WithProcessingTimeout задаёт срок, после которого processing сбрасывается; 0 отключает сброс.
func WithProcessingTimeout(d time.Duration) MemoryUserOption {
	return func(r *MemoryUserRepository) { r.processingTimeout = d }
}

// WithClock подменяет часы.
func WithClock(now func() time.Time) MemoryUserOption {
	return func(r *MemoryUserRepository) { r.now = now }
}

// MemoryUserRepository in-memory хранилище диалогов. Хранит значения и отдаёт копии.
type MemoryUserRepository struct {
	mu                sync.Mutex
	users             map[int64]entity.User
	processingTimeout time.Duration
	now               func() time.Time
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository(opts ...MemoryUserOption) *MemoryUserRepository {
	r := &MemoryUserRepository{
		users:             make(map[int64]entity.User),
		processingTimeout: DefaultProcessingTimeout,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get возвращает копию пользователя; зависший processing сбрасывается в главное меню.
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.load(userID, chatID)
	return &user, nil
}

// Save сохраняет копию пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()
	return nil
}

// BeginProcessing атомарно занимает пользователя под анализ.
func (r *MemoryUserRepository) BeginProcessing(ctx context.Context, userID, chatID int64) (*entity.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.load(userID, chatID)
	if user.IsBusy() {
		return &user, false, nil
	}
	user.SetState(entity.StateProcessing, r.now())
	r.users[userID] = user
	return &user, true, nil
}

// load вызывается под r.mu.
func (r *MemoryUserRepository) load(userID, chatID int64) entity.User {
	now := r.now()
	user, ok := r.users[userID]
	if !ok {
		user = *entity.NewUser(userID, chatID, now)
		r.users[userID] = user
		return user
	}
	if user.ProcessingStale(now, r.processingTimeout) {
		user.SetState(entity.StateMainMenu, now)
		r.users[userID] = user
	}
	return user
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
