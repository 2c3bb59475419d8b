package app

import (
	"context"
	"time"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
	now  func() time.Time
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo, now: time.Now}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state, s.now())
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// BeginCheck переводит пользователя в ожидание фото.
func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

// StartProcessing помечает, что фото пользователя анализируется.
// ok=false, если предыдущий анализ ещё не закончен.
func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (*entity.User, bool, error) {
	return s.repo.BeginProcessing(ctx, userID, chatID)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}
