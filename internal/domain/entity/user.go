package entity

import "time"

// UserState шаг диалога оценки
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // ждём команду
	StateAwaitingPhoto UserState = "awaiting_photo" // после /check
	StateProcessing    UserState = "processing"     // фото анализируется
)

// User диалог одного пользователя бота
type User struct {
	ID      int64
	ChatID  int64
	State   UserState
	Entered time.Time // когда пользователь перешёл в State
}

// NewUser создаёт пользователя в главном меню
func NewUser(userID, chatID int64, now time.Time) *User {
	return &User{
		ID:      userID,
		ChatID:  chatID,
		State:   StateMainMenu,
		Entered: now,
	}
}

// SetState переводит пользователя в state с отметкой времени
func (u *User) SetState(state UserState, now time.Time) {
	u.State = state
	u.Entered = now
}

// IsBusy сообщает, что для пользователя уже идёт анализ
func (u *User) IsBusy() bool {
	return u.State == StateProcessing
}

// ProcessingStale сообщает, что анализ висит дольше timeout.
// Такой пользователь считается свободным: обработчик, скорее всего, упал.
func (u *User) ProcessingStale(now time.Time, timeout time.Duration) bool {
	return u.IsBusy() && timeout > 0 && now.Sub(u.Entered) >= timeout
}
